package widget

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-concierge-platform/models"
)

func TestGenerateEmbedCodeDeterministic(t *testing.T) {
	settings := models.DefaultWidgetSettings()
	settings.ChatURL = "https://hotels.example.com/widget/grand-plaza"

	first, err := GenerateEmbedCode(settings, "https://admin.hotels.example.com/panel")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := GenerateEmbedCode(settings, "https://admin.hotels.example.com/panel")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGenerateEmbedCodeInterpolatesSettings(t *testing.T) {
	settings := models.WidgetSettings{
		ButtonColor:    "#112233",
		ButtonColorEnd: "#445566",
		ButtonSize:     72,
		Position:       "bottom-left",
		WindowWidth:    400,
		WindowHeight:   600,
		BorderRadius:   20,
		ChatURL:        "https://hotels.example.com/widget/grand-plaza",
	}

	code, err := GenerateEmbedCode(settings, "")
	require.NoError(t, err)

	assert.Contains(t, code, "linear-gradient(135deg,#112233,#445566)")
	assert.Contains(t, code, "width:72px;height:72px")
	assert.Contains(t, code, "bottom:24px;left:24px")
	assert.Contains(t, code, "width:400px;height:600px;border-radius:20px")
	assert.Contains(t, code, `src="https://hotels.example.com/widget/grand-plaza"`)
	assert.NotContains(t, code, "<style>", "no custom CSS block when unset")
}

func TestGenerateEmbedCodeCustomCSSVerbatim(t *testing.T) {
	settings := models.DefaultWidgetSettings()
	settings.ChatURL = "https://hotels.example.com/widget/grand-plaza"
	settings.CustomCSS = "#hc-widget-btn { border: 2px solid gold; }\n.hc-x { color: red; }"

	code, err := GenerateEmbedCode(settings, "")
	require.NoError(t, err)

	// rendered as a quoted JS string literal, content intact
	assert.Contains(t, code, `"#hc-widget-btn { border: 2px solid gold; }\n.hc-x { color: red; }"`)
}

func TestGenerateEmbedCodeDerivesChatURLWhenUnset(t *testing.T) {
	settings := models.DefaultWidgetSettings()

	code, err := GenerateEmbedCode(settings, "https://admin.hotels.example.com/panel/widget")
	require.NoError(t, err)
	assert.Contains(t, code, `src="https://hotels.example.com/widget"`)
}

func TestGenerateEmbedCodeIconURL(t *testing.T) {
	settings := models.DefaultWidgetSettings()
	settings.ChatURL = "https://hotels.example.com/widget/x"
	settings.IconURL = "https://cdn.example.com/logo.png"

	code, err := GenerateEmbedCode(settings, "")
	require.NoError(t, err)
	assert.Contains(t, code, `src="https://cdn.example.com/logo.png"`)
}

func TestDeriveChatURL(t *testing.T) {
	tests := []struct {
		name    string
		pageURL string
		slug    string
		want    string
	}{
		{
			name:    "strips admin prefix",
			pageURL: "https://admin.hotels.example.com/panel",
			want:    "https://hotels.example.com/widget",
		},
		{
			name:    "preserves port",
			pageURL: "http://admin.localhost:8080/settings",
			want:    "http://localhost:8080/widget",
		},
		{
			name:    "no prefix untouched",
			pageURL: "https://hotels.example.com/panel",
			want:    "https://hotels.example.com/widget",
		},
		{
			name:    "prefix stripped once only",
			pageURL: "https://admin.admin.example.com/x",
			want:    "https://admin.example.com/widget",
		},
		{
			name:    "prefix only at start",
			pageURL: "https://my.admin.example.com/x",
			want:    "https://my.admin.example.com/widget",
		},
		{
			name:    "slug appended",
			pageURL: "https://admin.hotels.example.com/panel",
			slug:    "grand-plaza",
			want:    "https://hotels.example.com/widget/grand-plaza",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveChatURL(tt.pageURL, tt.slug)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveChatURLRejectsRelative(t *testing.T) {
	_, err := DeriveChatURL("/panel/widget", "")
	assert.Error(t, err)
}

func TestSignedChatURL(t *testing.T) {
	signed, err := SignedChatURL("https://hotels.example.com/widget/grand-plaza", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "https://hotels.example.com/widget/grand-plaza?k=s3cret", signed)

	// existing query params survive
	signed, err = SignedChatURL("https://hotels.example.com/widget/grand-plaza?lang=de", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, signed, "lang=de")
	assert.Contains(t, signed, "k=s3cret")
}

func TestGenerateEmbedScriptIsBareJS(t *testing.T) {
	settings := models.DefaultWidgetSettings()
	settings.ChatURL = "https://hotels.example.com/widget/grand-plaza"

	js, err := GenerateEmbedScript(settings, "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(js, "(function () {"))
	assert.NotContains(t, js, "<script>")
	assert.NotContains(t, js, "<!--")
}

func TestGenerateEmbedCodeWrapsScript(t *testing.T) {
	settings := models.DefaultWidgetSettings()
	settings.ChatURL = "https://hotels.example.com/widget/grand-plaza"

	code, err := GenerateEmbedCode(settings, "")
	require.NoError(t, err)
	js, err := GenerateEmbedScript(settings, "")
	require.NoError(t, err)

	assert.Contains(t, code, "<script>")
	assert.Contains(t, code, js)
}

func TestRenderChatPage(t *testing.T) {
	page := models.PageContent{Title: "Grand Plaza Concierge", Greeting: "Welcome!"}
	settings := models.DefaultWidgetSettings()

	html, err := RenderChatPage("grand-plaza", page, settings)
	require.NoError(t, err)

	assert.Contains(t, html, "<title>Grand Plaza Concierge</title>")
	assert.Contains(t, html, `"grand-plaza"`)
	assert.Contains(t, html, "/api/public/chat")
}

func TestRenderChatPageDefaultTitle(t *testing.T) {
	html, err := RenderChatPage("grand-plaza", models.PageContent{}, models.DefaultWidgetSettings())
	require.NoError(t, err)
	assert.Contains(t, html, "<title>Concierge</title>")
}

func TestRenderChatPageConsentGate(t *testing.T) {
	html, err := RenderChatPage("grand-plaza", models.PageContent{}, models.DefaultWidgetSettings())
	require.NoError(t, err)

	// the disclosure checkbox is part of the page
	assert.Contains(t, html, `id="consent-box"`)
	assert.Contains(t, html, `id="consent-text"`)

	// the checkbox guard runs before any request is issued
	guard := strings.Index(html, "consentRequired && !consentAccepted && !consentBox.checked")
	sendFetch := strings.Index(html, "fetch('/api/public/chat'")
	require.GreaterOrEqual(t, guard, 0)
	require.GreaterOrEqual(t, sendFetch, 0)
	assert.Less(t, guard, sendFetch)

	// acceptance comes from the checkbox, never from a reply arriving
	assert.Contains(t, html, "consentRequired && consentBox.checked")
	responseHandler := html[strings.Index(html, "resp.session_id"):]
	assert.NotContains(t, responseHandler, "consentAccepted = true")
}
