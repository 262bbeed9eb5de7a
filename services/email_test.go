package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-concierge-platform/models"
)

func TestRenderEmailTemplate(t *testing.T) {
	tmpl := models.EmailTemplate{
		Name:     "followup",
		Subject:  "Thanks for staying at {{.HotelName}}",
		HTMLBody: "<p>{{.Greeting}}</p><p>Book again: <a href=\"{{.BookingURL}}\">here</a></p>",
		TextBody: "{{.Greeting}}\nBook again: {{.BookingURL}}",
		TemplateFields: models.EmailTemplateFields{
			HotelName:  "Grand Plaza",
			Greeting:   "Dear guest",
			BookingURL: "https://grand-plaza.example.com/book",
		},
	}

	subject, htmlBody, textBody, err := RenderEmailTemplate(tmpl)
	require.NoError(t, err)

	assert.Equal(t, "Thanks for staying at Grand Plaza", subject)
	assert.Contains(t, htmlBody, "<p>Dear guest</p>")
	assert.Contains(t, htmlBody, "https://grand-plaza.example.com/book")
	assert.Contains(t, textBody, "Dear guest\nBook again: https://grand-plaza.example.com/book")
}

func TestRenderEmailTemplateEscapesHTMLFields(t *testing.T) {
	tmpl := models.EmailTemplate{
		Subject:  "{{.HotelName}}",
		HTMLBody: "<p>{{.Greeting}}</p>",
		TextBody: "{{.Greeting}}",
		TemplateFields: models.EmailTemplateFields{
			HotelName: "Plaza",
			Greeting:  "<script>alert(1)</script>",
		},
	}

	_, htmlBody, textBody, err := RenderEmailTemplate(tmpl)
	require.NoError(t, err)

	assert.NotContains(t, htmlBody, "<script>")
	assert.Contains(t, textBody, "<script>")
}

func TestRenderEmailTemplateMalformed(t *testing.T) {
	tmpl := models.EmailTemplate{
		Subject:  "{{.HotelName",
		HTMLBody: "<p>ok</p>",
		TextBody: "ok",
	}

	_, _, _, err := RenderEmailTemplate(tmpl)
	assert.Error(t, err)
}
