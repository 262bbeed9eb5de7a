package widget

import (
	"fmt"
	"net/url"
	"strings"
	"text/template"

	"hotel-concierge-platform/models"
)

// adminHostPrefix is stripped when deriving the public chat origin from an
// admin-panel page URL, so the preview inside the panel and the snippet the
// tenant pastes on their site point at the same host.
const adminHostPrefix = "admin."

// embedTemplate is the script body behind both delivery modes: the snippet a
// tenant pastes into their page and the hosted /widget/:slug/widget.js file.
// It must stay valid standalone script with no build step: a floating
// gradient button, a hidden iframe container and a click/outside-click
// toggle. Rendered with text/template so the tenant's custom CSS goes in
// verbatim.
var embedTemplate = template.Must(template.New("embed").Parse(`(function () {
  if (document.getElementById('hc-widget-btn')) return;

  var btn = document.createElement('div');
  btn.id = 'hc-widget-btn';
  btn.style.cssText = 'position:fixed;{{.PositionCSS}};width:{{.ButtonSize}}px;height:{{.ButtonSize}}px;border-radius:50%;background:linear-gradient(135deg,{{.ButtonColor}},{{.ButtonColorEnd}});cursor:pointer;z-index:999998;box-shadow:0 4px 12px rgba(0,0,0,.25);display:flex;align-items:center;justify-content:center;';
  btn.innerHTML = '{{.ButtonContent}}';

  var frame = document.createElement('div');
  frame.id = 'hc-widget-frame';
  frame.style.cssText = 'position:fixed;{{.FrameCSS}};width:{{.WindowWidth}}px;height:{{.WindowHeight}}px;border-radius:{{.BorderRadius}}px;overflow:hidden;z-index:999999;display:none;box-shadow:0 8px 32px rgba(0,0,0,.35);';
  frame.innerHTML = '<iframe src="{{.ChatURL}}" style="width:100%;height:100%;border:0;" allow="clipboard-write"></iframe>';

  btn.addEventListener('click', function (e) {
    e.stopPropagation();
    frame.style.display = frame.style.display === 'none' ? 'block' : 'none';
  });
  document.addEventListener('click', function (e) {
    if (frame.style.display !== 'none' && !frame.contains(e.target) && e.target !== btn) {
      frame.style.display = 'none';
    }
  });

  document.body.appendChild(btn);
  document.body.appendChild(frame);
{{- if .CustomCSS}}

  var style = document.createElement('style');
  style.textContent = {{printf "%q" .CustomCSS}};
  document.head.appendChild(style);
{{- end}}
})();
`))

type embedData struct {
	ButtonColor    string
	ButtonColorEnd string
	ButtonSize     int
	PositionCSS    string
	FrameCSS       string
	WindowWidth    int
	WindowHeight   int
	BorderRadius   int
	ChatURL        string
	ButtonContent  string
	CustomCSS      string
}

// GenerateEmbedCode renders the copy-paste embed snippet for a tenant's
// widget settings: the script body wrapped in a <script> tag. pageURL is the
// admin page the generator runs on; it is only consulted when settings carry
// no explicit chat URL. Output is a pure function of its inputs.
func GenerateEmbedCode(settings models.WidgetSettings, pageURL string) (string, error) {
	js, err := GenerateEmbedScript(settings, pageURL)
	if err != nil {
		return "", err
	}
	return "<!-- Hotel Concierge chat widget -->\n<script>\n" + js + "</script>\n", nil
}

// GenerateEmbedScript renders the bare script body, served directly as
// /widget/:slug/widget.js for tenants who prefer a <script src> include.
func GenerateEmbedScript(settings models.WidgetSettings, pageURL string) (string, error) {
	chatURL := settings.ChatURL
	if chatURL == "" {
		derived, err := DeriveChatURL(pageURL, "")
		if err != nil {
			return "", fmt.Errorf("derive chat url: %w", err)
		}
		chatURL = derived
	}

	data := embedData{
		ButtonColor:    settings.ButtonColor,
		ButtonColorEnd: settings.ButtonColorEnd,
		ButtonSize:     settings.ButtonSize,
		PositionCSS:    positionCSS(settings.Position, 24),
		FrameCSS:       positionCSS(settings.Position, 24+settings.ButtonSize+12),
		WindowWidth:    settings.WindowWidth,
		WindowHeight:   settings.WindowHeight,
		BorderRadius:   settings.BorderRadius,
		ChatURL:        chatURL,
		ButtonContent:  buttonContent(settings.IconURL),
		CustomCSS:      settings.CustomCSS,
	}

	var b strings.Builder
	if err := embedTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render embed snippet: %w", err)
	}
	return b.String(), nil
}

// DeriveChatURL computes the public chat origin from the page the admin is
// viewing. A literal "admin." hostname prefix is stripped once; protocol,
// port and the rest of the host are preserved. slug, when set, is appended
// as the widget path.
func DeriveChatURL(pageURL, slug string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url %q: %w", pageURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("page url %q has no scheme or host", pageURL)
	}

	host := u.Host
	if strings.HasPrefix(host, adminHostPrefix) {
		host = strings.TrimPrefix(host, adminHostPrefix)
	}

	chat := url.URL{Scheme: u.Scheme, Host: host, Path: "/widget"}
	if slug != "" {
		chat.Path = "/widget/" + slug
	}
	return chat.String(), nil
}

// SignedChatURL appends the tenant's widget key to a chat URL. Tenants with
// a domain allow list require the key on iframe loads, so a snippet copied
// off an authorized page still fails elsewhere.
func SignedChatURL(chatURL, secret string) (string, error) {
	u, err := url.Parse(chatURL)
	if err != nil {
		return "", fmt.Errorf("parse chat url %q: %w", chatURL, err)
	}
	q := u.Query()
	q.Set("k", secret)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func positionCSS(position string, offset int) string {
	switch position {
	case "bottom-left":
		return fmt.Sprintf("bottom:%dpx;left:24px", offset)
	case "top-right":
		return fmt.Sprintf("top:%dpx;right:24px", offset)
	case "top-left":
		return fmt.Sprintf("top:%dpx;left:24px", offset)
	default:
		return fmt.Sprintf("bottom:%dpx;right:24px", offset)
	}
}

func buttonContent(iconURL string) string {
	if iconURL != "" {
		return `<img src="` + iconURL + `" style="width:60%;height:60%;" alt=""/>`
	}
	// inline chat bubble so the snippet has no asset dependency
	return `<svg viewBox="0 0 24 24" width="55%" height="55%" fill="#fff"><path d="M4 4h16a2 2 0 0 1 2 2v9a2 2 0 0 1-2 2H8l-4 4V6a2 2 0 0 1 2-2z"/></svg>`
}
