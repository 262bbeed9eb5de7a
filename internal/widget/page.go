package widget

import (
	"fmt"
	"html/template"
	"strings"

	"hotel-concierge-platform/models"
)

// chatPageTemplate is the page loaded inside the widget iframe. It fetches
// the tenant's public settings on startup and posts chat turns to the public
// chat endpoint, keeping the transcript in page state so the full history
// rides along with every request.
var chatPageTemplate = template.Must(template.New("chatpage").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  * { box-sizing: border-box; margin: 0; }
  body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; display: flex; flex-direction: column; height: 100vh; background: #f7f7f8; }
  header { background: linear-gradient(135deg, {{.ButtonColor}}, {{.ButtonColorEnd}}); color: #fff; padding: 12px 16px; font-weight: 600; }
  #log { flex: 1; overflow-y: auto; padding: 12px; }
  .msg { max-width: 80%; margin-bottom: 8px; padding: 8px 12px; border-radius: 12px; line-height: 1.4; }
  .msg.user { margin-left: auto; background: {{.ButtonColor}}; color: #fff; }
  .msg.assistant { background: #fff; border: 1px solid #e3e3e6; }
  form { display: flex; gap: 8px; padding: 12px; border-top: 1px solid #e3e3e6; background: #fff; }
  input[type=text] { flex: 1; padding: 10px 12px; border: 1px solid #d0d0d4; border-radius: 8px; font-size: 14px; }
  button { padding: 10px 16px; border: 0; border-radius: 8px; background: {{.ButtonColor}}; color: #fff; cursor: pointer; }
  button:disabled { opacity: .5; cursor: default; }
  #consent { display: none; padding: 8px 12px; border-top: 1px solid #e3e3e6; background: #fffbe9; font-size: 13px; }
  #consent label { display: flex; gap: 8px; align-items: flex-start; cursor: pointer; }
</style>
</head>
<body>
<header id="title">{{.Title}}</header>
<div id="log"></div>
<div id="consent">
  <label><input type="checkbox" id="consent-box"> <span id="consent-text">I agree to the processing of my chat messages.</span></label>
</div>
<form id="composer">
  <input id="input" type="text" autocomplete="off" placeholder="Type a message">
  <button id="send" type="submit">Send</button>
</form>
<script>
(function () {
  var slug = {{.Slug}};
  var history = [];
  var sessionId = '';
  var consentRequired = false;
  var consentAccepted = false;
  var log = document.getElementById('log');
  var input = document.getElementById('input');
  var send = document.getElementById('send');
  var consent = document.getElementById('consent');
  var consentBox = document.getElementById('consent-box');

  function append(role, html) {
    var div = document.createElement('div');
    div.className = 'msg ' + role;
    div.innerHTML = html;
    log.appendChild(div);
    log.scrollTop = log.scrollHeight;
  }

  fetch('/api/public/widget/' + slug)
    .then(function (r) { return r.json(); })
    .then(function (s) {
      if (s.title) document.getElementById('title').textContent = s.title;
      if (s.greeting) append('assistant', s.greeting);
      consentRequired = !!(s.consent && s.consent.enabled);
      consentAccepted = !consentRequired;
      if (consentRequired) {
        if (s.consent.web_text) document.getElementById('consent-text').textContent = s.consent.web_text;
        consent.style.display = 'block';
      }
    });

  document.getElementById('composer').addEventListener('submit', function (e) {
    e.preventDefault();
    var text = input.value.trim();
    if (!text) return;

    // consent gate: no request leaves the page until the box is checked
    if (consentRequired && !consentAccepted && !consentBox.checked) {
      append('assistant', document.getElementById('consent-text').textContent);
      return;
    }
    if (consentRequired && consentBox.checked) {
      consentAccepted = true;
      consent.style.display = 'none';
    }

    append('user', text);
    input.value = '';
    send.disabled = true;

    fetch('/api/public/chat', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({
        tenant_slug: slug,
        session_id: sessionId,
        message: text,
        history: history,
        consent_accepted: consentAccepted
      })
    })
      .then(function (r) { return r.json(); })
      .then(function (resp) {
        if (resp.error) { append('assistant', resp.error); return; }
        if (resp.session_id) sessionId = resp.session_id;
        history.push({ role: 'user', content: text });
        history.push({ role: 'assistant', content: resp.reply });
        append('assistant', resp.reply);
      })
      .catch(function () { append('assistant', 'Connection lost, please try again.'); })
      .finally(function () { send.disabled = false; });
  });
})();
</script>
</body>
</html>
`))

type chatPageData struct {
	Slug           string
	Title          string
	ButtonColor    string
	ButtonColorEnd string
}

// RenderChatPage renders the iframe chat page for a tenant.
func RenderChatPage(slug string, page models.PageContent, settings models.WidgetSettings) (string, error) {
	title := page.Title
	if title == "" {
		title = "Concierge"
	}
	data := chatPageData{
		Slug:           slug,
		Title:          title,
		ButtonColor:    settings.ButtonColor,
		ButtonColorEnd: settings.ButtonColorEnd,
	}

	var b strings.Builder
	if err := chatPageTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render chat page: %w", err)
	}
	return b.String(), nil
}
