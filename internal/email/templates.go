package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// Template names used by the notification engine.
const (
	TemplateArticleNotification = "article_notification"
	TemplateContactAlert        = "contact_alert"
	TemplateNewsletter          = "newsletter"
)

// articleNotificationHTML is the email sent to subscribers when a new
// article is published. It embeds an open-tracking pixel and a
// mark-as-read link, both keyed to the notification.
const articleNotificationHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>{{.Title}}</h2>
  <p>Hello {{.RecipientName}},</p>
  <p>{{.SourceName}} has published a new article:</p>
  <h3>{{.ArticleTitle}}</h3>
  {{if .Summary}}<p>{{.Summary}}</p>{{end}}
  <p>
    <a href="{{.ArticleURL}}" style="background: #007bff; color: #fff; padding: 10px 18px; text-decoration: none; border-radius: 4px;">Read the article</a>
  </p>
  <p style="font-size: 12px; color: #888;">
    Already read it? <a href="{{.MarkReadURL}}">Mark this notification as read</a>.
  </p>
  <img src="{{.TrackingPixelURL}}" width="1" height="1" alt="" style="display:none;">
</body>
</html>`

// contactAlertHTML is the email sent to editors when a visitor submits
// the contact form.
const contactAlertHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>New contact message</h2>
  <p><strong>From:</strong> {{.Name}} ({{.Email}})</p>
  <p>{{.Message}}</p>
</body>
</html>`

// newsletterHTML is the email sent to a journalist's or publisher's
// subscribers when a newsletter issue goes out.
const newsletterHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>{{.Title}}</h2>
  <p style="font-size: 13px; color: #888;">From {{.SourceName}}</p>
  <div>{{.Content}}</div>
</body>
</html>`

// TemplateManager implements TemplateRenderer.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager creates a manager with the built-in templates
// registered.
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}

	// Built-in templates are compiled in, so parse errors are programmer
	// errors and must not reach runtime.
	mustAdd := func(name, body string) {
		if err := tm.AddTemplate(name, body); err != nil {
			panic(fmt.Sprintf("invalid built-in email template %s: %v", name, err))
		}
	}

	mustAdd(TemplateArticleNotification, articleNotificationHTML)
	mustAdd(TemplateContactAlert, contactAlertHTML)
	mustAdd(TemplateNewsletter, newsletterHTML)

	return tm
}

// Render renders a template with data.
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate adds a template to the manager.
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

// TemplateNames returns the names of all registered templates.
func (tm *TemplateManager) TemplateNames() []string {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	names := make([]string, 0, len(tm.templates))
	for name := range tm.templates {
		names = append(names, name)
	}

	return names
}

// HTMLToText produces a crude plain-text fallback from an HTML body.
func HTMLToText(html string) string {
	text := strings.ReplaceAll(html, "<br/>", "\n")
	text = strings.ReplaceAll(text, "<br>", "\n")
	text = strings.ReplaceAll(text, "<p>", "\n")
	text = strings.ReplaceAll(text, "</p>", "\n")

	for {
		start := strings.Index(text, "<")
		if start == -1 {
			break
		}
		end := strings.Index(text[start:], ">")
		if end == -1 {
			break
		}
		text = text[:start] + text[start+end+1:]
	}

	return strings.TrimSpace(text)
}
