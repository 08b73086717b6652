package email

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
)

// TemplateManager loads and renders the named email templates.
type TemplateManager struct {
	templates map[string]*template.Template
	config    Config
}

// NewTemplateManager parses all known templates, preferring files under
// TemplatePath and falling back to the built-in versions.
func NewTemplateManager(config Config) (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
		config:    config,
	}

	templates := []string{
		"notification",
		"property_match",
		"subscription_expiring",
		"subscription_expired",
	}

	for _, name := range templates {
		tpl, err := tm.loadTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load template %s: %w", name, err)
		}
		tm.templates[name] = tpl
	}

	return tm, nil
}

func (tm *TemplateManager) loadTemplate(name string) (*template.Template, error) {
	basePath := filepath.Join(tm.config.TemplatePath, "base.html")
	contentPath := filepath.Join(tm.config.TemplatePath, name+".html")

	tpl, err := template.ParseFiles(basePath, contentPath)
	if err != nil {
		tpl, err = template.ParseFiles(contentPath)
		if err != nil {
			return tm.getBuiltinTemplate(name)
		}
	}

	return tpl, nil
}

func (tm *TemplateManager) getBuiltinTemplate(name string) (*template.Template, error) {
	var tplText string

	switch name {
	case "notification":
		tplText = notificationTemplate
	case "property_match":
		tplText = propertyMatchTemplate
	case "subscription_expiring":
		tplText = subscriptionExpiringTemplate
	case "subscription_expired":
		tplText = subscriptionExpiredTemplate
	default:
		return nil, fmt.Errorf("unknown template: %s", name)
	}

	return template.New(name).Parse(tplText)
}

// Render executes the named template with data. html/template escapes every
// substituted value, so template syntax inside user content stays inert.
func (tm *TemplateManager) Render(templateName string, data interface{}) (string, error) {
	tpl, exists := tm.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return buf.String(), nil
}

// Built-in templates used when no template directory is configured.
const (
	notificationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
</head>
<body>
    <h2>{{.Subject}}</h2>
    <p>{{.Message}}</p>
    {{if .ActionURL}}
    <a href="{{.ActionURL}}" style="background-color: #28a745; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">{{.ActionText}}</a>
    {{end}}
</body>
</html>`

	propertyMatchTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New matching property</title>
</head>
<body>
    <h2>A new property matches your alert</h2>
    <p>Hello {{.UserName}},</p>
    <p>A listing just went live that fits one of your saved alerts:</p>
    <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px;">
        <h3>{{.PropertyTitle}}</h3>
        <p><strong>Location:</strong> {{.City}}</p>
        {{if .PriceText}}<p><strong>Price:</strong> {{.PriceText}}</p>{{end}}
    </div>
    {{if .ActionURL}}
    <a href="{{.ActionURL}}" style="background-color: #007bff; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">View property</a>
    {{end}}
</body>
</html>`

	subscriptionExpiringTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Your subscription is expiring</title>
</head>
<body>
    <h2>Your subscription is expiring soon</h2>
    <p>Hello {{.UserName}},</p>
    <p>Your subscription expires in {{.DaysRemaining}} day(s). Renew it to keep receiving property alerts.</p>
    {{if .ActionURL}}
    <a href="{{.ActionURL}}" style="background-color: #ffc107; color: black; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Renew now</a>
    {{end}}
</body>
</html>`

	subscriptionExpiredTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Your subscription has expired</title>
</head>
<body>
    <h2>Your subscription has expired</h2>
    <p>Hello {{.UserName}},</p>
    <p>Your subscription has expired. Your saved alerts are paused until you renew.</p>
    {{if .ActionURL}}
    <a href="{{.ActionURL}}" style="background-color: #dc3545; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Renew now</a>
    {{end}}
</body>
</html>`
)
