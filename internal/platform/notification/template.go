package notification

import (
	"fmt"
	"strings"
	"sync"
)

// Template defines a reusable notification template.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Built-in template ids.
const (
	TemplateEmergencyAlert = "risk-emergency-alert"
	TemplateEmergencyCall  = "risk-emergency-call"
)

// TemplateEngine manages notification templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a TemplateEngine with the built-in templates pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{
		templates: make(map[string]*Template),
	}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      TemplateEmergencyAlert,
			Name:    "Emergency Risk Alert",
			Subject: "[{{severity}}] {{condition}} for patient {{user_id}}",
			Body: "Emergency risk detected for patient {{user_id}}: {{condition}}. " +
				"Act within {{time_to_action}} minutes. Actions: {{actions}}. " +
				"Contacts: {{contacts}}. Assessment {{assessment_id}}.",
		},
		{
			ID:   TemplateEmergencyCall,
			Name: "Emergency Risk Call",
			Body: "This is an automated emergency alert. Patient {{user_id}} shows {{condition}}. " +
				"Please act within {{time_to_action}} minutes.",
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template in the engine.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render looks up a template by ID and performs {{key}} replacement using the
// supplied data map. Keys present in the template but absent from data are left
// as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, nil
}
