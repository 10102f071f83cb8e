package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// WelcomeTemplate is the template sent after registration.
const WelcomeTemplate = "welcome.tmpl"

// Message is a rendered e-mail ready for delivery.
type Message struct {
	To        string
	Subject   string
	PlainBody string
	HTMLBody  string
}

// Render executes the subject, plainBody and htmlBody blocks of the named
// embedded template.
func Render(name, to string, data any) (Message, error) {
	tmpl, err := template.New("email").ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return Message{}, fmt.Errorf("parse template %s: %w", name, err)
	}

	parts := make(map[string]string, 3)
	for _, block := range []string{"subject", "plainBody", "htmlBody"} {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, block, data); err != nil {
			return Message{}, fmt.Errorf("render %s of %s: %w", block, name, err)
		}
		parts[block] = strings.TrimSpace(buf.String())
	}

	return Message{
		To:        to,
		Subject:   parts["subject"],
		PlainBody: parts["plainBody"],
		HTMLBody:  parts["htmlBody"],
	}, nil
}

// WelcomeMessage renders the welcome e-mail for a newly registered address.
func WelcomeMessage(email string) (Message, error) {
	return Render(WelcomeTemplate, email, struct{ Email string }{Email: email})
}
