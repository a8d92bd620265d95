package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

const (
	TemplateVerificationExplanation = "FlickrVerificationExplanation"
	TemplateVerificationPrompt      = "FlickrVerificationPrompt"
	TemplateVerificationFailed      = "FlickrVerificationFailed"
)

const (
	OptionOK     = 0
	OptionCancel = 1
)

// Field is a single line of input requested from the user
type Field struct {
	Name  string
	Label string
}

// Template describes a notification
type Template struct {
	Message string
	Options []string
	Fields  []Field
}

// Templates maps template IDs to notification templates
type Templates map[string]*Template

// DefaultTemplates declares the notifications shown while linking a Flickr account
var DefaultTemplates = Templates{
	TemplateVerificationExplanation: {
		Message: "To upload photos to Flickr, you need to give us access to your Flickr account.\n\n" +
			"When you continue, a Flickr page will open in your web browser. Sign in if you " +
			"need to, then click \"OK, I'll authorize it\". Flickr will then show you a " +
			"verification code, which you'll need to enter here.",
		Options: []string{"Continue", "Cancel"},
	},
	TemplateVerificationPrompt: {
		Message: "Enter the verification code that Flickr showed you after you authorized access" +
			"{{if .authorize_url}} (if your browser didn't open, visit {{.authorize_url}}){{end}}.",
		Options: []string{"OK", "Cancel"},
		Fields: []Field{
			{Name: "oauth_verifier", Label: "Verification code"},
		},
	},
	TemplateVerificationFailed: {
		Message: "Flickr verification failed{{if .reason}}: {{.reason}}{{end}}. Please try again.",
		Options: []string{"OK"},
	},
}

// Render looks up a template and expands its message with the given substitutions;
// substitutions the message refers to but that aren't supplied render as empty
func (ts Templates) Render(templateID string, substitutions map[string]string) (*Template, string, error) {
	t, ok := ts[templateID]
	if !ok {
		return nil, "", fmt.Errorf("no notification template with ID '%s'", templateID)
	}
	tmpl, err := template.New(templateID).Option("missingkey=zero").Parse(t.Message)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse notification template '%s': %w", templateID, err)
	}
	if substitutions == nil {
		substitutions = map[string]string{}
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, substitutions); err != nil {
		return nil, "", fmt.Errorf("failed to render notification template '%s': %w", templateID, err)
	}
	return t, b.String(), nil
}
