package services

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"letter-approval-api/models"
)

// LetterTemplate is a rendered letter ready for submission. Bracketed
// placeholders are left for the applicant to fill before printing; the body
// itself is immutable once submitted.
type LetterTemplate struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type letterTemplateDef struct {
	title string
	body  *template.Template
}

var letterTemplates = map[string]letterTemplateDef{
	"permission": {
		title: "Permission Letter for Event Participation",
		body: template.Must(template.New("permission").Parse(`To,
The Authority Concerned
[Organization Name]
[Address]

Subject: Request for Permission to Participate in [Event Name]

Dear Sir/Madam,

I, {{.FullName}} ({{.Designation}}), would like to request permission to participate in [Event Name] scheduled on [Date].

I assure you that I will follow all the rules and regulations during the event. Kindly grant me permission to participate.

Thanking you,
Yours sincerely,
{{.FullName}}
{{.Designation}}`)),
	},
	"noc": {
		title: "No Objection Certificate Request",
		body: template.Must(template.New("noc").Parse(`To,
The Authority Concerned
[Organization Name]
[Address]

Subject: Request for No Objection Certificate

Dear Sir/Madam,

I, {{.FullName}} ({{.Designation}}), am writing to request a No Objection Certificate for [Purpose].

I would be grateful if you could issue the NOC at the earliest convenience.

Thanking you,
Yours sincerely,
{{.FullName}}
{{.Designation}}`)),
	},
	"leave": {
		title: "Leave Application",
		body: template.Must(template.New("leave").Parse(`To,
The Authority Concerned
[Organization Name]
[Address]

Subject: Application for Leave

Dear Sir/Madam,

I, {{.FullName}} ({{.Designation}}), would like to apply for leave from [Start Date] to [End Date] due to [Reason].

I request you to kindly grant me leave for the mentioned period.

Thanking you,
Yours sincerely,
{{.FullName}}
{{.Designation}}`)),
	},
}

// RenderLetterTemplate produces the letter for a template type with the
// author's details filled in. Unknown types fail with ErrNotFound.
func RenderLetterTemplate(letterType string, author *models.User) (*LetterTemplate, error) {
	def, ok := letterTemplates[strings.ToLower(strings.TrimSpace(letterType))]
	if !ok {
		return nil, fmt.Errorf("letter type %q: %w", letterType, ErrNotFound)
	}

	var buf strings.Builder
	if err := def.body.Execute(&buf, author); err != nil {
		return nil, fmt.Errorf("failed to render letter template: %w", err)
	}

	return &LetterTemplate{
		Type:    strings.ToLower(strings.TrimSpace(letterType)),
		Title:   def.title,
		Content: buf.String(),
	}, nil
}

// LetterTemplateTypes lists the available template types in a stable order.
func LetterTemplateTypes() []string {
	types := make([]string, 0, len(letterTemplates))
	for name := range letterTemplates {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}
