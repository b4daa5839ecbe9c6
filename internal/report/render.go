// Package report turns a classification result into a human readable report.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"eatprofile/internal/model"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Rendered is a report ready for delivery
type Rendered struct {
	Subject string
	Text    string // Markdown
	HTML    string
}

var insightText = map[string]string{
	model.InsightEmotional:  "Your eating is often triggered by emotions such as stress, sadness or boredom.",
	model.InsightRestraint:  "Periods of restriction or strict dieting tend to be followed by overeating.",
	model.InsightImpulsive:  "You often eat on impulse in response to food cues around you.",
	model.InsightHabitual:   "Much of your eating happens out of routine or while distracted.",
	model.InsightNight:      "A large part of your eating happens late in the evening or at night.",
	model.InsightTrueHunger: "Your overeating may be driven by real physical hunger; regular, sufficient meals can help.",
}

var redFlagText = map[string]string{
	model.RedFlagPurging:        "You reported compensatory behaviours such as vomiting, laxatives or excessive exercise. Please talk to a doctor or an eating disorder service.",
	model.RedFlagSeekEvaluation: "You reported frequent loss of control together with significant distress. A professional evaluation is recommended.",
}

const reportTemplate = `# {{ .Title }}

**{{ .Summary }}**

| Pattern | Score (1-4) |
|---|---|
{{- range .Rows }}
| {{ .Label }} | {{ printf "%.2f" .Score }} |
{{- end }}

- Loss of control: {{ printf "%.2f" .Result.LossOfControl }}
- Distress: {{ printf "%.2f" .Result.Distress }}
- Episode frequency: {{ .Result.Frequency.Label }}

## Your profile

- Primary pattern: **{{ .Result.PrimarySubtype }}**
- Secondary pattern: {{ .Result.SecondarySubtype }}
{{ if .Insights }}
## What this means
{{ range .Insights }}
- {{ . }}
{{- end }}
{{ end }}
{{- if .RedFlags }}
## Important
{{ range .RedFlags }}
- {{ . }}
{{- end }}
{{ end }}
---

_This self-assessment is a screening aid, not a diagnosis._
`

var tmpl = template.Must(template.New("report").Parse(reportTemplate))

type row struct {
	Label string
	Score float64
}

type view struct {
	Title    string
	Summary  string
	Result   *model.Result
	Rows     []row
	Insights []string
	RedFlags []string
}

// Summary returns the one-line overall reading of a result
func Summary(res *model.Result) string {
	switch {
	case res.ProbableDisorder:
		return "Possible binge eating behaviour. Consider exploring your triggers and seeking support."
	case len(res.RedFlags) > 0:
		return "Warning signs present. Some of your answers describe behaviour worth discussing with a health professional."
	case len(res.InsightFlags) > 0:
		return "Emotional or situational eating. Your eating may be linked to emotions, habits or environment."
	default:
		return "Mild or situational overeating. You likely eat normally most of the time."
	}
}

// Render produces the Markdown and HTML report for res
func Render(title string, res *model.Result) (*Rendered, error) {
	if res == nil {
		return nil, fmt.Errorf("render: nil result")
	}
	if title == "" {
		title = "Your Eating Profile"
	}

	v := view{
		Title:   title,
		Summary: Summary(res),
		Result:  res,
	}
	for _, c := range model.SubtypeCategories {
		v.Rows = append(v.Rows, row{Label: c.Label(), Score: res.Scores[c]})
	}
	for _, f := range res.InsightFlags {
		v.Insights = append(v.Insights, describe(insightText, f))
	}
	for _, f := range res.RedFlags {
		v.RedFlags = append(v.RedFlags, describe(redFlagText, f))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	text := buf.String()

	return &Rendered{
		Subject: fmt.Sprintf("%s: %s", title, res.PrimarySubtype),
		Text:    text,
		HTML:    ToHTML(text),
	}, nil
}

// ToHTML converts Markdown to an HTML fragment
func ToHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(md), p, r))
}

func describe(texts map[string]string, flag string) string {
	if t, ok := texts[flag]; ok {
		return t
	}
	return strings.ReplaceAll(flag, "-", " ")
}
