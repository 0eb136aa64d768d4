package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"rppapi/internal/content"
)

//go:embed templates/rpp.html
var templateFS embed.FS

var rppTemplate = template.Must(template.ParseFS(templateFS, "templates/rpp.html"))

// Placeholder is shown in every content section when the generated JSON could not be parsed.
const Placeholder = "Konten RPP tidak dapat dibaca dari hasil AI. Silakan buat ulang dokumen ini."

// HTMLConverter prints an HTML document to PDF.
type HTMLConverter interface {
	Convert(ctx context.Context, html string) ([]byte, error)
}

// TemplateRenderer fills the embedded HTML template and hands it to an HTMLConverter.
type TemplateRenderer struct {
	conv HTMLConverter
}

func NewTemplateRenderer(conv HTMLConverter) *TemplateRenderer {
	return &TemplateRenderer{conv: conv}
}

var _ Renderer = (*TemplateRenderer)(nil)

func (r *TemplateRenderer) Format() content.Format { return content.FormatJSON }
func (r *TemplateRenderer) Name() string           { return "template" }

type labeledAchievement struct {
	Label string
	content.Achievement
}

type templateData struct {
	Title        string
	Meta         []metaLine
	Failed       bool
	Placeholder  string
	Overview     string
	Achievements []labeledAchievement
	Weeks        []content.Week
}

// HTML renders the page without converting it.
func (r *TemplateRenderer) HTML(in Input) (string, error) {
	if in.Document == nil {
		return "", fmt.Errorf("render: missing document")
	}
	data := templateData{
		Title:       Title,
		Meta:        metadata(in.Document),
		Placeholder: Placeholder,
	}
	if in.Content == nil || in.ParseErr != nil {
		data.Failed = true
	} else {
		data.Overview = in.Content.Overview
		data.Weeks = in.Content.Weeks
		for i, a := range in.Content.Achievements {
			data.Achievements = append(data.Achievements, labeledAchievement{Label: AlphaLabel(i) + ".", Achievement: a})
		}
	}

	var buf bytes.Buffer
	if err := rppTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

func (r *TemplateRenderer) Render(ctx context.Context, in Input) ([]byte, error) {
	html, err := r.HTML(in)
	if err != nil {
		return nil, err
	}
	pdf, err := r.conv.Convert(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("convert html: %w", err)
	}
	return pdf, nil
}

// AlphaLabel returns a, b, ..., z, aa, ab, ... for zero-based i.
func AlphaLabel(i int) string {
	var out []byte
	for i >= 0 {
		out = append([]byte{byte('a' + i%26)}, out...)
		i = i/26 - 1
	}
	return string(out)
}
