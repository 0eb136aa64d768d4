// Package generator asks an external language model to write lesson-plan content.
package generator

import (
	"context"
	"errors"

	"rppapi/internal/content"
	"rppapi/internal/model"
)

// ErrUpstream wraps failures reported by, or while talking to, the text-generation service.
var ErrUpstream = errors.New("content generation failed")

// ContentGenerator returns the raw model output for a document. The output is not validated;
// callers that need structure pass it through content.Parse.
type ContentGenerator interface {
	Generate(ctx context.Context, doc *model.Document, format content.Format) (string, error)
}

// BuildPrompt picks the prompt matching format.
func BuildPrompt(doc *model.Document, format content.Format) string {
	if format == content.FormatJSON {
		return BuildJSONPrompt(doc)
	}
	return BuildTextPrompt(doc)
}
