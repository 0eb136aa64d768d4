// Package content holds the structured lesson-plan body produced by the text-generation
// service and the fallible boundary that decodes it.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Format selects what the generator is asked to return.
type Format string

const (
	// FormatText is a free-form outline with headings, used by the draw renderer.
	FormatText Format = "text"
	// FormatJSON is a LessonContent object, used by the template renderer.
	FormatJSON Format = "json"
)

// ErrMalformed wraps every decode failure.
var ErrMalformed = errors.New("malformed lesson content")

type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Week struct {
	Week           string `json:"week"`
	Objective      string `json:"objective"`
	Topic          string `json:"topic"`
	Activity       string `json:"activity"`
	Assessment     string `json:"assessment"`
	TimeAllocation string `json:"timeAllocation"`
}

// LessonContent is the JSON-shaped body of an RPP.
type LessonContent struct {
	Overview     string        `json:"overview"`
	Achievements []Achievement `json:"achievements"`
	Weeks        []Week        `json:"weeks"`
}

// Parse decodes a raw model response. Markdown code fences and any prose around the outermost
// JSON object are ignored. A response that decodes to nothing useful is reported as malformed.
func Parse(raw string) (*LessonContent, error) {
	body := stripFences(raw)
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformed)
	}

	var lc LessonContent
	if err := json.Unmarshal([]byte(body[start:end+1]), &lc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	lc.Overview = strings.TrimSpace(lc.Overview)
	if lc.Overview == "" && len(lc.Achievements) == 0 && len(lc.Weeks) == 0 {
		return nil, fmt.Errorf("%w: empty content", ErrMalformed)
	}
	return &lc, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	// Drop the opening fence line, which may carry a language tag.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		return ""
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
