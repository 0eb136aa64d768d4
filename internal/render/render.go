// Package render turns generated lesson content plus document metadata into PDF bytes.
package render

import (
	"context"

	"rppapi/internal/content"
	"rppapi/internal/model"
)

// Title is printed at the top of every generated RPP.
const Title = "RENCANA PELAKSANAAN PEMBELAJARAN (RPP)"

// Input is everything a renderer may need. Content and ParseErr are set only for FormatJSON.
type Input struct {
	Document *model.Document
	Raw      string
	Content  *content.LessonContent
	ParseErr error
}

// Renderer produces a complete PDF or an error; it never returns partial output.
type Renderer interface {
	Render(ctx context.Context, in Input) ([]byte, error)
	// Format is the content format this renderer expects from the generator.
	Format() content.Format
	// Name labels the strategy in logs and metrics.
	Name() string
}

type metaLine struct {
	Label string
	Value string
}

func metadata(d *model.Document) []metaLine {
	lines := []metaLine{
		{"Mata Pelajaran", d.Subject},
		{"Nama Guru", d.TeacherName},
		{"Fase", d.Phase},
	}
	if d.Semester != "" {
		lines = append(lines, metaLine{"Semester", d.Semester})
	}
	lines = append(lines, metaLine{"Tahun Ajaran", d.AcademicYear})
	return lines
}
