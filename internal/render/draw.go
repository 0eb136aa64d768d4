package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"rppapi/internal/content"
)

// Page geometry in points on A4 (595.28 x 841.89).
const (
	margin     = 50.0
	lineEndX   = 545.0
	breakY     = 750.0
	footerY    = 770.0
	bulletIndt = 20.0
)

// DrawRenderer lays the generated outline directly onto PDF pages.
type DrawRenderer struct {
	compress bool
}

func NewDrawRenderer() *DrawRenderer {
	return &DrawRenderer{compress: true}
}

var _ Renderer = (*DrawRenderer)(nil)

func (r *DrawRenderer) Format() content.Format { return content.FormatText }
func (r *DrawRenderer) Name() string           { return "draw" }

func (r *DrawRenderer) Render(ctx context.Context, in Input) ([]byte, error) {
	if in.Document == nil {
		return nil, fmt.Errorf("render: missing document")
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, 841.89-breakY)
	pdf.SetTitle(Title, true)
	pdf.SetAuthor(in.Document.TeacherName, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 22, tr(Title), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	for _, m := range metadata(in.Document) {
		pdf.CellFormat(0, 16, tr(m.Label+": "+m.Value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	y := pdf.GetY()
	pdf.Line(margin, y, lineEndX, y)
	pdf.Ln(12)

	for _, line := range strings.Split(strings.ReplaceAll(in.Raw, "\r\n", "\n"), "\n") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		st := ClassifyLine(line)
		text := tr(CleanLine(line, st))
		switch st {
		case StyleBlank:
			pdf.Ln(6)
		case StyleHeading:
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 15, text, "", "L", false)
			pdf.Ln(4)
		case StyleBullet:
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetX(margin + bulletIndt)
			pdf.MultiCell(0, 14, text, "", "J", false)
			pdf.Ln(2)
		default:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 14, text, "", "J", false)
			pdf.Ln(2)
		}

		if pdf.GetY() > breakY {
			pdf.AddPage()
		}
	}

	// Footers need the final page count, so they are stamped once layout is done.
	pdf.SetAutoPageBreak(false, 0)
	n := pdf.PageCount()
	for i := 1; i <= n; i++ {
		pdf.SetPage(i)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(margin, footerY)
		pdf.CellFormat(lineEndX-margin, 12, fmt.Sprintf("Halaman %d dari %d", i, n), "", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
