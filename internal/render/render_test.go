package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rppapi/internal/content"
	"rppapi/internal/model"
)

func sampleDoc() *model.Document {
	return &model.Document{
		ID:           1,
		Subject:      "Matematika",
		TeacherName:  "Budi",
		Phase:        "D(Kelas VII-VIII)",
		Semester:     "Ganjil",
		AcademicYear: "2024/2025",
		SessionCount: 2,
	}
}

func TestDrawRenderer_Render(t *testing.T) {
	raw := strings.Join([]string{
		"1. Identitas RPP",
		"Sekolah: SMP Negeri 1",
		"",
		"Kegiatan Pembelajaran:",
		"- Kegiatan Pendahuluan (10 menit)",
		"• Kegiatan Inti (60 menit) × 2",
		"Peserta didik berdiskusi dalam kelompok kecil.",
	}, "\n")

	r := &DrawRenderer{compress: false}
	pdf, err := r.Render(context.Background(), Input{Document: sampleDoc(), Raw: raw})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.Contains(t, string(pdf), "Halaman 1 dari 1")
	assert.Contains(t, string(pdf), "Mata Pelajaran: Matematika")
	assert.Equal(t, content.FormatText, r.Format())
	assert.Equal(t, "draw", r.Name())
}

func TestDrawRenderer_Paginates(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&b, "Peserta didik mengerjakan latihan nomor %d dengan teliti dan mandiri.\n", i)
	}

	pdf, err := (&DrawRenderer{compress: false}).Render(context.Background(), Input{Document: sampleDoc(), Raw: b.String()})
	require.NoError(t, err)

	out := string(pdf)
	assert.Contains(t, out, "Halaman 1 dari ")
	assert.NotContains(t, out, "dari 1)")
	assert.Contains(t, out, "Halaman 2 dari ")
}

func TestDrawRenderer_Errors(t *testing.T) {
	_, err := NewDrawRenderer().Render(context.Background(), Input{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewDrawRenderer().Render(ctx, Input{Document: sampleDoc(), Raw: "a"})
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeConverter struct {
	html string
	out  []byte
	err  error
}

func (f *fakeConverter) Convert(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return f.out, f.err
}

func TestTemplateRenderer_Render(t *testing.T) {
	conv := &fakeConverter{out: []byte("%PDF-1.7")}
	r := NewTemplateRenderer(conv)
	lc := &content.LessonContent{
		Overview: "Peserta didik <mampu> bernalar.",
		Achievements: []content.Achievement{
			{Title: "Bilangan", Description: "Operasi hitung"},
			{Title: "Aljabar", Description: "Persamaan linear"},
		},
		Weeks: []content.Week{
			{Week: "Minggu 1", Objective: "Memahami", Topic: "Bilangan bulat", Activity: "Diskusi", Assessment: "Tugas", TimeAllocation: "1 pertemuan (1 × 40 menit)"},
		},
	}

	pdf, err := r.Render(context.Background(), Input{Document: sampleDoc(), Content: lc})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), pdf)

	assert.Contains(t, conv.html, "a. Bilangan")
	assert.Contains(t, conv.html, "b. Aljabar")
	assert.Contains(t, conv.html, "Minggu 1")
	assert.Contains(t, conv.html, "D(Kelas VII-VIII)")
	assert.Contains(t, conv.html, "&lt;mampu&gt;")
	assert.NotContains(t, conv.html, Placeholder)
	assert.Equal(t, content.FormatJSON, r.Format())
}

func TestTemplateRenderer_ParseFailureUsesPlaceholders(t *testing.T) {
	conv := &fakeConverter{out: []byte("%PDF-1.7")}

	_, err := NewTemplateRenderer(conv).Render(context.Background(), Input{
		Document: sampleDoc(),
		Raw:      "bukan json",
		ParseErr: content.ErrMalformed,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(conv.html, Placeholder))
	assert.Contains(t, conv.html, "Matematika")
}

func TestTemplateRenderer_ConverterError(t *testing.T) {
	conv := &fakeConverter{err: errors.New("browser crashed")}

	pdf, err := NewTemplateRenderer(conv).Render(context.Background(), Input{Document: sampleDoc()})
	assert.ErrorContains(t, err, "browser crashed")
	assert.Nil(t, pdf)
}

func TestAlphaLabel(t *testing.T) {
	assert.Equal(t, "a", AlphaLabel(0))
	assert.Equal(t, "z", AlphaLabel(25))
	assert.Equal(t, "aa", AlphaLabel(26))
	assert.Equal(t, "ab", AlphaLabel(27))
}

func findChrome() string {
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p
	}
	for _, name := range []string{"chromium", "chromium-browser", "google-chrome", "headless-shell"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return ""
}

func TestChromeConverter(t *testing.T) {
	path := findChrome()
	if path == "" {
		t.Skip("no chrome binary available")
	}

	conv := &ChromeConverter{ExecPath: path, NoSandbox: true, Timeout: 30 * time.Second}
	pdf, err := conv.Convert(context.Background(), "<html><body><h1>RPP</h1></body></html>")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}
