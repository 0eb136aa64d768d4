package generator

import (
	"fmt"
	"strings"

	"rppapi/internal/model"
)

func sessions(doc *model.Document) int {
	if doc.SessionCount > 0 {
		return doc.SessionCount
	}
	return model.DefaultSessionCount
}

func writeIdentity(b *strings.Builder, doc *model.Document) {
	fmt.Fprintf(b, "Mata Pelajaran: %s\n", doc.Subject)
	fmt.Fprintf(b, "Nama Guru: %s\n", doc.TeacherName)
	fmt.Fprintf(b, "Fase: %s\n", doc.Phase)
	if doc.Semester != "" {
		fmt.Fprintf(b, "Semester: %s\n", doc.Semester)
	}
	fmt.Fprintf(b, "Tahun Ajaran: %s\n", doc.AcademicYear)
	if doc.Assessment != "" {
		fmt.Fprintf(b, "Jenis Asesmen: %s\n", doc.Assessment)
	}
	fmt.Fprintf(b, "Jumlah Pertemuan: %d\n", sessions(doc))
}

// BuildTextPrompt asks for a structured outline with clear headings.
func BuildTextPrompt(doc *model.Document) string {
	var b strings.Builder
	b.WriteString("Buatkan Rencana Pelaksanaan Pembelajaran (RPP) yang lengkap dan sesuai dengan Kurikulum Merdeka untuk:\n\n")
	writeIdentity(&b, doc)
	b.WriteString(`
RPP harus mencakup:
1. Identitas RPP (Nama Sekolah, Mata Pelajaran, Kelas/Fase, Alokasi Waktu)
2. Capaian Pembelajaran (CP)
3. Tujuan Pembelajaran
4. Pemahaman Bermakna
5. Pertanyaan Pemantik
6. Kegiatan Pembelajaran:
   - Kegiatan Pendahuluan (10 menit)
   - Kegiatan Inti (60 menit)
   - Kegiatan Penutup (10 menit)
7. Asesmen:
   - Asesmen Formatif
   - Asesmen Sumatif
8. Pengayaan dan Remedial
9. Refleksi Guru
10. Lampiran (jika diperlukan)

Buatlah RPP yang:
- Sesuai dengan karakteristik peserta didik pada fase tersebut
- Menggunakan pendekatan pembelajaran yang berpusat pada siswa
- Mengintegrasikan teknologi jika relevan
- Memperhatikan diferensiasi pembelajaran
- Menggunakan bahasa Indonesia yang baik dan benar
- Terstruktur dan mudah dipahami

Format output dalam bentuk teks yang terstruktur dengan heading yang jelas.`)
	return b.String()
}

// BuildJSONPrompt asks for a content.LessonContent object with one week entry per session.
func BuildJSONPrompt(doc *model.Document) string {
	n := sessions(doc)
	assessment := doc.Assessment
	if assessment == "" {
		assessment = "Tugas"
	}

	var b strings.Builder
	b.WriteString("Buatkan isi Rencana Pelaksanaan Pembelajaran (RPP) sesuai Kurikulum Merdeka untuk:\n\n")
	writeIdentity(&b, doc)
	fmt.Fprintf(&b, `
Balas HANYA dengan satu objek JSON valid tanpa teks lain dan tanpa blok kode, dengan struktur:
{
  "overview": "satu paragraf capaian pembelajaran umum",
  "achievements": [
    {"title": "judul elemen/topik", "description": "capaian pada elemen tersebut"}
  ],
  "weeks": [
    {
      "week": "Minggu 1",
      "objective": "tujuan pembelajaran",
      "topic": "materi pokok",
      "activity": "kegiatan inti",
      "assessment": "%s",
      "timeAllocation": "1 pertemuan (1 × 40 menit)"
    }
  ]
}

Ketentuan:
- "weeks" berisi tepat %d entri, satu untuk setiap pertemuan, berurutan mulai "Minggu 1".
- "timeAllocation" selalu ditulis dengan pola "N pertemuan (N × 40 menit)".
- "achievements" berisi 3 sampai 6 topik.
- Gunakan bahasa Indonesia yang baik dan benar.`, assessment, n)
	return b.String()
}
