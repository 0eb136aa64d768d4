package render

import (
	"regexp"
	"strings"
	"unicode"
)

// Style is the typographic role of one line of generated text.
type Style int

const (
	StyleBlank Style = iota
	StyleHeading
	StyleBullet
	StyleBody
)

func (s Style) String() string {
	switch s {
	case StyleBlank:
		return "blank"
	case StyleHeading:
		return "heading"
	case StyleBullet:
		return "bullet"
	default:
		return "body"
	}
}

var (
	numberedRe = regexp.MustCompile(`^\d+[.)]\s`)
	markdownRe = regexp.MustCompile(`^#{1,6}\s`)
	// An upper-case label such as "CAPAIAN PEMBELAJARAN:" or "A. TUJUAN:" followed by anything.
	labelRe = regexp.MustCompile(`^[A-Z][^a-z:]*:`)
)

// ClassifyLine assigns a style to a single line. A colon inside an ordinary sentence does not
// make it a heading; only colon-terminated lines and upper-case labels do.
func ClassifyLine(line string) Style {
	s := strings.TrimSpace(line)
	switch {
	case s == "":
		return StyleBlank
	case numberedRe.MatchString(s), markdownRe.MatchString(s):
		return StyleHeading
	case strings.HasPrefix(s, "-"), strings.HasPrefix(s, "•"), strings.HasPrefix(s, "* "):
		return StyleBullet
	case strings.HasSuffix(s, ":") && !strings.HasPrefix(s, "**") && len([]rune(s)) <= 80:
		return StyleHeading
	case strings.HasPrefix(s, "**") && strings.HasSuffix(strings.TrimSuffix(s, ":"), "**"):
		return StyleHeading
	case labelRe.MatchString(s) && hasLetters(strings.SplitN(s, ":", 2)[0]):
		return StyleHeading
	default:
		return StyleBody
	}
}

// CleanLine strips markdown markers that would otherwise be printed literally.
func CleanLine(line string, st Style) string {
	s := strings.TrimSpace(line)
	switch st {
	case StyleHeading:
		s = strings.TrimLeft(s, "#")
	case StyleBullet:
		s = strings.TrimLeft(s, "-•* ")
		s = "• " + strings.TrimSpace(s)
	}
	s = strings.ReplaceAll(s, "**", "")
	return strings.TrimSpace(s)
}

func hasLetters(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
