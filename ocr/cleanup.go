package ocr

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Recognizer output carries predictable noise: scattered whitespace, loose
// punctuation around question numbering, vertical strokes misread as pipes,
// and spaces leaking inside math delimiters. Cleanup repairs these in a fixed
// order so the result is stable under re-application.
var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	spaceBeforeDot = regexp.MustCompile(`(\d)\s+\.`)
	spaceBeforeRP  = regexp.MustCompile(`([A-Za-z0-9])\s+\)`)
	spaceAfterLP   = regexp.MustCompile(`\(\s+`)
	strokeRun      = regexp.MustCompile(`[|_]{2,}`)
	inlineMath     = regexp.MustCompile(`\$[^$]+\$`)
	spaceAfterBS   = regexp.MustCompile(`\\\s+`)
)

// Cleanup normalizes raw recognizer output. It is idempotent:
// Cleanup(Cleanup(s)) == Cleanup(s) for any s.
func Cleanup(raw string) string {
	s := norm.NFC.String(raw)

	// 1. Collapse whitespace runs to a single space.
	s = whitespaceRun.ReplaceAllString(s, " ")

	// 2. Tighten numbering and lettering punctuation: "12 . A" -> "12. A",
	//    "( B )" -> "(B)".
	s = spaceBeforeDot.ReplaceAllString(s, "$1.")
	s = spaceBeforeRP.ReplaceAllString(s, "$1)")
	s = spaceAfterLP.ReplaceAllString(s, "(")

	// 3. Vertical-stroke artifacts: runs of pipes or underscores collapse to
	//    a space, a lone surviving pipe reads as the letter I. A single
	//    underscore is kept, it may be a subscript marker.
	s = strokeRun.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "|", "I")
	s = whitespaceRun.ReplaceAllString(s, " ")

	// The stroke collapse re-exposes loose punctuation ("(a__)" becomes
	// "(a )", "3__." becomes "3 ."), so the tightening runs once more.
	s = spaceBeforeDot.ReplaceAllString(s, "$1.")
	s = spaceBeforeRP.ReplaceAllString(s, "$1)")
	s = spaceAfterLP.ReplaceAllString(s, "(")

	// 4. Math delimiters: no incidental whitespace just inside $...$ or
	//    after a backslash.
	s = inlineMath.ReplaceAllStringFunc(s, func(m string) string {
		return "$" + strings.TrimSpace(m[1:len(m)-1]) + "$"
	})
	s = spaceAfterBS.ReplaceAllString(s, `\`)

	// 5. Trim.
	return strings.TrimSpace(s)
}
