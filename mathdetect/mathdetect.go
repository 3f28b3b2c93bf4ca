// Package mathdetect classifies text as containing mathematical notation.
// The result only drives downstream formatting (delimiter-aware cleanup and
// MathML rendering); it never influences which extraction source wins.
package mathdetect

import "regexp"

var patterns = []*regexp.Regexp{
	// Inline math delimiters: $...$ with non-empty body.
	regexp.MustCompile(`\$[^$]+\$`),
	// Backslash-prefixed command tokens (\frac, \alpha, \sqrt, ...).
	regexp.MustCompile(`\\[a-zA-Z]+`),
	// Superscript or subscript followed by a token or braced group.
	regexp.MustCompile(`[\^_]({[^}]*}|[a-zA-Z0-9])`),
	// Common mathematical symbols.
	regexp.MustCompile(`[√∫∑∏π±≤≥≠≈∞∂∇∈∉∪∩⊂⊃∀∃°×÷·]`),
	// Greek letters, either case.
	regexp.MustCompile(`[α-ωΑ-Ω]`),
}

// HasMath reports whether text contains mathematical notation: inline $...$
// delimiters, backslash commands, super/subscript markers, mathematical
// Unicode symbols, or Greek letters.
func HasMath(text string) bool {
	if text == "" {
		return false
	}
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
