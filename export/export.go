// Package export formats assembled question records for downstream use:
// Markdown for editing, HTML (with MathML for math-tagged content) for
// preview, JSON for programmatic consumers.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"

	"github.com/chaitanya1705/mcqextract/extract"
)

// optionLetters labels options A, B, C, ... in render order.
const optionLetters = "ABCDEFGHIJ"

// Markdown renders the questions as a Markdown document. Math stays in
// $...$ delimiters so downstream renderers can typeset it.
func Markdown(questions []extract.Question) string {
	var b strings.Builder
	for i, q := range questions {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "**%d.** %s\n\n", q.Number, q.Text)
		for j, opt := range q.Options {
			letter := "?"
			if j < len(optionLetters) {
				letter = string(optionLetters[j])
			}
			fmt.Fprintf(&b, "- (%s) %s\n", letter, opt)
		}
		if q.Confidence == 0 {
			b.WriteString("\n> low-confidence extraction, review manually\n")
		}
	}
	return b.String()
}

// HTML converts the Markdown rendering to HTML. When any question carries
// math, the converter typesets $...$ spans as MathML.
func HTML(questions []extract.Question) (string, error) {
	var opts []goldmark.Option
	for _, q := range questions {
		if q.HasMath {
			opts = append(opts, goldmark.WithExtensions(treeblood.MathML()))
			break
		}
	}
	md := goldmark.New(opts...)
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(questions)), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// JSON renders the questions as an indented JSON array.
func JSON(questions []extract.Question) ([]byte, error) {
	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal questions: %w", err)
	}
	return data, nil
}
