package textlayer

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// HOCRSource reads fragments from hOCR documents, one per page. hOCR is the
// de-facto sidecar format for recognized text with geometry, so a document
// that went through a recognition pass can feed the same probe path as a
// born-digital text layer.
type HOCRSource struct {
	pages map[int][]Fragment
}

// ParseHOCR builds an HOCRSource from raw hOCR data. Word coordinates are
// converted from the hOCR image convention (origin top-left, y down) to the
// native page convention (origin bottom-left, y up) using each page's own
// bbox height, with the word's lower-left corner as its anchor.
func ParseHOCR(data []byte) (*HOCRSource, error) {
	decoded, err := decodeCharset(data)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(strings.NewReader(string(decoded)))
	if err != nil {
		return nil, fmt.Errorf("parse hocr: %w", err)
	}

	src := &HOCRSource{pages: make(map[int][]Fragment)}
	pageIndex := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
			bbox, ok := bboxFromTitle(attr(n, "title"))
			if ok {
				src.pages[pageIndex] = collectWords(n, bbox[3]-bbox[1])
			}
			pageIndex++
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if pageIndex == 0 {
		return nil, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return src, nil
}

// FragmentsFor returns the fragments parsed for the zero-based page index.
func (s *HOCRSource) FragmentsFor(page int) ([]Fragment, error) {
	return s.pages[page], nil
}

// PageCount reports how many pages carried fragments.
func (s *HOCRSource) PageCount() int { return len(s.pages) }

func collectWords(page *html.Node, pageHeight float64) []Fragment {
	var frags []Fragment
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
			text := strings.TrimSpace(nodeText(n))
			bbox, ok := bboxFromTitle(attr(n, "title"))
			if text != "" && ok {
				frags = append(frags, Fragment{
					Content: text,
					AnchorX: bbox[0],
					AnchorY: pageHeight - bbox[3],
				})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(page)
	return frags
}

// bboxFromTitle extracts "bbox x1 y1 x2 y2" from an hOCR title attribute
// such as "bbox 100 200 300 400; x_wconf 95".
func bboxFromTitle(title string) ([4]float64, bool) {
	for _, part := range strings.Split(title, ";") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) >= 5 && fields[0] == "bbox" {
			var out [4]float64
			for i := 0; i < 4; i++ {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return out, false
				}
				out[i] = v
			}
			return out, true
		}
	}
	return [4]float64{}, false
}

func hasClass(n *html.Node, class string) bool {
	return strings.Contains(attr(n, "class"), class)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// decodeCharset converts legacy Latin-1 hOCR output to UTF-8; anything else
// is passed through unchanged.
func decodeCharset(data []byte) ([]byte, error) {
	content := string(data)
	idx := strings.Index(content, "charset=")
	if idx == -1 {
		return data, nil
	}
	fields := strings.FieldsFunc(strings.ToLower(content[idx+len("charset="):]), func(r rune) bool {
		return r == '"' || r == '\'' || r == ';' || r == '>' || r == ' '
	})
	enc := ""
	if len(fields) > 0 {
		enc = fields[0]
	}
	switch enc {
	case "", "utf-8", "utf8":
		return data, nil
	case "iso-8859-1", "latin-1", "latin1":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", enc, err)
		}
		return decoded, nil
	default:
		return data, nil
	}
}
