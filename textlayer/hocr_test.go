package textlayer

import (
	"math"
	"testing"
)

const sampleHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" lang="en">
 <head>
  <title>sample</title>
  <meta http-equiv="Content-Type" content="text/html;charset=utf-8"/>
  <meta name="ocr-system" content="tesseract 5.3.0"/>
 </head>
 <body>
  <div class="ocr_page" id="page_1" title="image &quot;q.png&quot;; bbox 0 0 600 800; ppageno 0">
   <div class="ocr_carea" id="block_1_1" title="bbox 40 50 560 120">
    <p class="ocr_par" id="par_1_1" title="bbox 40 50 560 120">
     <span class="ocr_line" id="line_1_1" title="bbox 40 50 560 80">
      <span class="ocrx_word" id="word_1_1" title="bbox 40 50 120 80; x_wconf 96">12.</span>
      <span class="ocrx_word" id="word_1_2" title="bbox 130 50 250 80; x_wconf 93">Simplify</span>
     </span>
     <span class="ocr_line" id="line_1_2" title="bbox 40 90 200 120">
      <span class="ocrx_word" id="word_1_3" title="bbox 40 90 110 120; x_wconf 88">$x^2$</span>
     </span>
    </p>
   </div>
  </div>
  <div class="ocr_page" id="page_2" title="bbox 0 0 600 800; ppageno 1">
   <span class="ocrx_word" id="word_2_1" title="bbox 10 20 60 40; x_wconf 91">(A)</span>
  </div>
 </body>
</html>`

func TestParseHOCR(t *testing.T) {
	src, err := ParseHOCR([]byte(sampleHOCR))
	if err != nil {
		t.Fatalf("ParseHOCR() error = %v", err)
	}
	if src.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", src.PageCount())
	}

	frags, err := src.FragmentsFor(0)
	if err != nil {
		t.Fatalf("FragmentsFor(0) error = %v", err)
	}
	if len(frags) != 3 {
		t.Fatalf("expected 3 fragments on page 0, got %d", len(frags))
	}
	if frags[0].Content != "12." || frags[1].Content != "Simplify" {
		t.Fatalf("unexpected fragments: %+v", frags[:2])
	}
	// bbox 40 50 120 80 on an 800-high page: anchor at lower-left,
	// flipped to bottom-left origin.
	if frags[0].AnchorX != 40 {
		t.Fatalf("AnchorX = %v, want 40", frags[0].AnchorX)
	}
	if want := 800.0 - 80.0; math.Abs(frags[0].AnchorY-want) > 1e-9 {
		t.Fatalf("AnchorY = %v, want %v", frags[0].AnchorY, want)
	}

	frags, err = src.FragmentsFor(1)
	if err != nil {
		t.Fatalf("FragmentsFor(1) error = %v", err)
	}
	if len(frags) != 1 || frags[0].Content != "(A)" {
		t.Fatalf("unexpected page 1 fragments: %+v", frags)
	}
}

func TestParseHOCRNoPages(t *testing.T) {
	if _, err := ParseHOCR([]byte("<html><body><p>plain</p></body></html>")); err == nil {
		t.Fatal("expected error for document without ocr_page")
	}
}

func TestParseHOCRLatin1(t *testing.T) {
	doc := `<html><head><meta http-equiv="Content-Type" content="text/html;charset=ISO-8859-1"/></head>` +
		`<body><div class="ocr_page" title="bbox 0 0 100 100">` +
		`<span class="ocrx_word" title="bbox 5 5 20 15">caf` + string([]byte{0xE9}) + `</span>` +
		`</div></body></html>`
	src, err := ParseHOCR([]byte(doc))
	if err != nil {
		t.Fatalf("ParseHOCR() error = %v", err)
	}
	frags, _ := src.FragmentsFor(0)
	if len(frags) != 1 || frags[0].Content != "café" {
		t.Fatalf("unexpected fragments: %+v", frags)
	}
}
