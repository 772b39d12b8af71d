package docpipe

import "testing"

func TestPrintableRatioNormal(t *testing.T) {
	ratio := computePrintableRatio("This is a normal sentence with standard characters.")
	if ratio < 0.95 {
		t.Errorf("printable ratio = %f, want > 0.95", ratio)
	}
}

func TestPrintableRatioGarbage(t *testing.T) {
	// PUA runes and control chars are what broken CIDFont extraction
	// without ToUnicode maps looks like.
	garbage := "abcdefghi\x01\x02\x03\x04\x05"
	ratio := computePrintableRatio(garbage)
	if ratio >= 0.85 {
		t.Errorf("printable ratio = %f, want < 0.85", ratio)
	}
}

func TestWordlikeRatioNormal(t *testing.T) {
	ratio := computeWordlikeRatio("This is a normal sentence with standard words inside")
	if ratio < 0.70 {
		t.Errorf("wordlike ratio = %f, want > 0.70", ratio)
	}
}

func TestWordlikeRatioSingleChar(t *testing.T) {
	// Character-by-character extraction yields single-rune tokens.
	ratio := computeWordlikeRatio("a b c d e f g h i j k l")
	if ratio >= 0.40 {
		t.Errorf("wordlike ratio = %f, want < 0.40", ratio)
	}
}

func TestNeedsOCR(t *testing.T) {
	q := &ExtractionQuality{
		CharsPerPage:    30,
		HasImageStreams: true,
		PrintableRatio:  0.9,
	}
	if !q.NeedsOCR() {
		t.Error("expected NeedsOCR=true for low chars + images")
	}
}

func TestUsable(t *testing.T) {
	good := &ExtractionQuality{CharsPerPage: 1200, PrintableRatio: 0.99, WordlikeRatio: 0.9}
	if !good.Usable() {
		t.Error("expected Usable=true for clean prose metrics")
	}
	scan := &ExtractionQuality{CharsPerPage: 12, PrintableRatio: 0.99, WordlikeRatio: 0.9, HasImageStreams: true}
	if scan.Usable() {
		t.Error("expected Usable=false for near-empty scan")
	}
	garbled := &ExtractionQuality{CharsPerPage: 800, PrintableRatio: 0.5, WordlikeRatio: 0.2}
	if garbled.Usable() {
		t.Error("expected Usable=false for garbled extraction")
	}
}
