package docpipe

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func buildZip(t *testing.T, entry, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create(entry)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	pipe := New(Config{})

	tests := []struct {
		name        string
		contentType string
		data        []byte
		format      Format
	}{
		{"doc.docx", "", nil, FormatDocx},
		{"doc.odt", "", nil, FormatODT},
		{"doc.pdf", "", nil, FormatPDF},
		{"doc.md", "", nil, FormatMD},
		{"doc.markdown", "", nil, FormatMD},
		{"doc.txt", "", nil, FormatTXT},
		{"doc.html", "", nil, FormatHTML},
		{"doc.htm", "", nil, FormatHTML},
		{"upload", "application/pdf", nil, FormatPDF},
		{"upload", "text/plain; charset=utf-8", nil, FormatTXT},
		{"upload", "text/markdown", nil, FormatMD},
		{"upload", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", nil, FormatDocx},
		// Magic bytes beat a misleading extension.
		{"doc.txt", "", []byte("%PDF-1.4 rest"), FormatPDF},
	}

	for _, tt := range tests {
		f, err := pipe.Detect(tt.name, tt.contentType, tt.data)
		if err != nil {
			t.Errorf("Detect(%q, %q): %v", tt.name, tt.contentType, err)
			continue
		}
		if f != tt.format {
			t.Errorf("Detect(%q, %q) = %q, want %q", tt.name, tt.contentType, f, tt.format)
		}
	}

	if _, err := pipe.Detect("file.xyz", "application/octet-stream", []byte("data")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestDetectZipPayloads(t *testing.T) {
	pipe := New(Config{})

	docx := buildZip(t, "word/document.xml", "<w:document/>")
	if f, err := pipe.Detect("upload", "application/octet-stream", docx); err != nil || f != FormatDocx {
		t.Fatalf("Detect(docx zip) = %q, %v", f, err)
	}
	odt := buildZip(t, "content.xml", "<office:document-content/>")
	if f, err := pipe.Detect("upload", "application/octet-stream", odt); err != nil || f != FormatODT {
		t.Fatalf("Detect(odt zip) = %q, %v", f, err)
	}
}

func TestExtractText(t *testing.T) {
	pipe := New(Config{})
	doc, err := pipe.Extract(context.Background(), "test.txt", "text/plain", []byte("\ufeffThe Title\r\n\r\n\r\n\r\nHello world.\x00"))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Format != FormatTXT {
		t.Fatalf("expected txt format, got %s", doc.Format)
	}
	if doc.Title != "The Title" {
		t.Fatalf("expected title from first line, got %q", doc.Title)
	}
	if doc.Text != "The Title\n\nHello world." {
		t.Fatalf("unexpected text %q", doc.Text)
	}
}

func TestExtractMarkdown(t *testing.T) {
	content := `# My Title

This is a paragraph.

## Section Two

Another paragraph here.
`
	pipe := New(Config{})
	doc, err := pipe.Extract(context.Background(), "test.md", "", []byte(content))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "My Title" {
		t.Fatalf("expected title 'My Title', got %q", doc.Title)
	}
	if doc.Format != FormatMD {
		t.Fatalf("expected md format, got %s", doc.Format)
	}
	if !strings.Contains(doc.Text, "Another paragraph here.") {
		t.Fatalf("expected body text, got %q", doc.Text)
	}
}

func TestExtractDocx(t *testing.T) {
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Test Title</w:t></w:r></w:p>
<w:p><w:r><w:t>This is body text.</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading2"/></w:pPr><w:r><w:t>Section Two</w:t></w:r></w:p>
<w:p><w:r><w:t>More content here.</w:t></w:r></w:p>
</w:body>
</w:document>`
	data := buildZip(t, "word/document.xml", docXML)

	pipe := New(Config{})
	doc, err := pipe.Extract(context.Background(), "test.docx", "", data)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Test Title" {
		t.Fatalf("expected title 'Test Title', got %q", doc.Title)
	}
	for _, want := range []string{"This is body text.", "Section Two", "More content here."} {
		if !strings.Contains(doc.Text, want) {
			t.Fatalf("expected text to contain %q, got %q", want, doc.Text)
		}
	}
}

func TestExtractODT(t *testing.T) {
	contentXML := `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
<office:body>
<office:text>
<text:h text:outline-level="1">ODT Title</text:h>
<text:p>First paragraph.</text:p>
<text:h text:outline-level="2">Sub Heading</text:h>
<text:p>Second paragraph.</text:p>
</office:text>
</office:body>
</office:document-content>`
	data := buildZip(t, "content.xml", contentXML)

	pipe := New(Config{})
	doc, err := pipe.Extract(context.Background(), "test.odt", "", data)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "ODT Title" {
		t.Fatalf("expected title 'ODT Title', got %q", doc.Title)
	}
	if !strings.Contains(doc.Text, "Second paragraph.") {
		t.Fatalf("expected body text, got %q", doc.Text)
	}
}

func TestExtractHTML(t *testing.T) {
	page := `<!DOCTYPE html>
<html><head><title>HTML Test</title></head>
<body>
<article>
<h1>Main Heading</h1>
<p>This is a substantial paragraph of text that should survive sanitization
and conversion because it is ordinary visible prose.</p>
</article>
</body></html>`

	pipe := New(Config{})
	doc, err := pipe.Extract(context.Background(), "test.html", "", []byte(page))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "HTML Test" {
		t.Fatalf("expected title 'HTML Test', got %q", doc.Title)
	}
	if !strings.Contains(doc.Text, "substantial paragraph") {
		t.Fatalf("expected text to contain content, got %q", doc.Text)
	}
}

func TestExtractTooLarge(t *testing.T) {
	pipe := New(Config{MaxFileSize: 10})
	if _, err := pipe.Extract(context.Background(), "big.txt", "", []byte("this is more than ten bytes")); err == nil {
		t.Fatal("expected size error")
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	if len(formats) != 6 {
		t.Fatalf("expected 6 formats, got %d: %v", len(formats), formats)
	}
}

// --- HTML hidden text filtering tests ---

func extractHTMLText(t *testing.T, page string) string {
	t.Helper()
	pipe := New(Config{})
	doc, err := pipe.Extract(context.Background(), "page.html", "", []byte(page))
	if err != nil {
		t.Fatal(err)
	}
	return doc.Text
}

func TestHTMLHiddenDisplayNone(t *testing.T) {
	text := extractHTMLText(t, `<!DOCTYPE html><html><body>
<p>Visible text here</p>
<div style="display:none">secret hidden text</div>
</body></html>`)
	if strings.Contains(text, "secret hidden text") {
		t.Error("display:none text should be excluded")
	}
	if !strings.Contains(text, "Visible text") {
		t.Error("visible text should be present")
	}
}

func TestHTMLHiddenVisibility(t *testing.T) {
	text := extractHTMLText(t, `<!DOCTYPE html><html><body>
<p>Normal text</p>
<span style="visibility:hidden">hidden payload</span>
</body></html>`)
	if strings.Contains(text, "hidden payload") {
		t.Error("visibility:hidden text should be excluded")
	}
}

func TestHTMLHiddenFontSize0(t *testing.T) {
	text := extractHTMLText(t, `<!DOCTYPE html><html><body>
<p>Readable text</p>
<span style="font-size:0px">tiny invisible</span>
</body></html>`)
	if strings.Contains(text, "tiny invisible") {
		t.Error("font-size:0 text should be excluded")
	}
}

func TestHTMLHiddenOpacity0(t *testing.T) {
	text := extractHTMLText(t, `<!DOCTYPE html><html><body>
<p>Real content</p>
<span style="opacity:0">ghost text</span>
</body></html>`)
	if strings.Contains(text, "ghost text") {
		t.Error("opacity:0 text should be excluded")
	}
}

func TestHTMLVisibleTextKept(t *testing.T) {
	text := extractHTMLText(t, `<!DOCTYPE html><html><body>
<h1>Title</h1>
<p style="color:red">Styled but visible</p>
<p>Normal paragraph</p>
</body></html>`)
	if !strings.Contains(text, "Styled but visible") {
		t.Error("visible styled text should be kept")
	}
	if !strings.Contains(text, "Normal paragraph") {
		t.Error("normal text should be kept")
	}
}

// --- XML bomb tests ---

func TestDocxXMLBomb(t *testing.T) {
	var xmlB strings.Builder
	xmlB.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	xmlB.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for i := 0; i < 300; i++ {
		xmlB.WriteString("<w:p>")
	}
	xmlB.WriteString("<w:r><w:t>deep</w:t></w:r>")
	for i := 0; i < 300; i++ {
		xmlB.WriteString("</w:p>")
	}
	xmlB.WriteString("</w:body></w:document>")

	data := buildZip(t, "word/document.xml", xmlB.String())
	_, _, err := extractDocx(data)
	if err == nil {
		t.Fatal("expected error for deeply nested XML")
	}
	if !strings.Contains(err.Error(), "nesting depth") {
		t.Errorf("expected 'nesting depth' error, got: %v", err)
	}
}

func TestODTXMLBomb(t *testing.T) {
	var xmlB strings.Builder
	xmlB.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	xmlB.WriteString(`<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">`)
	xmlB.WriteString(`<office:body><office:text>`)
	for i := 0; i < 300; i++ {
		xmlB.WriteString("<text:p>")
	}
	xmlB.WriteString("deep text")
	for i := 0; i < 300; i++ {
		xmlB.WriteString("</text:p>")
	}
	xmlB.WriteString("</office:text></office:body></office:document-content>")

	data := buildZip(t, "content.xml", xmlB.String())
	_, _, err := extractODT(data)
	if err == nil {
		t.Fatal("expected error for deeply nested XML")
	}
	if !strings.Contains(err.Error(), "nesting depth") {
		t.Errorf("expected 'nesting depth' error, got: %v", err)
	}
}
