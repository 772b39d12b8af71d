package docpipe

// Format identifies an upload's document type.
type Format string

const (
	FormatDocx Format = "docx"
	FormatODT  Format = "odt"
	FormatPDF  Format = "pdf"
	FormatMD   Format = "md"
	FormatTXT  Format = "txt"
	FormatHTML Format = "html"
)

// Document is the result of extracting text from an upload.
type Document struct {
	Name   string `json:"name"`
	Format Format `json:"format"`
	// Title is the extractor's best guess, e.g. the first heading. May be
	// empty; callers fall back to the first line of Text.
	Title string `json:"title,omitempty"`
	// Text is the full plain text, paragraphs separated by blank lines.
	Text string `json:"text"`
	// Quality carries PDF extraction metrics; nil for other formats.
	Quality *ExtractionQuality `json:"quality,omitempty"`
}
