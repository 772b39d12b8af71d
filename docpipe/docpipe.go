// Package docpipe extracts plain text from uploaded manuscript files.
//
// Supported formats:
//   - .docx  — Microsoft Word (archive/zip → word/document.xml)
//   - .odt   — OpenDocument Text (archive/zip → content.xml)
//   - .pdf   — PDF content-stream text extraction via pdfcpu
//   - .md    — Markdown (treated as prose, headings detected for the title)
//   - .txt   — Plain text (normalization only)
//   - .html  — HTML (sanitized, converted to Markdown, DOM walk fallback)
//
// Extraction is byte-oriented: callers hand over the upload body, not a
// path on disk.
package docpipe

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
)

// Pipeline is the upload extraction engine.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

var (
	magicPDF = []byte("%PDF-")
	magicZip = []byte("PK\x03\x04")
)

// Detect resolves an upload's format from its filename extension, declared
// content type, and leading bytes. Magic bytes win over the extension so a
// mislabelled PDF still lands on the PDF path.
func (p *Pipeline) Detect(name, contentType string, data []byte) (Format, error) {
	if bytes.HasPrefix(data, magicPDF) {
		return FormatPDF, nil
	}

	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".docx":
		return FormatDocx, nil
	case ".odt":
		return FormatODT, nil
	case ".pdf":
		return FormatPDF, nil
	case ".md", ".markdown":
		return FormatMD, nil
	case ".txt", ".text":
		return FormatTXT, nil
	case ".html", ".htm":
		return FormatHTML, nil
	}

	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "application/pdf":
			return FormatPDF, nil
		case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
			return FormatDocx, nil
		case "application/vnd.oasis.opendocument.text":
			return FormatODT, nil
		case "text/markdown":
			return FormatMD, nil
		case "text/plain":
			return FormatTXT, nil
		case "text/html":
			return FormatHTML, nil
		}
	}

	// A bare zip with a Word payload inside.
	if bytes.HasPrefix(data, magicZip) {
		if zipContains(data, "word/document.xml") {
			return FormatDocx, nil
		}
		if zipContains(data, "content.xml") {
			return FormatODT, nil
		}
	}

	return "", fmt.Errorf("unsupported format: name=%q content-type=%q", name, contentType)
}

// Extract parses an upload and returns its plain text.
func (p *Pipeline) Extract(ctx context.Context, name, contentType string, data []byte) (*Document, error) {
	if int64(len(data)) > p.cfg.MaxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", len(data), p.cfg.MaxFileSize)
	}

	format, err := p.Detect(name, contentType, data)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("extracting upload", "name", name, "format", format, "bytes", len(data))

	var (
		title   string
		text    string
		quality *ExtractionQuality
	)
	switch format {
	case FormatDocx:
		title, text, err = extractDocx(data)
	case FormatODT:
		title, text, err = extractODT(data)
	case FormatPDF:
		title, text, quality, err = extractPDF(data)
	case FormatMD:
		title, text, err = extractMarkdownText(data)
	case FormatTXT:
		title, text, err = extractPlainText(data)
	case FormatHTML:
		title, text, err = extractHTML(data)
	default:
		return nil, fmt.Errorf("no parser for format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s (%s): %w", name, format, err)
	}

	return &Document{
		Name:    name,
		Format:  format,
		Title:   title,
		Text:    text,
		Quality: quality,
	}, nil
}

// SupportedFormats returns all supported format extensions.
func SupportedFormats() []string {
	return []string{"docx", "odt", "pdf", "md", "txt", "html"}
}
