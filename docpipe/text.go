package docpipe

import (
	"regexp"
	"strings"
)

var multiBlankRe = regexp.MustCompile(`\n{3,}`)

// cleanText normalizes an upload's raw text: UTF-8 BOM and NUL bytes
// stripped, line endings unified, runs of blank lines collapsed. Line
// structure is preserved so downstream sentence and title logic still
// sees it.
func cleanText(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = multiBlankRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// extractPlainText handles .txt uploads.
func extractPlainText(data []byte) (string, string, error) {
	text := cleanText(string(data))
	return firstLine(text), text, nil
}

// extractMarkdownText handles .md uploads. Markdown manuscripts are prose
// already; the first ATX heading, when present, names the document.
func extractMarkdownText(data []byte) (string, string, error) {
	text := cleanText(string(data))

	var title string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			heading := strings.TrimSpace(strings.TrimRight(strings.TrimLeft(trimmed, "#"), "#"))
			if heading != "" {
				title = heading
				break
			}
			continue
		}
		break
	}
	if title == "" {
		title = firstLine(text)
	}
	return title, text, nil
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 200 {
			line = line[:200]
		}
		return line
	}
	return ""
}
