package docpipe

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// extractODT reads content.xml out of an .odt payload. The first
// <text:h> heading becomes the title; headings and paragraphs are
// flattened into prose.
func extractODT(data []byte) (string, string, error) {
	rc, err := openZipEntry(data, "content.xml")
	if err != nil {
		return "", "", err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var (
		title       string
		paragraphs  []string
		currentText strings.Builder
		inHeading   bool
		inParagraph bool
		depth       int
	)

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > maxXMLDepth {
				return "", "", fmt.Errorf("xml nesting depth exceeds %d", maxXMLDepth)
			}
			switch t.Name.Local {
			case "h":
				inHeading = true
				currentText.Reset()
			case "p":
				inParagraph = true
				currentText.Reset()
			case "tab", "s":
				if inHeading || inParagraph {
					currentText.WriteByte(' ')
				}
			case "line-break":
				if inHeading || inParagraph {
					currentText.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inHeading || inParagraph {
				currentText.Write(t)
			}

		case xml.EndElement:
			depth--
			switch {
			case t.Name.Local == "h" && inHeading:
				inHeading = false
				text := strings.TrimSpace(currentText.String())
				if text == "" {
					continue
				}
				if title == "" {
					title = text
				}
				paragraphs = append(paragraphs, text)

			case t.Name.Local == "p" && inParagraph:
				inParagraph = false
				text := strings.TrimSpace(currentText.String())
				if text == "" {
					continue
				}
				paragraphs = append(paragraphs, text)
			}
		}
	}

	return title, strings.Join(paragraphs, "\n\n"), nil
}
