package extractor

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extract converts an uploaded resume file into plain text. Plain-text
// and HTML resumes are handled here; PDF/DOCX conversion stays on the
// client side.
func Extract(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return strings.TrimSpace(string(data)), nil
	case ".html", ".htm":
		return extractHTML(data)
	default:
		return "", fmt.Errorf("unsupported resume format: %s", filepath.Ext(filename))
	}
}

func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	var parts []string
	doc.Find("body").Each(func(i int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		// Fragment without a body element.
		if text := strings.TrimSpace(doc.Text()); text != "" {
			parts = append(parts, text)
		}
	}

	text := strings.Join(parts, "\n")
	return strings.Join(strings.Fields(text), " "), nil
}
