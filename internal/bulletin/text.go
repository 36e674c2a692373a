// Package bulletin turns Sanket bulletin PDFs into structured accident
// records. Extraction is regex-driven against the bulletin's fixed
// label sequence and tolerates partial matches: a field the pattern
// cannot find stays nil, the record is still produced.
package bulletin

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ExtractText pulls page-ordered plain text from a PDF and
// concatenates it into a single string.
func ExtractText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	var buf strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", page+1, err)
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}
