package extraction

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"docshelf/internal/services"
)

// extractPDF pulls plain text out of a PDF. A document that parses but holds
// no extractable text yields an empty string, not an error; malformed input
// is reported as ErrCorrupt.
func extractPDF(path string) (text string, err error) {
	// The parser panics on some malformed inputs, so fold panics into the
	// corrupt-document error path.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = services.Wrap(services.ErrCorrupt, "extraction", "parse pdf", "Corrupted or unreadable PDF", fmt.Errorf("parser panic: %v", r))
		}
	}()

	file, reader, openErr := pdf.Open(path)
	if openErr != nil {
		return "", services.Wrap(services.ErrCorrupt, "extraction", "parse pdf", "Corrupted or unreadable PDF", openErr)
	}
	defer file.Close()

	var parts []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, textErr := page.GetPlainText(nil)
		if textErr != nil {
			// A single unreadable page does not make the document corrupt.
			continue
		}
		if trimmed := strings.TrimSpace(pageText); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " "), nil
}
