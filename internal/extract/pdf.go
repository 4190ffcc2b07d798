package extract

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// pdfMinTextLen is the threshold below which the layout-aware pass is
// considered to have failed and the simpler pass runs instead.
const pdfMinTextLen = 50

// extractPDF pulls text from a PDF page by page with "--- Page N ---"
// markers. If the layout-aware pass yields too little text it retries with
// a plain per-page pass. When both come up empty an explanatory placeholder
// is returned.
func extractPDF(data []byte) string {
	reader, err := openPDF(data)
	if err != nil {
		log.Printf("extract.extractPDF: error opening PDF: %v", err)
		return fmt.Sprintf("Error processing PDF: %v", err)
	}

	text := extractPages(reader, true)
	if len(strings.TrimSpace(text)) > pdfMinTextLen {
		log.Printf("extract.extractPDF: extracted %d characters (layout pass)", len(text))
		return strings.TrimSpace(text)
	}

	text = extractPages(reader, false)
	if strings.TrimSpace(text) != "" {
		log.Printf("extract.extractPDF: extracted %d characters (plain pass)", len(text))
		return strings.TrimSpace(text)
	}

	return "No text could be extracted from the PDF. The PDF might contain only images or be password-protected."
}

func openPDF(data []byte) (*model.PdfReader, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating PDF reader: %w", err)
	}

	encrypted, err := reader.IsEncrypted()
	if err != nil {
		return nil, fmt.Errorf("checking encryption: %w", err)
	}
	if encrypted {
		ok, err := reader.Decrypt([]byte(""))
		if err != nil {
			return nil, fmt.Errorf("decrypting PDF: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("PDF is password-protected")
		}
	}
	return reader, nil
}

// extractPages walks the pages and concatenates their text with page
// markers. Pages that fail extraction are skipped. The layout pass uses
// positional text assembly; the plain pass takes the raw content stream
// text.
func extractPages(reader *model.PdfReader, layout bool) string {
	numPages, err := reader.GetNumPages()
	if err != nil {
		log.Printf("extract.extractPages: error getting page count: %v", err)
		return ""
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			log.Printf("extract.extractPages: error loading page %d: %v", i, err)
			continue
		}

		ex, err := extractor.New(page)
		if err != nil {
			log.Printf("extract.extractPages: error creating extractor for page %d: %v", i, err)
			continue
		}

		var pageText string
		if layout {
			pageText, err = ex.ExtractText()
		} else {
			var pt *extractor.PageText
			pt, _, _, err = ex.ExtractPageText()
			if err == nil {
				pageText = pt.Text()
			}
		}
		if err != nil {
			log.Printf("extract.extractPages: error extracting text from page %d: %v", i, err)
			continue
		}

		if pageText != "" {
			fmt.Fprintf(&sb, "\n--- Page %d ---\n", i)
			sb.WriteString(pageText)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
