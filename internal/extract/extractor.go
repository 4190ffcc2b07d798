package extract

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"medscan/internal/domain"
	"medscan/internal/port"
)

// imagePrompt asks the vision model to transcribe a medical report image.
const imagePrompt = `Extract all text from this medical report image.
Maintain the structure and formatting as much as possible.
Include all test names, values, reference ranges, and any notes.
Focus on numerical values and their associated test names.`

// Extractor turns uploaded document bytes into plain text. Extraction is
// total: failures surface as explanatory placeholder strings that flow
// downstream, never as errors.
type Extractor struct {
	completer port.Completer
}

// NewExtractor creates an Extractor. The completer handles image transcription.
func NewExtractor(completer port.Completer) *Extractor {
	return &Extractor{completer: completer}
}

// Extract dispatches on the file extension and returns the extracted text.
func (e *Extractor) Extract(ctx context.Context, fileName string, data []byte) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")

	switch domain.AllowedExtensions[ext] {
	case domain.DocumentTypePDF:
		log.Printf("extract.Extract: processing PDF file %s", fileName)
		return extractPDF(data)

	case domain.DocumentTypeImage:
		log.Printf("extract.Extract: processing image file %s", fileName)
		return e.extractImage(ctx, data, ext)

	case domain.DocumentTypeText:
		log.Printf("extract.Extract: processing text file %s", fileName)
		text := decodeText(data)
		log.Printf("extract.Extract: extracted %d characters from text file", len(text))
		return text

	default:
		return "Unsupported file format: " + ext + ". Please upload PDF, PNG, JPG, JPEG, or TXT files."
	}
}

// extractImage transcribes a report image through the vision model.
// Transport failures yield an empty string.
func (e *Extractor) extractImage(ctx context.Context, data []byte, ext string) string {
	mimeType := "image/jpeg"
	if ext == "png" {
		mimeType = "image/png"
	}
	text, err := e.completer.CompleteWithImage(ctx, imagePrompt, data, mimeType)
	if err != nil {
		log.Printf("extract.extractImage: error extracting text from image: %v", err)
		return ""
	}
	return text
}
