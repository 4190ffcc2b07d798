// Package medicine covers prescription analysis: medicine name extraction,
// concurrent info lookup and AI-generated predictive insights.
package medicine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"medscan/internal/domain"
	"medscan/internal/port"
)

const namesPromptImage = `You are MedGuide AI. Extract ALL medicine names from the prescription image. Return ONLY a JSON array of medicine names found in the prescription. Example: ["Medicine1", "Medicine2", "Medicine3"]`

const namesPromptText = `You are MedGuide AI. Extract ALL medicine names from the prescription text. Return ONLY a JSON array of medicine names found in the prescription. Example: ["Medicine1", "Medicine2", "Medicine3"]

Prescription Text: %s`

// defaultVocabulary is the last-resort substring scan when AI extraction
// yields nothing.
var defaultVocabulary = []string{
	"amoxicillin",
	"metformin",
	"lisinopril",
	"aspirin",
	"ibuprofen",
	"acetaminophen",
}

var nameCaser = cases.Title(language.English)

// NameExtractor pulls medicine names out of prescription images or text.
type NameExtractor struct {
	completer port.Completer
	vocab     port.MedicineVocabulary
}

// NewNameExtractor creates an extractor. vocab may be nil, in which case a
// small builtin list backs the fallback scan.
func NewNameExtractor(completer port.Completer, vocab port.MedicineVocabulary) *NameExtractor {
	return &NameExtractor{completer: completer, vocab: vocab}
}

// ExtractFromImage asks the vision model for the medicine names on a
// prescription image.
func (e *NameExtractor) ExtractFromImage(ctx context.Context, image []byte, mimeType string) ([]string, error) {
	raw, err := e.completer.CompleteWithImage(ctx, namesPromptImage, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("extract medicine names: %w", err)
	}

	names := parseNames(raw)
	if len(names) == 0 {
		return nil, domain.ErrNoMedicinesFound
	}
	return names, nil
}

// ExtractFromText extracts medicine names from free prescription text. When
// the AI finds nothing it falls back to a vocabulary substring scan over
// title and description before giving up.
func (e *NameExtractor) ExtractFromText(ctx context.Context, title, description string) ([]string, error) {
	raw, err := e.completer.Complete(ctx, fmt.Sprintf(namesPromptText, description))
	if err != nil {
		log.Printf("medicine.NameExtractor: completion error, trying fallback: %v", err)
		raw = ""
	}

	names := parseNames(raw)
	if len(names) == 0 {
		log.Printf("medicine.NameExtractor: no medicines found by AI, trying fallback extraction")
		names = e.fallbackFromText(ctx, title, description)
	}
	if len(names) == 0 {
		return nil, domain.ErrNoMedicinesFound
	}
	return names, nil
}

// fallbackFromText scans the lowercased title and description for known
// medicine names.
func (e *NameExtractor) fallbackFromText(ctx context.Context, title, description string) []string {
	vocab := defaultVocabulary
	if e.vocab != nil {
		stored, err := e.vocab.Names(ctx)
		if err != nil {
			log.Printf("medicine.NameExtractor: vocabulary load failed, using builtin list: %v", err)
		} else if len(stored) > 0 {
			vocab = stored
		}
	}

	text := strings.ToLower(title + " " + description)
	var found []string
	for _, med := range vocab {
		if strings.Contains(text, strings.ToLower(med)) {
			found = append(found, nameCaser.String(med))
		}
	}
	return found
}

// parseNames turns an AI reply into a deduplicated list of medicine names.
// The reply is ideally a JSON array but models wrap it in fences or return
// comma-separated text, so the cleanup is forgiving.
func parseNames(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var candidates []string
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
			candidates = splitAndTrim(raw)
		}
	} else {
		candidates = splitAndTrim(raw)
	}

	seen := make(map[string]bool)
	var names []string
	for _, candidate := range candidates {
		clean := strings.Trim(strings.TrimSpace(candidate), `"'`+"`")
		clean = strings.ReplaceAll(clean, "```json", "")
		clean = strings.ReplaceAll(clean, "```", "")
		clean = strings.TrimSpace(clean)
		clean = strings.ReplaceAll(clean, "[", "")
		clean = strings.ReplaceAll(clean, "]", "")
		clean = strings.ReplaceAll(clean, "json", "")
		clean = strings.TrimSpace(clean)
		clean = strings.ReplaceAll(clean, `", "`, ", ")
		clean = strings.ReplaceAll(clean, `"`, "")
		clean = strings.TrimSpace(clean)

		var parts []string
		if strings.Contains(clean, ",") {
			parts = splitAndTrim(clean)
		} else if clean != "" {
			parts = []string{clean}
		}
		for _, part := range parts {
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			names = append(names, part)
		}
	}
	return names
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
