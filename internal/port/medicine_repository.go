package port

import "context"

// MedicineVocabulary provides known medicine names for fallback detection
// when AI extraction finds nothing.
type MedicineVocabulary interface {
	Names(ctx context.Context) ([]string, error)
}
