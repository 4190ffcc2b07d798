package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"medscan/internal/port"
)

type medicineRepo struct {
	db *sqlx.DB
}

// NewMedicineRepo creates a new PostgreSQL-backed MedicineVocabulary.
func NewMedicineRepo(db *sqlx.DB) port.MedicineVocabulary {
	return &medicineRepo{db: db}
}

func (r *medicineRepo) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.SelectContext(ctx, &names,
		`SELECT name FROM medicines ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return names, nil
}
