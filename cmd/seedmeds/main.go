// Command seedmeds converts a medicine master Excel file into a SQL seed
// file for the medicines vocabulary table.
// Expected columns: A=brand name, B=generic name, C=category.
// Usage: go run ./cmd/seedmeds [medicines.xlsx]
// Output: db/seeds/medicines.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

const batchSize = 500

type medicineEntry struct {
	name        string
	genericName string
	category    string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := "medicines.xlsx"
	if len(os.Args) > 1 {
		xlsxPath = os.Args[1]
	}
	outPath := "db/seeds/medicines.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := parseMedicineSheet(f)
	if err != nil {
		return fmt.Errorf("parse medicine sheet: %w", err)
	}
	log.Printf("parsed %d medicine entries", len(entries))

	if err := os.MkdirAll("db/seeds", 0o755); err != nil {
		return fmt.Errorf("create seeds directory: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := func(s string) error { _, werr := fmt.Fprintln(out, s); return werr }

	for _, line := range []string{
		"-- Medicine vocabulary seed data generated from Excel.",
		fmt.Sprintf("-- %d entries in batches of %d.", len(entries), batchSize),
		"BEGIN;",
		"",
	} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write header: %w", werr)
		}
	}

	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := writeBatch(out, entries[i:end]); err != nil {
			return fmt.Errorf("write batch at offset %d: %w", i, err)
		}
	}

	for _, line := range []string{"", "COMMIT;"} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write footer: %w", werr)
		}
	}

	log.Printf("Generated %d entries (%d batches) in %s",
		len(entries), (len(entries)+batchSize-1)/batchSize, outPath)
	return nil
}

// parseMedicineSheet reads the first sheet. Row 0 is the header; data
// starts at row 1. Rows without a brand name are skipped.
func parseMedicineSheet(f *excelize.File) ([]medicineEntry, error) {
	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []medicineEntry
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		name := strings.TrimSpace(cellVal(row, 0))
		if name == "" {
			continue
		}

		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		entries = append(entries, medicineEntry{
			name:        name,
			genericName: strings.TrimSpace(cellVal(row, 1)),
			category:    strings.TrimSpace(cellVal(row, 2)),
		})
	}
	return entries, nil
}

func writeBatch(out *os.File, batch []medicineEntry) error {
	if len(batch) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO medicines (name, generic_name, category) VALUES\n")

	for i := range batch {
		e := &batch[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "  ('%s', '%s', '%s')",
			escapeSQL(e.name), escapeSQL(e.genericName), escapeSQL(e.category))
	}

	b.WriteString("\nON CONFLICT (name) DO NOTHING;\n")

	_, err := out.WriteString(b.String())
	return err
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
