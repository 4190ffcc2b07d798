package medicine

import (
	"context"
	"fmt"
	"log"
	"time"

	"medscan/internal/config"
	"medscan/internal/domain"
	"medscan/internal/port"
)

// Lookup fetches per-medicine background information through a search
// provider, fanning out over a bounded worker pool.
type Lookup struct {
	searcher    port.MedicineSearcher
	workers     int
	callTimeout time.Duration
	waitTimeout time.Duration
}

// NewLookup creates a Lookup sized from configuration.
func NewLookup(searcher port.MedicineSearcher, cfg *config.MedicineConfig) *Lookup {
	return &Lookup{
		searcher:    searcher,
		workers:     cfg.MaxWorkers,
		callTimeout: time.Duration(cfg.LookupTimeoutSecs) * time.Second,
		waitTimeout: time.Duration(cfg.WaitTimeoutSecs) * time.Second,
	}
}

// FetchOne is total: search failures and empty results degrade to a generic
// fallback entry instead of an error.
func (l *Lookup) FetchOne(ctx context.Context, name string) domain.MedicineInfo {
	callCtx, cancel := context.WithTimeout(ctx, l.callTimeout)
	defer cancel()

	results, err := l.searcher.Search(callCtx, name+" medicine price availability", 1)
	if err != nil || len(results) == 0 {
		if err != nil {
			log.Printf("medicine.Lookup: search failed for %s: %v", name, err)
		}
		return fallbackInfo(name)
	}

	snippet := results[0]
	info := domain.MedicineInfo{
		Name:         name,
		InfoMarkdown: snippet.Markdown,
		URL:          snippet.URL,
		Description:  snippet.Description,
		Status:       domain.InfoStatusSuccess,
	}
	if info.InfoMarkdown == "" {
		info.InfoMarkdown = snippet.Description
	}
	if info.InfoMarkdown == "" {
		info.InfoMarkdown = "Basic medicine information available"
	}
	if info.URL == "" {
		info.URL = "N/A"
	}
	if info.Description == "" {
		info.Description = fmt.Sprintf("%s - Medicine information from search results", name)
	}
	return info
}

// FetchAll fetches info for every name concurrently. The overall wait is
// bounded: names still in flight when the deadline passes get an error entry.
// The returned slice matches the input order and always has len(names)
// entries.
func (l *Lookup) FetchAll(ctx context.Context, names []string) []domain.MedicineInfo {
	type indexed struct {
		idx  int
		info domain.MedicineInfo
	}

	sem := make(chan struct{}, l.workers)
	done := make(chan indexed, len(names))

	for i, name := range names {
		go func(idx int, name string) {
			sem <- struct{}{}
			defer func() { <-sem }()
			done <- indexed{idx: idx, info: l.FetchOne(ctx, name)}
		}(i, name)
	}

	results := make([]domain.MedicineInfo, len(names))
	received := make([]bool, len(names))
	deadline := time.NewTimer(l.waitTimeout)
	defer deadline.Stop()

	for range names {
		select {
		case item := <-done:
			results[item.idx] = item.info
			received[item.idx] = true
		case <-deadline.C:
			for idx := range results {
				if !received[idx] {
					log.Printf("medicine.Lookup: timed out waiting for %s", names[idx])
					results[idx] = timeoutInfo(names[idx])
				}
			}
			return results
		}
	}
	return results
}

func fallbackInfo(name string) domain.MedicineInfo {
	return domain.MedicineInfo{
		Name:         name,
		InfoMarkdown: fmt.Sprintf("## %s\n\nCommon medicine. Please consult your pharmacist for detailed information.", name),
		URL:          "N/A",
		Description:  fmt.Sprintf("%s - Please consult healthcare provider for usage and dosage information", name),
		Status:       domain.InfoStatusFallback,
	}
}

func timeoutInfo(name string) domain.MedicineInfo {
	return domain.MedicineInfo{
		Name:         name,
		InfoMarkdown: "Timeout or error",
		URL:          "N/A",
		Description:  "Error: timed out waiting for medicine information",
		Status:       domain.InfoStatusError,
	}
}
