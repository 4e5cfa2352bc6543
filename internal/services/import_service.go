package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/casesync/casesync/internal/dto"
	"github.com/casesync/casesync/internal/scraper"
)

// ImportService glues the extraction heuristic to the store's bulk
// create path. Per-record extraction problems never surface as errors;
// only an aggregate empty result does.
type ImportService struct {
	resources *ResourceService
	fetcher   *scraper.Fetcher
}

func NewImportService(resources *ResourceService, fetcher *scraper.Fetcher) *ImportService {
	return &ImportService{resources: resources, fetcher: fetcher}
}

// ImportHTML extracts candidates from raw HTML and bulk-creates the
// accepted ones. Fails only when the whole page yields nothing.
func (s *ImportService) ImportHTML(html, defaultCategory, defaultCity string) (*dto.ImportResult, error) {
	candidates := scraper.Extract(html, scraper.Defaults{
		Category: defaultCategory,
		City:     defaultCity,
	})
	if len(candidates) == 0 {
		return nil, ErrNoResourcesFound
	}

	slog.Info("extraction complete", "action", "import_html", "candidates", len(candidates))
	return s.resources.BulkCreate(toImportCandidates(candidates)), nil
}

// ImportRemote fetches a directory search page for the category and
// zipcode, then runs ImportHTML over it.
func (s *ImportService) ImportRemote(ctx context.Context, category, zipcode string) (*dto.ImportResult, error) {
	if category == "" || zipcode == "" {
		return nil, validationErr("", "category and zipcode are required")
	}

	html, err := s.fetcher.SearchPage(ctx, category, zipcode)
	if err != nil {
		return nil, fmt.Errorf("scrape failed: %w", err)
	}
	// The zipcode doubles as the city fallback: a candidate with no
	// parseable address keeps it as its city, and zipcode derivation
	// then stores that value back as the zipcode.
	return s.ImportHTML(html, category, zipcode)
}

func toImportCandidates(candidates []scraper.Candidate) []dto.ImportCandidate {
	out := make([]dto.ImportCandidate, len(candidates))
	for i, c := range candidates {
		out[i] = dto.ImportCandidate{
			Name:        c.Name,
			Category:    c.Category,
			Address:     c.Address,
			Phone:       c.Phone,
			Website:     c.Website,
			Description: c.Description,
			City:        c.City,
		}
	}
	return out
}
