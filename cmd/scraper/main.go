// Command scraper fetches a resource-directory search page (or reads a
// saved HTML file), runs the extraction heuristic over it, and writes
// the candidates as JSON ready for the bulk import endpoint. With
// -import the candidates are written straight through the store
// instead, using the same database configuration as the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/casesync/casesync/internal/config"
	"github.com/casesync/casesync/internal/database"
	"github.com/casesync/casesync/internal/dto"
	"github.com/casesync/casesync/internal/scraper"
	"github.com/casesync/casesync/internal/services"
)

func main() {
	var (
		category = flag.String("category", "", "category to search for and to stamp on extracted records")
		zipcode  = flag.String("zipcode", "", "postal code for the remote search")
		htmlFile = flag.String("html", "", "path to a saved HTML page; skips the remote fetch")
		out      = flag.String("out", "resources.json", "output file for extracted candidates")
		baseURL  = flag.String("base-url", "https://www.findhelp.org/search", "search page base URL")
		timeout  = flag.Duration("timeout", 30*time.Second, "fetch timeout")
		doImport = flag.Bool("import", false, "create the extracted resources in the database instead of writing a file")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	var html string
	switch {
	case *htmlFile != "":
		data, err := os.ReadFile(*htmlFile)
		if err != nil {
			slog.Error("failed to read HTML file", "path", *htmlFile, "error", err)
			os.Exit(1)
		}
		html = string(data)
	case *category != "" && *zipcode != "":
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()

		fetcher := scraper.NewFetcher(*baseURL, *timeout)
		page, err := fetcher.SearchPage(ctx, *category, *zipcode)
		if err != nil {
			slog.Error("search page fetch failed", "category", *category, "zipcode", *zipcode, "error", err)
			os.Exit(1)
		}
		html = page
	default:
		slog.Error("either -html or both -category and -zipcode are required")
		os.Exit(1)
	}

	candidates := scraper.Extract(html, scraper.Defaults{Category: *category, City: ""})
	if len(candidates) == 0 {
		slog.Error("no resources found in page")
		os.Exit(1)
	}

	if *doImport {
		importCandidates(candidates)
		return
	}

	payload, err := json.MarshalIndent(map[string]any{"resources": candidates}, "", "  ")
	if err != nil {
		slog.Error("failed to encode candidates", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, payload, 0o644); err != nil {
		slog.Error("failed to write output file", "path", *out, "error", err)
		os.Exit(1)
	}

	slog.Info("extraction complete", "count", len(candidates), "out", *out)
}

// importCandidates writes the extracted records through the store using
// the server's database configuration.
func importCandidates(candidates []scraper.Candidate) {
	cfg := config.Load()
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required for -import")
		os.Exit(1)
	}
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	records := make([]dto.ImportCandidate, len(candidates))
	for i, c := range candidates {
		records[i] = dto.ImportCandidate{
			Name:        c.Name,
			Category:    c.Category,
			Address:     c.Address,
			Phone:       c.Phone,
			Website:     c.Website,
			Description: c.Description,
			City:        c.City,
		}
	}

	result := services.NewResourceService(database.DB, nil).BulkCreate(records)
	for _, importErr := range result.Errors {
		slog.Warn("record rejected", "index", importErr.Index, "reason", importErr.Message, "name", importErr.Record.Name)
	}
	slog.Info("import complete", "created", result.CreatedCount, "errors", result.ErrorCount)

	if result.CreatedCount == 0 {
		os.Exit(1)
	}
}
