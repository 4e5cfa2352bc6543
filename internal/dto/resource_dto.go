package dto

import (
	"encoding/json"

	"github.com/casesync/casesync/internal/models"
)

// ListFilters are the accepted query parameters for resource listings.
type ListFilters struct {
	Category string
	Status   string
	Zipcode  string
	Sort     string
	Page     int
	Limit    int
}

// ListResponse is the pagination envelope shared by list and search.
// Field names match what the existing frontend expects.
type ListResponse struct {
	CurrentPage    int               `json:"currentPage"`
	TotalPages     int64             `json:"totalPages"`
	TotalResources int64             `json:"totalResources"`
	Resources      []models.Resource `json:"resources"`
}

type CreateResourceRequest struct {
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Zipcode        string          `json:"zipcode"`
	Status         string          `json:"status"`
	ContactDetails json.RawMessage `json:"contactDetails"`
}

// UpdateResourceRequest is the combined-mutation body for PUT
// /resources/:id. All fields are optional but at least one of
// status/contactDetails/notes must be present. The "notes" field is a
// single note's content, kept under that name for wire compatibility.
// Version, when set, pins the resource revision the client read; a
// mismatch is rejected as a conflict.
type UpdateResourceRequest struct {
	Status         string          `json:"status"`
	ContactDetails json.RawMessage `json:"contactDetails"`
	NoteContent    string          `json:"notes"`
	SuggestRemoval bool            `json:"suggest_removal"`
	Version        *int            `json:"version"`
}

type UpdateResourceResponse struct {
	Message  string           `json:"message"`
	Resource *models.Resource `json:"resource"`
}

type AddNoteRequest struct {
	Content string `json:"content"`
}

type AddNoteResponse struct {
	Message string        `json:"message"`
	Notes   []models.Note `json:"notes"`
}

type SaveResponse struct {
	Message      string `json:"message"`
	AlreadySaved bool   `json:"alreadySaved,omitempty"`
}

type UnsaveResponse struct {
	Message  string           `json:"message"`
	Resource *models.Resource `json:"resource"`
}

// ImportCandidate is one pre-extracted record in a bulk import. The
// "descriptions" field name is historical and load-bearing for existing
// import tooling.
type ImportCandidate struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Description string `json:"descriptions"`
	City        string `json:"city"`
	Status      string `json:"status"`
}

type ImportRequest struct {
	Resources []ImportCandidate `json:"resources"`
}

type ImportError struct {
	Index   int             `json:"index"`
	Message string          `json:"message"`
	Record  ImportCandidate `json:"record"`
}

// ImportResult reports a partial-failure batch: every input is
// processed, failures are collected per item, successes are never
// rolled back.
type ImportResult struct {
	Message      string        `json:"message"`
	CreatedCount int           `json:"createdCount"`
	ErrorCount   int           `json:"errorCount"`
	Errors       []ImportError `json:"errors,omitempty"`
}

// ScrapeRequest drives the HTML import heuristic. Either HTML carries a
// pasted fragment, or Category+Zipcode select a remote directory search
// to fetch and extract.
type ScrapeRequest struct {
	Category string `json:"category"`
	Zipcode  string `json:"zipcode"`
	HTML     string `json:"html"`
}

type NormalizeCategoriesResponse struct {
	Message string            `json:"message"`
	Renamed map[string]string `json:"renamed"`
}
