package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/casesync/casesync/internal/dto"
	"github.com/casesync/casesync/internal/models"
	"github.com/casesync/casesync/internal/session"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens the database named by TEST_DATABASE_URL and resets
// the tables touched by these tests. Tests are skipped when the
// variable is unset so the suite stays runnable without infrastructure.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database integration test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Resource{}, &models.SavedResource{}); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	for _, table := range []string{"saved_resources", "resources", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("resetting %s: %v", table, err)
		}
	}
	return db
}

func testActor() session.Actor {
	return session.Actor{ID: 1, Username: "casey", Role: models.RoleCaseManager}
}

func createTestResource(t *testing.T, svc *ResourceService, name string) *models.Resource {
	t.Helper()
	resource, err := svc.Create(&dto.CreateResourceRequest{
		Name:     name,
		Category: "Housing",
		Zipcode:  "62704",
	})
	if err != nil {
		t.Fatalf("creating resource %q: %v", name, err)
	}
	return resource
}

func TestCreateAndGet(t *testing.T) {
	svc := NewResourceService(setupTestDB(t), nil)
	ctx := context.Background()

	created := createTestResource(t, svc, "Acme Shelter")
	if created.Status != models.StatusAvailable {
		t.Errorf("default status = %q", created.Status)
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Acme Shelter" {
		t.Errorf("name = %q", got.Name)
	}

	if _, err := svc.GetByID(ctx, created.ID+1000); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("missing ID: got %v, want ErrResourceNotFound", err)
	}
}

func TestCreateRequiredFields(t *testing.T) {
	svc := NewResourceService(setupTestDB(t), nil)

	_, err := svc.Create(&dto.CreateResourceRequest{Name: "No Category", Zipcode: "62704"})
	if !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestApplyUpdateMergePreservesOtherKeys(t *testing.T) {
	svc := NewResourceService(setupTestDB(t), nil)
	ctx := context.Background()

	created, err := svc.Create(&dto.CreateResourceRequest{
		Name:           "Beacon Pantry",
		Category:       "Food",
		Zipcode:        "45402",
		ContactDetails: json.RawMessage(`{"address":"99 Oak Ave","phone":"555-111-2222","email":"info@beacon.org"}`),
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.ApplyUpdate(ctx, created.ID, &dto.UpdateResourceRequest{
		ContactDetails: json.RawMessage(`{"phone":"555-999-0000"}`),
	}, testActor())
	if err != nil {
		t.Fatal(err)
	}

	details := models.DecodeContactDetails(updated.ContactDetails)
	if details.Phone != "555-999-0000" {
		t.Errorf("phone = %q", details.Phone)
	}
	if details.Address != "99 Oak Ave" || details.Email != "info@beacon.org" {
		t.Errorf("untouched keys lost: %+v", details)
	}
}

func TestApplyUpdateRejectsNonObjectContactDetails(t *testing.T) {
	svc := NewResourceService(setupTestDB(t), nil)
	created := createTestResource(t, svc, "Patch Target")

	_, err := svc.ApplyUpdate(context.Background(), created.ID, &dto.UpdateResourceRequest{
		ContactDetails: json.RawMessage(`"not an object"`),
	}, testActor())
	if !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestApplyUpdateSuggestRemoval(t *testing.T) {
	svc := NewResourceService(setupTestDB(t), nil)
	ctx := context.Background()

	first := createTestResource(t, svc, "Removal Candidate")
	updated, err := svc.ApplyUpdate(ctx, first.ID, &dto.UpdateResourceRequest{SuggestRemoval: true}, testActor())
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != models.StatusUnavailable {
		t.Errorf("suggestion without status must set UNAVAILABLE, got %q", updated.Status)
	}

	// An explicit status wins over the suggestion.
	second := createTestResource(t, svc, "Still Limited")
	updated, err = svc.ApplyUpdate(ctx, second.ID, &dto.UpdateResourceRequest{
		Status:         models.StatusLimited,
		SuggestRemoval: true,
	}, testActor())
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != models.StatusLimited {
		t.Errorf("explicit status must win, got %q", updated.Status)
	}
}

func TestApplyUpdateCombinedStatusAndNote(t *testing.T) {
	svc := NewResourceService(setupTestDB(t), nil)
	ctx := context.Background()

	created := createTestResource(t, svc, "Combined Update")
	before := created.LastUpdated

	updated, err := svc.ApplyUpdate(ctx, created.ID, &dto.UpdateResourceRequest{
		Status:      models.StatusLimited,
		NoteContent: "capacity reduced",
	}, testActor())
	if err != nil {
		t.Fatal(err)
	}

	if updated.Status != models.StatusLimited {
		t.Errorf("status = %q", updated.Status)
	}
	notes := models.DecodeNotes(updated.Notes)
	if len(notes) != 1 {
		t.Fatalf("note count = %d, want 1", len(notes))
	}
	if notes[0].Content != "capacity reduced" || notes[0].Username != "casey" {
		t.Errorf("appended note: %+v", notes[0])
	}
	if !updated.LastUpdated.After(before) {
		t.Errorf("lastUpdated must advance: before=%v after=%v", before, updated.LastUpdated)
	}

	// Whitespace-only note content inside a combined update is a no-op;
	// the status change still lands.
	updated, err = svc.ApplyUpdate(ctx, created.ID, &dto.UpdateResourceRequest{
		Status:      models.StatusAvailable,
		NoteContent: "   ",
	}, testActor())
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != models.StatusAvailable {
		t.Errorf("status = %q", updated.Status)
	}
	if notes := models.DecodeNotes(updated.Notes); len(notes) != 1 {
		t.Errorf("whitespace-only note must not append, count = %d", len(notes))
	}
}

func TestApplyUpdateEmptyBody(t *testing.T) {
	svc := NewResourceService(setupTestDB(t), nil)
	created := createTestResource(t, svc, "Untouched")

	_, err := svc.ApplyUpdate(context.Background(), created.ID, &dto.UpdateResourceRequest{}, testActor())
	if !IsValidation(err) {
		t.Errorf("expected validation error for empty update, got %v", err)
	}
}

func TestApplyUpdateVersionConflict(t *testing.T) {
	svc := NewResourceService(setupTestDB(t), nil)
	ctx := context.Background()

	created := createTestResource(t, svc, "Contended")

	// First writer succeeds and bumps the version.
	if _, err := svc.ApplyUpdate(ctx, created.ID, &dto.UpdateResourceRequest{
		Status: models.StatusLimited,
	}, testActor()); err != nil {
		t.Fatal(err)
	}

	// Second writer pinned to the stale version must be rejected.
	stale := created.Version
	_, err := svc.ApplyUpdate(ctx, created.ID, &dto.UpdateResourceRequest{
		Status:  models.StatusUnavailable,
		Version: &stale,
	}, testActor())
	if !errors.Is(err, ErrVersionConflict) {
		t.Errorf("expected ErrVersionConflict, got %v", err)
	}
}

func TestAddNoteAppends(t *testing.T) {
	svc := NewResourceService(setupTestDB(t), nil)
	ctx := context.Background()

	created := createTestResource(t, svc, "Noted")

	if _, err := svc.AddNote(ctx, created.ID, "  ", testActor()); !IsValidation(err) {
		t.Errorf("whitespace-only note: expected validation error, got %v", err)
	}

	first, err := svc.AddNote(ctx, created.ID, "called ahead", testActor())
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.AddNote(ctx, created.ID, "closed mondays", testActor())
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != 1 || len(second) != 2 {
		t.Fatalf("note counts = %d, %d", len(first), len(second))
	}
	if second[0].Content != "called ahead" || second[1].Content != "closed mondays" {
		t.Errorf("append order broken: %+v", second)
	}
	if second[1].UserID != 1 || second[1].Username != "casey" {
		t.Errorf("note attribution: %+v", second[1])
	}
}

func TestUpdatedSinceStrict(t *testing.T) {
	svc := NewResourceService(setupTestDB(t), nil)

	created := createTestResource(t, svc, "Fresh")

	after, err := svc.UpdatedSince(created.LastUpdated.Add(-time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 1 {
		t.Errorf("expected 1 resource after earlier cutoff, got %d", len(after))
	}

	// The boundary is exclusive.
	at, err := svc.UpdatedSince(created.LastUpdated)
	if err != nil {
		t.Fatal(err)
	}
	if len(at) != 0 {
		t.Errorf("resource updated exactly at the cutoff must be excluded, got %d", len(at))
	}
	// An empty feed must serialize as [], never null.
	if at == nil {
		t.Error("empty result must be an allocated slice")
	}
}

func TestBulkCreatePartialFailure(t *testing.T) {
	svc := NewResourceService(setupTestDB(t), nil)

	result := svc.BulkCreate([]dto.ImportCandidate{
		{Name: "Valid Org", Category: "Health", Address: "450 Pine St, Portland, OR 97205"},
		{Name: "", Category: "Health"},
		{Name: "Bad Status", Category: "Health", Status: "WRONG"},
		{Name: "City Fallback", Category: "Health", City: "Portland"},
	})

	if result.CreatedCount != 2 {
		t.Errorf("created = %d, want 2", result.CreatedCount)
	}
	if result.ErrorCount != 2 || len(result.Errors) != 2 {
		t.Fatalf("errors = %d, want 2", result.ErrorCount)
	}
	if result.Errors[0].Index != 1 || result.Errors[1].Index != 2 {
		t.Errorf("error indices = %d, %d", result.Errors[0].Index, result.Errors[1].Index)
	}

	var fromAddress models.Resource
	if err := svc.db.First(&fromAddress, "name = ?", "Valid Org").Error; err != nil {
		t.Fatal(err)
	}
	if fromAddress.Zipcode != "97205" {
		t.Errorf("zipcode from address = %q", fromAddress.Zipcode)
	}

	var fromCity models.Resource
	if err := svc.db.First(&fromCity, "name = ?", "City Fallback").Error; err != nil {
		t.Fatal(err)
	}
	if fromCity.Zipcode != "Portland" {
		t.Errorf("city fallback zipcode = %q", fromCity.Zipcode)
	}
}

func TestListFiltersAndPaging(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResourceService(db, nil)

	seed := []dto.CreateResourceRequest{
		{Name: "Alpha Housing", Category: "Housing", Zipcode: "62704"},
		{Name: "Beta Housing", Category: "housing services", Zipcode: "62705"},
		{Name: "Gamma Food", Category: "Food", Zipcode: "62704", Status: models.StatusLimited},
	}
	for i := range seed {
		if _, err := svc.Create(&seed[i]); err != nil {
			t.Fatal(err)
		}
	}

	// Category filter is a case-insensitive substring.
	resources, total, err := svc.List(dto.ListFilters{Category: "HOUS", Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(resources) != 2 {
		t.Errorf("category filter: total=%d len=%d", total, len(resources))
	}

	// Status and zipcode are exact.
	_, total, err = svc.List(dto.ListFilters{Status: models.StatusLimited, Zipcode: "62704", Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("status+zipcode filter: total=%d", total)
	}

	// Name sort is ascending.
	resources, _, err = svc.List(dto.ListFilters{Sort: "name", Page: 1, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(resources) != 2 || resources[0].Name != "Alpha Housing" {
		t.Errorf("name sort page 1: %+v", resources)
	}

	resources, _, err = svc.List(dto.ListFilters{Sort: "name", Page: 2, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(resources) != 1 || resources[0].Name != "Gamma Food" {
		t.Errorf("name sort page 2: %+v", resources)
	}
}

func TestSaveUnsaveFlow(t *testing.T) {
	db := setupTestDB(t)
	resources := NewResourceService(db, nil)
	saves := NewSaveService(db)
	ctx := context.Background()

	user := models.User{Username: "casey", Password: "x", Role: models.RoleCaseManager}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}

	first := createTestResource(t, resources, "First Saved")
	second := createTestResource(t, resources, "Second Saved")

	if _, err := saves.Save(ctx, user.ID, first.ID+1000); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("saving missing resource: got %v", err)
	}

	already, err := saves.Save(ctx, user.ID, first.ID)
	if err != nil || already {
		t.Fatalf("first save: already=%v err=%v", already, err)
	}
	already, err = saves.Save(ctx, user.ID, first.ID)
	if err != nil || !already {
		t.Fatalf("re-save must be idempotent: already=%v err=%v", already, err)
	}

	if _, err := saves.Save(ctx, user.ID, second.ID); err != nil {
		t.Fatal(err)
	}

	saved, err := saves.ListSaved(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 2 {
		t.Fatalf("saved count = %d", len(saved))
	}
	if saved[0].Name != "Second Saved" {
		t.Errorf("most recent save must come first, got %q", saved[0].Name)
	}

	returned, err := saves.Unsave(ctx, user.ID, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if returned.Name != "First Saved" {
		t.Errorf("unsave confirmation = %q", returned.Name)
	}

	if _, err := saves.Unsave(ctx, user.ID, first.ID); !errors.Is(err, ErrSaveNotFound) {
		t.Errorf("double unsave: got %v, want ErrSaveNotFound", err)
	}
}

func TestNormalizeCategories(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResourceService(db, nil)
	ctx := context.Background()

	for _, req := range []dto.CreateResourceRequest{
		{Name: "A", Category: "mental-health", Zipcode: "1"},
		{Name: "B", Category: "Food", Zipcode: "2"},
	} {
		r := req
		if _, err := svc.Create(&r); err != nil {
			t.Fatal(err)
		}
	}

	renamed, err := svc.NormalizeCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(renamed) != 1 || renamed["mental-health"] != "Mental Health" {
		t.Errorf("renames = %v", renamed)
	}

	var updated models.Resource
	if err := db.First(&updated, "name = ?", "A").Error; err != nil {
		t.Fatal(err)
	}
	if updated.Category != "Mental Health" {
		t.Errorf("stored category = %q", updated.Category)
	}
}
