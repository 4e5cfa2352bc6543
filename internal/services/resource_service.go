package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/casesync/casesync/internal/cache"
	"github.com/casesync/casesync/internal/dto"
	"github.com/casesync/casesync/internal/models"
	"github.com/casesync/casesync/internal/session"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// sanitizer strips markup from user-submitted and scraped text before
// it reaches the store; notes and descriptions are rendered in a web UI.
var sanitizer = bluemonday.StrictPolicy()

var zipPattern = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)

// ResourceService owns durable storage and mutation of resource
// listings. All mutations are conditional on the resource's version
// column; a lost race surfaces as ErrVersionConflict instead of a
// silent clobber of a concurrent contactDetails merge or note append.
type ResourceService struct {
	db    *gorm.DB
	cache *cache.ResourceCache
}

func NewResourceService(db *gorm.DB, c *cache.ResourceCache) *ResourceService {
	return &ResourceService{db: db, cache: c}
}

// List applies the directory filters: category is a case-insensitive
// substring, status and zipcode are exact. Sort is lastUpdated desc
// unless "name" is requested.
func (s *ResourceService) List(f dto.ListFilters) ([]models.Resource, int64, error) {
	query := s.db.Model(&models.Resource{})
	if f.Category != "" {
		query = query.Where("category ILIKE ?", "%"+f.Category+"%")
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Zipcode != "" {
		query = query.Where("zipcode = ?", f.Zipcode)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "last_updated DESC"
	if f.Sort == "name" {
		order = "name ASC"
	}

	var resources []models.Resource
	err := query.Order(order).
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&resources).Error
	return resources, total, err
}

// Search matches query as a case-insensitive substring against name and
// category, and as a plain substring against zipcode.
func (s *ResourceService) Search(queryText string, page, limit int) ([]models.Resource, int64, error) {
	like := "%" + queryText + "%"
	query := s.db.Model(&models.Resource{}).
		Where("name ILIKE ? OR category ILIKE ? OR zipcode LIKE ?", like, like, like)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var resources []models.Resource
	err := query.Order("last_updated DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&resources).Error
	return resources, total, err
}

// UpdatedSince returns resources with lastUpdated strictly after since,
// newest first. A resource updated at exactly since is excluded. The
// result is always an allocated slice so the feed serializes as [].
func (s *ResourceService) UpdatedSince(since time.Time) ([]models.Resource, error) {
	resources := []models.Resource{}
	err := s.db.Where("last_updated > ?", since).
		Order("last_updated DESC").
		Find(&resources).Error
	return resources, err
}

func (s *ResourceService) GetByID(ctx context.Context, id uint) (*models.Resource, error) {
	if cached, ok := s.cache.Get(ctx, id); ok {
		return cached, nil
	}

	var resource models.Resource
	if err := s.db.First(&resource, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	s.cache.Set(ctx, &resource)
	return &resource, nil
}

func (s *ResourceService) Create(req *dto.CreateResourceRequest) (*models.Resource, error) {
	if req.Name == "" || req.Category == "" || req.Zipcode == "" {
		return nil, validationErr("", "required fields missing: name, category, and zipcode are required")
	}

	status := req.Status
	if status == "" {
		status = models.StatusAvailable
	}
	if !models.ValidStatus(status) {
		return nil, validationErr("status", "invalid status value")
	}

	details, err := parseContactDetails(req.ContactDetails)
	if err != nil {
		return nil, err
	}

	resource := models.Resource{
		Name:           req.Name,
		Category:       req.Category,
		Status:         status,
		Zipcode:        req.Zipcode,
		ContactDetails: models.EncodeJSON(details),
		Notes:          models.EncodeJSON([]models.Note{}),
		LastUpdated:    time.Now(),
	}

	if err := s.db.Create(&resource).Error; err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return &resource, nil
}

// BulkCreate validates and stores each candidate independently. A bad
// record is reported in the result and never aborts the batch; records
// already written stay written.
func (s *ResourceService) BulkCreate(candidates []dto.ImportCandidate) *dto.ImportResult {
	result := &dto.ImportResult{}

	for index, candidate := range candidates {
		if candidate.Name == "" || candidate.Category == "" {
			result.Errors = append(result.Errors, dto.ImportError{
				Index:   index,
				Message: "required fields missing: name and category are required",
				Record:  candidate,
			})
			continue
		}

		status := candidate.Status
		if status == "" {
			status = models.StatusAvailable
		}
		if !models.ValidStatus(status) {
			result.Errors = append(result.Errors, dto.ImportError{
				Index:   index,
				Message: "invalid status value",
				Record:  candidate,
			})
			continue
		}

		details := models.ContactDetails{
			Address:     candidate.Address,
			Phone:       candidate.Phone,
			Website:     candidate.Website,
			Description: sanitizer.Sanitize(candidate.Description),
		}

		resource := models.Resource{
			Name:           candidate.Name,
			Category:       candidate.Category,
			Status:         status,
			Zipcode:        deriveZipcode(candidate.Address, candidate.City),
			ContactDetails: models.EncodeJSON(details),
			Notes:          models.EncodeJSON([]models.Note{}),
			LastUpdated:    time.Now(),
		}

		if err := s.db.Create(&resource).Error; err != nil {
			result.Errors = append(result.Errors, dto.ImportError{
				Index:   index,
				Message: err.Error(),
				Record:  candidate,
			})
			continue
		}
		result.CreatedCount++
	}

	result.ErrorCount = len(result.Errors)
	result.Message = fmt.Sprintf("Imported %d resources with %d errors", result.CreatedCount, result.ErrorCount)
	return result
}

// ApplyUpdate applies one combined mutation: status transition,
// contactDetails shallow merge, and note append, in a single
// version-checked write. A removal suggestion with no explicit status
// becomes an actual UNAVAILABLE transition; an explicit status wins.
func (s *ResourceService) ApplyUpdate(ctx context.Context, id uint, req *dto.UpdateResourceRequest, actor session.Actor) (*models.Resource, error) {
	var resource models.Resource
	if err := s.db.First(&resource, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	if req.Version != nil && *req.Version != resource.Version {
		return nil, ErrVersionConflict
	}

	updates := map[string]interface{}{}

	if req.Status != "" {
		if !models.ValidStatus(req.Status) {
			return nil, validationErr("status", "invalid status value")
		}
		updates["status"] = req.Status
	}
	if req.SuggestRemoval && req.Status == "" {
		slog.Info("removal suggested", "user_id", actor.ID, "resource_id", id)
		updates["status"] = models.StatusUnavailable
	}

	if supplied(req.ContactDetails) {
		patch, err := parseContactPatch(req.ContactDetails)
		if err != nil {
			return nil, err
		}
		merged := models.DecodeContactDetails(resource.ContactDetails).Merge(patch)
		updates["contact_details"] = models.EncodeJSON(merged)
	}

	// Empty note content is a no-op inside a combined update; the
	// standalone AddNote path is stricter.
	if content := strings.TrimSpace(req.NoteContent); content != "" {
		notes := append(models.DecodeNotes(resource.Notes), models.Note{
			UserID:    actor.ID,
			Username:  actor.Username,
			Content:   sanitizer.Sanitize(content),
			Timestamp: time.Now(),
		})
		updates["notes"] = models.EncodeJSON(notes)
	}

	if len(updates) == 0 {
		return nil, validationErr("", "no update data provided")
	}

	if err := s.commit(ctx, &resource, updates); err != nil {
		return nil, err
	}
	return &resource, nil
}

// AddNote appends a single note. Unlike the combined update path, empty
// content is an error here.
func (s *ResourceService) AddNote(ctx context.Context, id uint, content string, actor session.Actor) ([]models.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationErr("content", "note content is required and must be a non-empty string")
	}

	var resource models.Resource
	if err := s.db.First(&resource, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	notes := append(models.DecodeNotes(resource.Notes), models.Note{
		UserID:    actor.ID,
		Username:  actor.Username,
		Content:   sanitizer.Sanitize(content),
		Timestamp: time.Now(),
	})

	updates := map[string]interface{}{"notes": models.EncodeJSON(notes)}
	if err := s.commit(ctx, &resource, updates); err != nil {
		return nil, err
	}
	return notes, nil
}

// commit writes updates conditionally on the version read by the
// caller, refreshing last_updated and bumping version. Zero rows
// affected means a concurrent writer got there first.
func (s *ResourceService) commit(ctx context.Context, resource *models.Resource, updates map[string]interface{}) error {
	updates["last_updated"] = time.Now()
	updates["version"] = resource.Version + 1

	res := s.db.Model(&models.Resource{}).
		Where("id = ? AND version = ?", resource.ID, resource.Version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}

	s.cache.Invalidate(ctx, resource.ID)
	return s.db.First(resource, "id = ?", resource.ID).Error
}

// NormalizeCategories title-cases every stored category (hyphens become
// spaces). Housekeeping only: it does not touch lastUpdated or version.
func (s *ResourceService) NormalizeCategories(ctx context.Context) (map[string]string, error) {
	var resources []models.Resource
	if err := s.db.Select("id", "category").Find(&resources).Error; err != nil {
		return nil, err
	}

	renamed := map[string]string{}
	for _, resource := range resources {
		normalized := capitalizeWords(resource.Category)
		if normalized == resource.Category {
			continue
		}
		if err := s.db.Model(&models.Resource{}).
			Where("id = ?", resource.ID).
			Update("category", normalized).Error; err != nil {
			return nil, err
		}
		s.cache.Invalidate(ctx, resource.ID)
		renamed[resource.Category] = normalized
	}
	return renamed, nil
}

// supplied reports whether a raw JSON field was present and not null.
func supplied(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed != "null"
}

// parseContactDetails handles the create path, which historically
// accepts an object, a JSON-encoded string, or nothing. Absent or
// non-object input defaults to {address: ""}; a string that is not
// valid JSON is rejected.
func parseContactDetails(raw json.RawMessage) (models.ContactDetails, error) {
	defaults := models.ContactDetails{Address: ""}
	if !supplied(raw) {
		return defaults, nil
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return defaults, validationErr("contactDetails", "invalid contactDetails format, must be valid JSON")
		}
		var details models.ContactDetails
		if err := json.Unmarshal([]byte(inner), &details); err != nil {
			return defaults, validationErr("contactDetails", "invalid contactDetails format, must be valid JSON")
		}
		return details, nil
	}

	if !strings.HasPrefix(trimmed, "{") {
		return defaults, nil
	}

	var details models.ContactDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return defaults, validationErr("contactDetails", "invalid contactDetails format, must be valid JSON")
	}
	return details, nil
}

// parseContactPatch handles the update path, which is stricter: the
// payload must be a JSON object.
func parseContactPatch(raw json.RawMessage) (models.ContactDetailsPatch, error) {
	var patch models.ContactDetailsPatch
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "{") {
		return patch, validationErr("contactDetails", "contactDetails must be an object")
	}
	if err := json.Unmarshal(raw, &patch); err != nil {
		return patch, validationErr("contactDetails", "contactDetails must be an object")
	}
	return patch, nil
}

// deriveZipcode extracts a 5-digit (optionally +4) ZIP from the
// address. When none is found the extracted city string is used as-is —
// behavioral parity with the original importer, kept deliberately.
func deriveZipcode(address, city string) string {
	if address != "" {
		if match := zipPattern.FindString(address); match != "" {
			return match
		}
	}
	return city
}

func capitalizeWords(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "-", " "))
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
