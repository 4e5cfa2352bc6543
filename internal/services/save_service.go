package services

import (
	"context"
	"errors"

	"github.com/casesync/casesync/internal/models"
	"gorm.io/gorm"
)

// SaveService manages per-user bookmarks. Rows are created and
// destroyed only by their owning user.
type SaveService struct {
	db *gorm.DB
}

func NewSaveService(db *gorm.DB) *SaveService {
	return &SaveService{db: db}
}

// Save bookmarks a resource for a user. Re-saving is idempotent: the
// existing row is kept and alreadySaved is reported instead of an
// error.
func (s *SaveService) Save(ctx context.Context, userID, resourceID uint) (alreadySaved bool, err error) {
	var resource models.Resource
	if err := s.db.WithContext(ctx).First(&resource, "id = ?", resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrResourceNotFound
		}
		return false, err
	}

	var existing models.SavedResource
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND resource_id = ?", userID, resourceID).
		First(&existing).Error
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	save := models.SavedResource{UserID: userID, ResourceID: resourceID}
	if err := s.db.WithContext(ctx).Create(&save).Error; err != nil {
		// The unique index may have lost a race with a concurrent save
		// of the same pair; that is still an idempotent success.
		var check models.SavedResource
		if lookupErr := s.db.WithContext(ctx).
			Where("user_id = ? AND resource_id = ?", userID, resourceID).
			First(&check).Error; lookupErr == nil {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// Unsave removes the bookmark and returns the resource for
// confirmation display.
func (s *SaveService) Unsave(ctx context.Context, userID, resourceID uint) (*models.Resource, error) {
	var save models.SavedResource
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND resource_id = ?", userID, resourceID).
		First(&save).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaveNotFound
		}
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(&save).Error; err != nil {
		return nil, err
	}

	var resource models.Resource
	if err := s.db.WithContext(ctx).First(&resource, "id = ?", resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return &resource, nil
}

// ListSaved returns the user's bookmarked resources, most recently
// saved first.
func (s *SaveService) ListSaved(ctx context.Context, userID uint) ([]models.Resource, error) {
	resources := []models.Resource{}
	err := s.db.WithContext(ctx).
		Model(&models.Resource{}).
		Joins("JOIN saved_resources ON saved_resources.resource_id = resources.id").
		Where("saved_resources.user_id = ?", userID).
		Order("saved_resources.created_at DESC").
		Find(&resources).Error
	return resources, err
}
