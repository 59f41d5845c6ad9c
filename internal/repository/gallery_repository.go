package repository

import (
	"context"

	"gorm.io/gorm"

	"vlabgallery/internal/model"
)

// GalleryRepository defines gallery item persistence operations.
type GalleryRepository interface {
	Create(ctx context.Context, item *model.GalleryItem) error
	FindByID(ctx context.Context, id uint) (*model.GalleryItem, error)
	// List returns items in store-native order with uploaders joined in.
	List(ctx context.Context) ([]model.GalleryItem, error)
	Update(ctx context.Context, item *model.GalleryItem) error
	Delete(ctx context.Context, id uint) error
}

type galleryRepository struct {
	db *gorm.DB
}

// NewGalleryRepository creates a new gallery repository.
func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &galleryRepository{db: db}
}

func (r *galleryRepository) Create(ctx context.Context, item *model.GalleryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *galleryRepository) FindByID(ctx context.Context, id uint) (*model.GalleryItem, error) {
	var item model.GalleryItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *galleryRepository) List(ctx context.Context) ([]model.GalleryItem, error) {
	var items []model.GalleryItem
	if err := r.db.WithContext(ctx).Preload("Uploader").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *galleryRepository) Update(ctx context.Context, item *model.GalleryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *galleryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.GalleryItem{}, id).Error
}
