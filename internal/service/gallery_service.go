package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vlabgallery/internal/asset"
	"vlabgallery/internal/auth"
	"vlabgallery/internal/cache"
	apperrors "vlabgallery/internal/errors"
	"vlabgallery/internal/model"
	"vlabgallery/internal/repository"
)

const (
	// assetKeyPrefix namespaces every object this service stores at the host.
	assetKeyPrefix = "virtual_lab_gallery/"

	listCacheKey = "gallery:list"
	listCacheTTL = 5 * time.Minute
)

// UploadInput carries the multipart fields of an upload request.
type UploadInput struct {
	Title       string
	Description string
	Category    string
	Filename    string
	ContentType string
	Image       io.Reader
}

// UpdateInput carries a partial edit; nil fields keep their prior value.
type UpdateInput struct {
	Title       *string
	Description *string
	Category    *string
}

// GalleryService exposes the gallery operations. Role requirements are
// enforced at the route boundary; the service trusts the principal it is
// handed and uses it only for authorship stamping.
type GalleryService interface {
	Upload(ctx context.Context, principal auth.Principal, in UploadInput) (*model.GalleryItem, error)
	List(ctx context.Context) ([]model.GalleryItem, error)
	Update(ctx context.Context, id uint, in UpdateInput) (*model.GalleryItem, error)
	Delete(ctx context.Context, id uint) error
}

type galleryService struct {
	repo  repository.GalleryRepository
	host  asset.Host
	cache *cache.Client
}

// NewGalleryService builds a GalleryService over the repository, asset host
// and cache.
func NewGalleryService(repo repository.GalleryRepository, host asset.Host, cache *cache.Client) GalleryService {
	return &galleryService{repo: repo, host: host, cache: cache}
}

// Upload validates input, stores the image at the asset host, then persists
// the item. Asset storage comes first: a failed upload leaves no record, and
// a failed record write leaves at worst an orphaned object, never a record
// without an image.
func (s *galleryService) Upload(ctx context.Context, principal auth.Principal, in UploadInput) (*model.GalleryItem, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperrors.ErrTitleRequired
	}
	if in.Image == nil {
		return nil, apperrors.ErrNoImage
	}

	key := assetKeyPrefix + uuid.New().String() + strings.ToLower(path.Ext(in.Filename))
	url, err := s.host.Store(ctx, key, in.ContentType, in.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamStorage, err)
	}

	uploadedBy := principal.UserID
	item := &model.GalleryItem{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		ImageURL:    url,
		AssetID:     key,
		UploadedBy:  &uploadedBy,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create gallery item: %w", err)
	}

	_ = s.cache.Delete(ctx, listCacheKey)
	return item, nil
}

// List returns all items with uploaders joined, in store-native order.
func (s *galleryService) List(ctx context.Context) ([]model.GalleryItem, error) {
	if data, _ := s.cache.Get(ctx, listCacheKey); data != nil {
		var cached []model.GalleryItem
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(items); err == nil {
		_ = s.cache.Set(ctx, listCacheKey, payload, listCacheTTL)
	}
	return items, nil
}

// Update applies a partial edit to title/description/category. ImageURL,
// AssetID and UploadedBy are never touched.
func (s *galleryService) Update(ctx context.Context, id uint, in UpdateInput) (*model.GalleryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperrors.ErrTitleRequired
		}
		item.Title = *in.Title
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Category != nil {
		item.Category = *in.Category
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update gallery item: %w", err)
	}

	_ = s.cache.Delete(ctx, listCacheKey)
	return item, nil
}

// Delete removes the item after attempting remote asset cleanup. The remote
// deletion is best-effort: failures are logged and the local record is
// removed regardless, so an orphaned remote object may remain.
func (s *galleryService) Delete(ctx context.Context, id uint) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrItemNotFound
		}
		return err
	}

	if key := s.remoteKey(item); key != "" {
		if err := s.host.Remove(ctx, key); err != nil {
			log.Printf("gallery: remote asset delete failed for item %d: %v", item.ID, err)
		}
	}

	if err := s.repo.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete gallery item: %w", err)
	}

	_ = s.cache.Delete(ctx, listCacheKey)
	return nil
}

// remoteKey prefers the stored AssetID. Rows created before the field existed
// fall back to the URL's last path segment, which may not resolve; that is
// acceptable for a best-effort cleanup.
func (s *galleryService) remoteKey(item *model.GalleryItem) string {
	if item.AssetID != "" {
		return item.AssetID
	}
	segment := path.Base(item.ImageURL)
	if segment == "" || segment == "." || segment == "/" {
		return ""
	}
	return assetKeyPrefix + segment
}
