package gallery

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/FurkanKirci/BeautySalon/internal/media"
)

var ErrNotFound = errors.New("gallery item not found")

// Upload carries the optional image file attached to an add or update.
type Upload struct {
	Data         []byte
	DeclaredType string
	FileName     string
}

type Service struct {
	repo     Repository
	images   *media.Store
	location *time.Location
}

func NewService(repo Repository, images *media.Store, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		images:   images,
		location: location,
	}
}

// Add inserts the document first so a failed file write leaves a row
// the dashboard can still re-upload to.
func (s *Service) Add(ctx context.Context, req UpsertRequest, upload *Upload) (Item, error) {
	now := time.Now().In(s.location)
	item := Item{
		ID:          primitive.NewObjectID().Hex(),
		Title:       strings.TrimSpace(req.Title),
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return Item{}, err
	}

	if upload != nil && len(upload.Data) > 0 {
		fileName, _, err := s.images.Save(item.ID, upload.Data, upload.DeclaredType, upload.FileName)
		if err != nil {
			return item, err
		}
		updated, err := s.repo.Update(ctx, item.ID, bson.M{"picture": fileName})
		if err != nil {
			return item, err
		}
		item = updated
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest, upload *Upload) (Item, error) {
	id = strings.TrimSpace(id)
	set := bson.M{
		"title":       strings.TrimSpace(req.Title),
		"category":    strings.TrimSpace(req.Category),
		"description": strings.TrimSpace(req.Description),
		"updatedAt":   time.Now().In(s.location),
	}

	if upload != nil && len(upload.Data) > 0 {
		fileName, _, err := s.images.Save(id, upload.Data, upload.DeclaredType, upload.FileName)
		if err != nil {
			return Item{}, err
		}
		set["picture"] = fileName
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return updated, nil
}

// Delete removes the document and, best effort, its stored image.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	_ = s.images.Remove(id)
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (Item, error) {
	item, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Item, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	return s.repo.List(ctx, filter)
}

// SetImage stores a new image for an existing item.
func (s *Service) SetImage(ctx context.Context, id string, upload Upload) (string, error) {
	id = strings.TrimSpace(id)
	if _, err := s.repo.Get(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotFound
		}
		return "", err
	}

	fileName, _, err := s.images.Save(id, upload.Data, upload.DeclaredType, upload.FileName)
	if err != nil {
		return "", err
	}
	if _, err := s.repo.Update(ctx, id, bson.M{
		"picture":   fileName,
		"updatedAt": time.Now().In(s.location),
	}); err != nil {
		return "", err
	}
	return fileName, nil
}

// RemoveImage deletes the stored file and clears the picture field.
func (s *Service) RemoveImage(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := s.images.Remove(id); err != nil {
		return err
	}
	if _, err := s.repo.Update(ctx, id, bson.M{
		"picture":   "",
		"updatedAt": time.Now().In(s.location),
	}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
