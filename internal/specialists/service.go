package specialists

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("specialist not found")

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Specialist, error) {
	now := time.Now().In(s.location)
	experience := 0
	if req.ExperienceYears != nil {
		experience = *req.ExperienceYears
	}

	item := Specialist{
		ID:              primitive.NewObjectID().Hex(),
		Name:            strings.TrimSpace(req.Name),
		Speciality:      strings.TrimSpace(req.Speciality),
		Email:           strings.TrimSpace(req.Email),
		Phone:           strings.TrimSpace(req.Phone),
		Bio:             strings.TrimSpace(req.Bio),
		ExperienceYears: experience,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return Specialist{}, err
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, id string) (Specialist, error) {
	item, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Specialist{}, ErrNotFound
		}
		return Specialist{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Specialist, error) {
	experience := 0
	if req.ExperienceYears != nil {
		experience = *req.ExperienceYears
	}

	set := bson.M{
		"name":            strings.TrimSpace(req.Name),
		"speciality":      strings.TrimSpace(req.Speciality),
		"email":           strings.TrimSpace(req.Email),
		"phone":           strings.TrimSpace(req.Phone),
		"bio":             strings.TrimSpace(req.Bio),
		"experienceYears": experience,
		"updatedAt":       time.Now().In(s.location),
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Specialist{}, ErrNotFound
		}
		return Specialist{}, err
	}
	return updated, nil
}

// Deactivate is the delete operation: the row stays, so past
// appointments keep resolving their specialist name.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	set := bson.M{
		"isActive":  false,
		"updatedAt": time.Now().In(s.location),
	}
	if _, err := s.repo.Update(ctx, strings.TrimSpace(id), set); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) ListActive(ctx context.Context) ([]Specialist, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) ListAll(ctx context.Context) ([]Specialist, error) {
	return s.repo.ListAll(ctx)
}
