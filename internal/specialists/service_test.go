package specialists

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items map[string]Specialist
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Specialist)}
}

func (f *fakeRepo) Create(_ context.Context, item Specialist) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (Specialist, error) {
	item, ok := f.items[id]
	if !ok {
		return Specialist{}, mongo.ErrNoDocuments
	}
	return item, nil
}

func (f *fakeRepo) Update(_ context.Context, id string, set bson.M) (Specialist, error) {
	item, ok := f.items[id]
	if !ok {
		return Specialist{}, mongo.ErrNoDocuments
	}
	if v, ok := set["name"].(string); ok {
		item.Name = v
	}
	if v, ok := set["speciality"].(string); ok {
		item.Speciality = v
	}
	if v, ok := set["experienceYears"].(int); ok {
		item.ExperienceYears = v
	}
	if v, ok := set["isActive"].(bool); ok {
		item.IsActive = v
	}
	if v, ok := set["updatedAt"].(time.Time); ok {
		item.UpdatedAt = v
	}
	f.items[id] = item
	return item, nil
}

func (f *fakeRepo) ListActive(_ context.Context) ([]Specialist, error) {
	out := make([]Specialist, 0)
	for _, item := range f.items {
		if item.IsActive {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]Specialist, error) {
	out := make([]Specialist, 0)
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func TestCreateDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC)

	item, err := svc.Create(context.Background(), UpsertRequest{
		Name:       "  Ayşe Demir  ",
		Speciality: "Hair",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.ID == "" {
		t.Fatal("expected generated id")
	}
	if item.Name != "Ayşe Demir" {
		t.Errorf("name not trimmed: %q", item.Name)
	}
	if !item.IsActive {
		t.Error("new specialist should be active")
	}
	if item.ExperienceYears != 0 {
		t.Errorf("experienceYears = %d, want 0", item.ExperienceYears)
	}
}

func TestDeactivateHidesFromActiveList(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC)
	ctx := context.Background()

	item, err := svc.Create(ctx, UpsertRequest{Name: "Zeynep", Speciality: "Nails"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Deactivate(ctx, item.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active list has %d items, want 0", len(active))
	}

	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("all list has %d items, want 1", len(all))
	}
	if all[0].IsActive {
		t.Error("specialist should be deactivated, not deleted")
	}
}

func TestUpdateMissing(t *testing.T) {
	svc := NewService(newFakeRepo(), time.UTC)

	_, err := svc.Update(context.Background(), "nope", UpsertRequest{Name: "X", Speciality: "Y"})
	if err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), time.UTC)

	if _, err := svc.Get(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
