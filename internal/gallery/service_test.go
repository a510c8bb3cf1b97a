package gallery

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/FurkanKirci/BeautySalon/internal/media"
)

type fakeRepo struct {
	items map[string]Item
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Item)}
}

func (f *fakeRepo) Create(_ context.Context, item Item) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (Item, error) {
	item, ok := f.items[id]
	if !ok {
		return Item{}, mongo.ErrNoDocuments
	}
	return item, nil
}

func (f *fakeRepo) Update(_ context.Context, id string, set bson.M) (Item, error) {
	item, ok := f.items[id]
	if !ok {
		return Item{}, mongo.ErrNoDocuments
	}
	if v, ok := set["title"].(string); ok {
		item.Title = v
	}
	if v, ok := set["category"].(string); ok {
		item.Category = v
	}
	if v, ok := set["description"].(string); ok {
		item.Description = v
	}
	if v, ok := set["picture"].(string); ok {
		item.Picture = v
	}
	if v, ok := set["updatedAt"].(time.Time); ok {
		item.UpdatedAt = v
	}
	f.items[id] = item
	return item, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

func (f *fakeRepo) List(_ context.Context, filter ListFilter) ([]Item, error) {
	out := make([]Item, 0)
	for _, item := range f.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *media.Store) {
	t.Helper()
	repo := newFakeRepo()
	store := media.NewStore(t.TempDir())
	return NewService(repo, store, time.UTC), repo, store
}

func TestAddWithImage(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, UpsertRequest{Title: "Balayage", Category: "Hair"}, &Upload{
		Data:         []byte("png-bytes"),
		DeclaredType: "image/png",
		FileName:     "balayage.png",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.Picture != item.ID+".png" {
		t.Errorf("picture = %q, want %q", item.Picture, item.ID+".png")
	}
	if _, _, err := store.Open(item.ID); err != nil {
		t.Errorf("stored image missing: %v", err)
	}
}

func TestAddWithoutImage(t *testing.T) {
	svc, _, _ := newTestService(t)

	item, err := svc.Add(context.Background(), UpsertRequest{Title: "Salon", Category: "Interior"}, nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.Picture != "" {
		t.Errorf("picture = %q, want empty", item.Picture)
	}
}

func TestGetAfterAdd(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, UpsertRequest{Title: "Keratin", Category: "Hair"}, nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := svc.Get(ctx, added.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Keratin" || got.Category != "Hair" {
		t.Errorf("got = %+v, want the added item", got)
	}

	if _, err := svc.Get(ctx, "missing"); err != ErrNotFound {
		t.Errorf("get missing = %v, want ErrNotFound", err)
	}
}

func TestDeleteRemovesImage(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, UpsertRequest{Title: "Nails", Category: "Nails"}, &Upload{
		Data:         []byte("jpeg-bytes"),
		DeclaredType: "image/jpeg",
		FileName:     "nails.jpg",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.items) != 0 {
		t.Error("document still present after delete")
	}
	if _, _, err := store.Open(item.ID); err != media.ErrNotFound {
		t.Errorf("open after delete = %v, want ErrNotFound", err)
	}
}

func TestDeleteMissing(t *testing.T) {
	svc, _, _ := newTestService(t)

	if err := svc.Delete(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListByCategory(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, c := range []string{"Hair", "Hair", "Nails"} {
		if _, err := svc.Add(ctx, UpsertRequest{Title: "t", Category: c}, nil); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	hair, err := svc.List(ctx, ListFilter{Category: "Hair"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(hair) != 2 {
		t.Errorf("hair items = %d, want 2", len(hair))
	}

	all, err := svc.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all items = %d, want 3", len(all))
	}
}

func TestSetImageNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SetImage(context.Background(), "missing", Upload{Data: []byte("x")})
	if err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
