package handlers

import (
	"context"
	"testing"

	"github.com/FurkanKirci/BeautySalon/internal/models"
)

// fakeMessageViews mimics the conditional update: the transition only
// fires while the stored status is still "new".
type fakeMessageViews struct {
	items       map[string]models.ContactMessage
	transitions int
}

func newFakeMessageViews() *fakeMessageViews {
	return &fakeMessageViews{items: make(map[string]models.ContactMessage)}
}

func (f *fakeMessageViews) MarkReadIfNew(_ context.Context, id string) (models.ContactMessage, bool, error) {
	msg, ok := f.items[id]
	if !ok || msg.Status != models.MessageStatusNew {
		return models.ContactMessage{}, false, nil
	}
	msg.Status = models.MessageStatusRead
	f.items[id] = msg
	f.transitions++
	return msg, true, nil
}

func (f *fakeMessageViews) GetMessage(_ context.Context, id string) (models.ContactMessage, error) {
	msg, ok := f.items[id]
	if !ok {
		return models.ContactMessage{}, errMessageNotFound
	}
	return msg, nil
}

func TestViewMessageMarksReadOnce(t *testing.T) {
	store := newFakeMessageViews()
	store.items["m1"] = models.ContactMessage{ID: "m1", Subject: "Randevu", Status: models.MessageStatusNew}
	ctx := context.Background()

	first, err := viewMessage(ctx, store, "m1")
	if err != nil {
		t.Fatalf("first view: %v", err)
	}
	if first.Status != models.MessageStatusRead {
		t.Errorf("status after first view = %q, want read", first.Status)
	}

	second, err := viewMessage(ctx, store, "m1")
	if err != nil {
		t.Fatalf("second view: %v", err)
	}
	if second.Status != models.MessageStatusRead {
		t.Errorf("status after second view = %q, want read", second.Status)
	}
	if store.transitions != 1 {
		t.Errorf("transitions = %d, want exactly 1", store.transitions)
	}
}

func TestViewMessageLeavesRepliedAlone(t *testing.T) {
	store := newFakeMessageViews()
	store.items["m2"] = models.ContactMessage{ID: "m2", Status: models.MessageStatusReplied}

	msg, err := viewMessage(context.Background(), store, "m2")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if msg.Status != models.MessageStatusReplied {
		t.Errorf("status = %q, want replied", msg.Status)
	}
	if store.transitions != 0 {
		t.Errorf("transitions = %d, want 0", store.transitions)
	}
}

func TestViewMessageMissing(t *testing.T) {
	store := newFakeMessageViews()

	if _, err := viewMessage(context.Background(), store, "ghost"); err != errMessageNotFound {
		t.Fatalf("err = %v, want errMessageNotFound", err)
	}
}
