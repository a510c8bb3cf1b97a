package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/FurkanKirci/BeautySalon/internal/models"
)

// fakeRepo enforces the active-slot uniqueness the partial index
// provides in mongo. With skipCheck set, SlotTaken always reports free,
// which reproduces two requests passing the pre-check before either
// insert lands.
type fakeRepo struct {
	mu        sync.Mutex
	items     map[string]models.Appointment
	skipCheck bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]models.Appointment)}
}

func slotKey(date, timeStr, specialistID string) string {
	return date + "|" + timeStr + "|" + specialistID
}

func (f *fakeRepo) SlotTaken(_ context.Context, date, timeStr, specialistID string) (bool, error) {
	if f.skipCheck {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	appt, ok := f.items[slotKey(date, timeStr, specialistID)]
	return ok && appt.Active, nil
}

func (f *fakeRepo) Insert(_ context.Context, appt models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := slotKey(appt.AppointmentDate, appt.AppointmentTime, appt.SpecialistID)
	if existing, ok := f.items[key]; ok && existing.Active {
		return ErrSlotTaken
	}
	f.items[key] = appt
	return nil
}

func (f *fakeRepo) cancel(date, timeStr, specialistID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := slotKey(date, timeStr, specialistID)
	appt := f.items[key]
	appt.Status = models.AppointmentStatusCancelled
	appt.Active = false
	f.items[key] = appt
}

func bookingRequest(timeStr, specialistID string) Request {
	return Request{
		ServiceID:       "svc1",
		SpecialistID:    specialistID,
		AppointmentDate: "2026-09-07",
		AppointmentTime: timeStr,
		FirstName:       "Ayşe",
		LastName:        "Demir",
		Phone:           "+905551112233",
		Email:           "ayse@example.com",
	}
}

func TestBookDistinctSlots(t *testing.T) {
	svc := NewService(newFakeRepo(), time.UTC)
	ctx := context.Background()

	for _, timeStr := range []string{"09:00", "09:30", "14:00"} {
		appt, err := svc.Book(ctx, bookingRequest(timeStr, "sp1"))
		if err != nil {
			t.Fatalf("book %s: %v", timeStr, err)
		}
		if appt.Status != models.AppointmentStatusPending {
			t.Errorf("status = %q, want pending", appt.Status)
		}
		if !appt.Active {
			t.Error("new appointment should be active")
		}
		if appt.ID == "" {
			t.Error("expected generated id")
		}
	}
}

func TestBookSameSlotRejected(t *testing.T) {
	svc := NewService(newFakeRepo(), time.UTC)
	ctx := context.Background()

	if _, err := svc.Book(ctx, bookingRequest("10:00", "sp1")); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := svc.Book(ctx, bookingRequest("10:00", "sp1")); err != ErrSlotTaken {
		t.Fatalf("second booking err = %v, want ErrSlotTaken", err)
	}
}

func TestBookSameSlotOtherSpecialist(t *testing.T) {
	svc := NewService(newFakeRepo(), time.UTC)
	ctx := context.Background()

	if _, err := svc.Book(ctx, bookingRequest("10:00", "sp1")); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := svc.Book(ctx, bookingRequest("10:00", "sp2")); err != nil {
		t.Fatalf("other specialist booking: %v", err)
	}
}

func TestBookCancelledSlotRebookable(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC)
	ctx := context.Background()

	req := bookingRequest("11:00", "sp1")
	if _, err := svc.Book(ctx, req); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	repo.cancel(req.AppointmentDate, req.AppointmentTime, req.SpecialistID)

	if _, err := svc.Book(ctx, req); err != nil {
		t.Fatalf("rebooking cancelled slot: %v", err)
	}
}

// Two concurrent submissions both pass the existence check; exactly one
// insert may win.
func TestBookConcurrentSameSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.skipCheck = true
	svc := NewService(repo, time.UTC)
	ctx := context.Background()

	const attempts = 8
	errs := make(chan error, attempts)
	var start sync.WaitGroup
	start.Add(1)

	for i := 0; i < attempts; i++ {
		go func() {
			start.Wait()
			_, err := svc.Book(ctx, bookingRequest("12:00", "sp1"))
			errs <- err
		}()
	}
	start.Done()

	var booked, rejected int
	for i := 0; i < attempts; i++ {
		switch err := <-errs; err {
		case nil:
			booked++
		case ErrSlotTaken:
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if booked != 1 {
		t.Errorf("bookings = %d, want exactly 1", booked)
	}
	if rejected != attempts-1 {
		t.Errorf("rejections = %d, want %d", rejected, attempts-1)
	}
}
