package booking

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/FurkanKirci/BeautySalon/internal/models"
)

var ErrSlotTaken = errors.New("slot already booked")

// Request carries the validated fields of a booking submission.
type Request struct {
	ServiceID       string
	SpecialistID    string
	AppointmentDate string
	AppointmentTime string
	FirstName       string
	LastName        string
	Phone           string
	Email           string
	Notes           string
}

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

// Book checks the slot and inserts the appointment. The pre-check gives
// the polite rejection; two submissions racing past it are serialized by
// the repository, which reports the loser as ErrSlotTaken too.
func (s *Service) Book(ctx context.Context, req Request) (models.Appointment, error) {
	taken, err := s.repo.SlotTaken(ctx, req.AppointmentDate, req.AppointmentTime, req.SpecialistID)
	if err != nil {
		return models.Appointment{}, err
	}
	if taken {
		return models.Appointment{}, ErrSlotTaken
	}

	now := time.Now().In(s.location)
	appt := models.Appointment{
		ID:              primitive.NewObjectID().Hex(),
		ServiceID:       req.ServiceID,
		SpecialistID:    req.SpecialistID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Email:           req.Email,
		Notes:           req.Notes,
		Status:          models.AppointmentStatusPending,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, appt); err != nil {
		return models.Appointment{}, err
	}
	return appt, nil
}
