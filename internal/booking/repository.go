package booking

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/FurkanKirci/BeautySalon/internal/models"
)

// Repository persists appointments. Insert must return ErrSlotTaken
// when the active-slot unique index rejects the write, so the service
// treats an index collision and a pre-check hit the same way.
type Repository interface {
	SlotTaken(ctx context.Context, date, timeStr, specialistID string) (bool, error)
	Insert(ctx context.Context, appt models.Appointment) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) SlotTaken(ctx context.Context, date, timeStr, specialistID string) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{
		"appointmentDate": date,
		"appointmentTime": timeStr,
		"specialistId":    specialistID,
		"status":          bson.M{"$ne": models.AppointmentStatusCancelled},
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *MongoRepository) Insert(ctx context.Context, appt models.Appointment) error {
	_, err := r.col.InsertOne(ctx, appt)
	if mongo.IsDuplicateKeyError(err) {
		return ErrSlotTaken
	}
	return err
}
