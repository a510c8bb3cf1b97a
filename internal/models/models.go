package models

import "time"

const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"

	MessageStatusNew     = "new"
	MessageStatusRead    = "read"
	MessageStatusReplied = "replied"
)

type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	FirstName    string    `bson:"firstName" json:"firstName"`
	LastName     string    `bson:"lastName" json:"lastName"`
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Settings is the single mutable configuration document. Saves are
// full-document upserts; there are no partial patch semantics.
type Settings struct {
	ID                 string    `bson:"_id,omitempty" json:"id"`
	CompanyName        string    `bson:"companyName" json:"companyName"`
	CompanyDescription string    `bson:"companyDescription" json:"companyDescription"`
	Icon               string    `bson:"icon" json:"icon"`
	Address            string    `bson:"address" json:"address"`
	Phone              string    `bson:"phone" json:"phone"`
	Email              string    `bson:"email" json:"email"`
	WorkingHours       string    `bson:"workingHours" json:"workingHours"`
	GoogleMapsURL      string    `bson:"googleMapsUrl" json:"googleMapsUrl"`
	InstagramURL       string    `bson:"instagramUrl" json:"instagramUrl"`
	FacebookURL        string    `bson:"facebookUrl" json:"facebookUrl"`
	TwitterURL         string    `bson:"twitterUrl" json:"twitterUrl"`
	ServiceCategories  []string  `bson:"serviceCategories" json:"serviceCategories"`
	CreatedAt          time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt"`
}

type Service struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Duration    int       `bson:"duration" json:"duration"`
	Price       float64   `bson:"price" json:"price"`
	Category    string    `bson:"category" json:"category"`
	Image       *string   `bson:"image" json:"image"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Active mirrors Status != cancelled. The partial unique index on
// (appointmentDate, appointmentTime, specialistId) filters on it,
// since partialFilterExpression cannot express a $ne on status;
// every status write must keep the two fields in sync.
type Appointment struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	ServiceID       string    `bson:"serviceId" json:"serviceId"`
	SpecialistID    string    `bson:"specialistId" json:"specialistId"`
	AppointmentDate string    `bson:"appointmentDate" json:"appointmentDate"`
	AppointmentTime string    `bson:"appointmentTime" json:"appointmentTime"`
	FirstName       string    `bson:"firstName" json:"firstName"`
	LastName        string    `bson:"lastName" json:"lastName"`
	Phone           string    `bson:"phone" json:"phone"`
	Email           string    `bson:"email" json:"email"`
	Notes           string    `bson:"notes" json:"notes"`
	Status          string    `bson:"status" json:"status"`
	Active          bool      `bson:"active" json:"-"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

type ContactMessage struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	FirstName string    `bson:"firstName" json:"firstName"`
	LastName  string    `bson:"lastName" json:"lastName"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone" json:"phone"`
	Subject   string    `bson:"subject" json:"subject"`
	Message   string    `bson:"message" json:"message"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
