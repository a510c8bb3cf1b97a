package specialists

import "time"

type Specialist struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Speciality      string    `bson:"speciality" json:"speciality"`
	Email           string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone           string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Bio             string    `bson:"bio,omitempty" json:"bio,omitempty"`
	ExperienceYears int       `bson:"experienceYears" json:"experienceYears"`
	IsActive        bool      `bson:"isActive" json:"isActive"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

type UpsertRequest struct {
	Name            string `json:"name" validate:"required"`
	Speciality      string `json:"speciality" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"omitempty,phone"`
	Bio             string `json:"bio"`
	ExperienceYears *int   `json:"experienceYears" validate:"omitempty,gte=0"`
}
