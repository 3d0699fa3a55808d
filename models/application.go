package models

import "time"

// Application statuses. pending is the only state that may change.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

const (
	AdoptionApplicationsTable = "adoption_applications"
	FosterApplicationsTable   = "foster_applications"
)

// Application is a request by a user to adopt or foster a pet. Adoption and
// foster applications share this shape and live in separate tables, so
// queries always name the table explicitly.
type Application struct {
	ApplicationID       uint       `gorm:"primaryKey;column:application_id" json:"application_id"`
	PetID               uint       `gorm:"column:pet_id" json:"pet_id"`
	UserID              uint       `gorm:"column:user_id" json:"user_id"`
	Status              string     `gorm:"column:status;size:20" json:"status"`
	ApplicantName       string     `gorm:"column:applicant_name;size:120" json:"applicant_name"`
	Address             string     `gorm:"column:address;size:255" json:"address"`
	Phone               string     `gorm:"column:phone;size:40" json:"phone"`
	HouseholdSize       int        `gorm:"column:household_size" json:"household_size"`
	HasChildren         bool       `gorm:"column:has_children" json:"has_children"`
	HasOtherPets        bool       `gorm:"column:has_other_pets" json:"has_other_pets"`
	Experience          *string    `gorm:"column:experience;type:text" json:"experience,omitempty"`
	Reason              *string    `gorm:"column:reason;type:text" json:"reason,omitempty"`
	FosterDurationWeeks *int       `gorm:"column:foster_duration_weeks" json:"foster_duration_weeks,omitempty"`
	TermsAgreed         bool       `gorm:"column:terms_agreed" json:"terms_agreed"`
	CreatedAt           time.Time  `gorm:"column:created_at" json:"created_at"`
	DecidedAt           *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
}
