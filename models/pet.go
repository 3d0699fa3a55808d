package models

import "time"

// Pet adoption statuses.
const (
	PetUnlisted  = "unlisted"
	PetAvailable = "available"
	PetAdopted   = "adopted"
	PetFostered  = "fostered"
)

type Pet struct {
	PetID          uint      `gorm:"primaryKey;column:pet_id" json:"pet_id"`
	OwnerID        uint      `gorm:"column:owner_id;index" json:"owner_id"`
	Name           string    `gorm:"column:name;size:120" json:"name"`
	Species        string    `gorm:"column:species;size:40;index" json:"species"`
	Breed          *string   `gorm:"column:breed;size:80" json:"breed,omitempty"`
	AgeMonths      *int      `gorm:"column:age_months" json:"age_months,omitempty"`
	City           *string   `gorm:"column:city;size:80;index" json:"city,omitempty"`
	Description    *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	ImageURL       *string   `gorm:"column:image_url;size:500" json:"image_url,omitempty"`
	AdoptionStatus string    `gorm:"column:adoption_status;size:20;default:unlisted" json:"adoption_status"`
	Approved       bool      `gorm:"column:approved" json:"approved"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID;references:UserID" json:"owner,omitempty"`
}

func (Pet) TableName() string {
	return "pets"
}

// IsPetStatus reports whether s is one of the known adoption statuses.
func IsPetStatus(s string) bool {
	switch s {
	case PetUnlisted, PetAvailable, PetAdopted, PetFostered:
		return true
	}
	return false
}
