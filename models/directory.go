package models

import "time"

// Shelter is a rescue organisation listed in the directory.
type Shelter struct {
	ShelterID uint      `gorm:"primaryKey;column:shelter_id" json:"shelter_id"`
	Name      string    `gorm:"column:name;size:160" json:"name"`
	City      string    `gorm:"column:city;size:80;index" json:"city"`
	Address   string    `gorm:"column:address;size:255" json:"address"`
	Phone     *string   `gorm:"column:phone;size:40" json:"phone,omitempty"`
	Email     *string   `gorm:"column:email;size:190" json:"email,omitempty"`
	CreatedBy uint      `gorm:"column:created_by" json:"created_by"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Shelter) TableName() string { return "shelters" }

type VetProfile struct {
	VetID         uint      `gorm:"primaryKey;column:vet_id" json:"vet_id"`
	UserID        uint      `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	ClinicName    string    `gorm:"column:clinic_name;size:160" json:"clinic_name"`
	Qualification string    `gorm:"column:qualification;size:160" json:"qualification"`
	City          string    `gorm:"column:city;size:80;index" json:"city"`
	Phone         *string   `gorm:"column:phone;size:40" json:"phone,omitempty"`
	Verified      bool      `gorm:"column:verified" json:"verified"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (VetProfile) TableName() string { return "vet_profiles" }

// QurbaniAnimal is a livestock listing for the Eid sale season.
type QurbaniAnimal struct {
	AnimalID  uint      `gorm:"primaryKey;column:animal_id" json:"animal_id"`
	SellerID  uint      `gorm:"column:seller_id;index" json:"seller_id"`
	Species   string    `gorm:"column:species;size:40" json:"species"`
	Breed     *string   `gorm:"column:breed;size:80" json:"breed,omitempty"`
	WeightKg  float64   `gorm:"column:weight_kg" json:"weight_kg"`
	Price     float64   `gorm:"column:price" json:"price"`
	City      string    `gorm:"column:city;size:80;index" json:"city"`
	Sold      bool      `gorm:"column:sold" json:"sold"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (QurbaniAnimal) TableName() string { return "qurbani_animals" }
