package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"pet-adoption-api/config"
	"pet-adoption-api/models"
)

type PetService struct {
	db *gorm.DB
}

func NewPetService(db *gorm.DB) *PetService {
	if db == nil {
		db = config.DB
	}
	return &PetService{db: db}
}

// PetFilter narrows the public pet listing.
type PetFilter struct {
	Species string
	City    string
	Limit   int
	Offset  int
}

// PetInput holds the owner-editable fields of a pet. Status and approval are
// never taken from it.
type PetInput struct {
	Name        string
	Species     string
	Breed       *string
	AgeMonths   *int
	City        *string
	Description *string
	ImageURL    *string
}

func (in *PetInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Species = strings.ToLower(strings.TrimSpace(in.Species))
	if in.Name == "" {
		return ValidationError("name is required")
	}
	if in.Species == "" {
		return ValidationError("species is required")
	}
	if in.AgeMonths != nil && *in.AgeMonths < 0 {
		return ValidationError("age_months cannot be negative")
	}
	return nil
}

// ListAvailable returns approved pets that can still be adopted or fostered.
func (s *PetService) ListAvailable(ctx context.Context, f PetFilter) ([]models.Pet, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	query := s.db.WithContext(ctx).Model(&models.Pet{}).
		Where("approved = ? AND adoption_status = ?", true, models.PetAvailable)
	if species := strings.ToLower(strings.TrimSpace(f.Species)); species != "" {
		query = query.Where("species = ?", species)
	}
	if city := strings.TrimSpace(f.City); city != "" {
		query = query.Where("city = ?", city)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, InternalError("failed to count pets", err)
	}

	var pets []models.Pet
	if err := query.Order("created_at DESC, pet_id DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&pets).Error; err != nil {
		return nil, 0, InternalError("failed to fetch pets", err)
	}
	return pets, total, nil
}

// Get returns a pet with its owner. Unapproved pets are only visible to the
// owner and staff.
func (s *PetService) Get(ctx context.Context, actor Actor, petID uint) (*models.Pet, error) {
	var pet models.Pet
	if err := s.db.WithContext(ctx).
		Preload("Owner").
		Where("pet_id = ?", petID).
		Take(&pet).Error; err != nil {
		return nil, lookupError(err, "pet not found")
	}
	if !pet.Approved && !actor.IsStaff() && actor.UserID != pet.OwnerID {
		return nil, NotFoundError("pet not found")
	}
	return &pet, nil
}

func (s *PetService) ListByOwner(ctx context.Context, ownerID uint) ([]models.Pet, error) {
	var pets []models.Pet
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, pet_id DESC").
		Find(&pets).Error; err != nil {
		return nil, InternalError("failed to fetch pets", err)
	}
	return pets, nil
}

// Create lists a new pet. It starts unlisted and unapproved until a
// moderator approves it.
func (s *PetService) Create(ctx context.Context, actor Actor, in PetInput) (*models.Pet, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	pet := models.Pet{
		OwnerID:        actor.UserID,
		Name:           in.Name,
		Species:        in.Species,
		Breed:          in.Breed,
		AgeMonths:      in.AgeMonths,
		City:           in.City,
		Description:    in.Description,
		ImageURL:       in.ImageURL,
		AdoptionStatus: models.PetUnlisted,
		Approved:       false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.db.WithContext(ctx).Create(&pet).Error; err != nil {
		return nil, InternalError("failed to create pet", err)
	}
	return &pet, nil
}

// Update edits the descriptive fields of the caller's pet.
func (s *PetService) Update(ctx context.Context, actor Actor, petID uint, in PetInput) (*models.Pet, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var pet models.Pet
	if err := db.Where("pet_id = ?", petID).Take(&pet).Error; err != nil {
		return nil, lookupError(err, "pet not found")
	}
	if !actor.owns(pet.OwnerID) {
		return nil, ForbiddenError("only the owner can edit this pet")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"name":        in.Name,
		"species":     in.Species,
		"breed":       in.Breed,
		"age_months":  in.AgeMonths,
		"city":        in.City,
		"description": in.Description,
		"image_url":   in.ImageURL,
		"updated_at":  now,
	}
	if err := db.Model(&models.Pet{}).Where("pet_id = ?", petID).Updates(updates).Error; err != nil {
		return nil, InternalError("failed to update pet", err)
	}

	pet.Name = in.Name
	pet.Species = in.Species
	pet.Breed = in.Breed
	pet.AgeMonths = in.AgeMonths
	pet.City = in.City
	pet.Description = in.Description
	pet.ImageURL = in.ImageURL
	pet.UpdatedAt = now
	return &pet, nil
}
