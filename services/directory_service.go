package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"pet-adoption-api/config"
	"pet-adoption-api/models"
)

// DirectoryService serves the shelter, vet and qurbani-animal listings.
type DirectoryService struct {
	db *gorm.DB
}

func NewDirectoryService(db *gorm.DB) *DirectoryService {
	if db == nil {
		db = config.DB
	}
	return &DirectoryService{db: db}
}

type DirectoryFilter struct {
	City   string
	Limit  int
	Offset int
}

func (s *DirectoryService) scoped(ctx context.Context, model interface{}, f DirectoryFilter) *gorm.DB {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	q := s.db.WithContext(ctx).Model(model)
	if city := strings.TrimSpace(f.City); city != "" {
		q = q.Where("city = ?", city)
	}
	return q.Limit(f.Limit).Offset(f.Offset)
}

func (s *DirectoryService) ListShelters(ctx context.Context, f DirectoryFilter) ([]models.Shelter, error) {
	var items []models.Shelter
	if err := s.scoped(ctx, &models.Shelter{}, f).Order("name ASC").Find(&items).Error; err != nil {
		return nil, InternalError("failed to fetch shelters", err)
	}
	return items, nil
}

func (s *DirectoryService) GetShelter(ctx context.Context, id uint) (*models.Shelter, error) {
	var item models.Shelter
	if err := s.db.WithContext(ctx).Where("shelter_id = ?", id).Take(&item).Error; err != nil {
		return nil, lookupError(err, "shelter not found")
	}
	return &item, nil
}

func (s *DirectoryService) CreateShelter(ctx context.Context, actor Actor, item models.Shelter) (*models.Shelter, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.City = strings.TrimSpace(item.City)
	if item.Name == "" || item.City == "" {
		return nil, ValidationError("name and city are required")
	}
	item.ShelterID = 0
	item.CreatedBy = actor.UserID
	item.CreatedAt = time.Now()
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, InternalError("failed to create shelter", err)
	}
	return &item, nil
}

// ListVets returns verified vets only.
func (s *DirectoryService) ListVets(ctx context.Context, f DirectoryFilter) ([]models.VetProfile, error) {
	var items []models.VetProfile
	if err := s.scoped(ctx, &models.VetProfile{}, f).
		Where("verified = ?", true).
		Order("clinic_name ASC").
		Find(&items).Error; err != nil {
		return nil, InternalError("failed to fetch vets", err)
	}
	return items, nil
}

func (s *DirectoryService) GetVet(ctx context.Context, id uint) (*models.VetProfile, error) {
	var item models.VetProfile
	if err := s.db.WithContext(ctx).Where("vet_id = ?", id).Take(&item).Error; err != nil {
		return nil, lookupError(err, "vet not found")
	}
	return &item, nil
}

// CreateVet registers the caller as a vet. Profiles start unverified and a
// user can hold only one.
func (s *DirectoryService) CreateVet(ctx context.Context, actor Actor, item models.VetProfile) (*models.VetProfile, error) {
	item.ClinicName = strings.TrimSpace(item.ClinicName)
	item.City = strings.TrimSpace(item.City)
	if item.ClinicName == "" || item.City == "" {
		return nil, ValidationError("clinic_name and city are required")
	}

	db := s.db.WithContext(ctx)
	var existing models.VetProfile
	err := db.Select("vet_id").Where("user_id = ?", actor.UserID).Take(&existing).Error
	if err == nil {
		return nil, ConflictError("vet profile already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, InternalError("failed to check vet profile", err)
	}

	item.VetID = 0
	item.UserID = actor.UserID
	item.Verified = false
	item.CreatedAt = time.Now()
	if err := db.Create(&item).Error; err != nil {
		return nil, InternalError("failed to create vet profile", err)
	}
	return &item, nil
}

// ListQurbani returns unsold animals, cheapest first.
func (s *DirectoryService) ListQurbani(ctx context.Context, f DirectoryFilter) ([]models.QurbaniAnimal, error) {
	var items []models.QurbaniAnimal
	if err := s.scoped(ctx, &models.QurbaniAnimal{}, f).
		Where("sold = ?", false).
		Order("price ASC, animal_id ASC").
		Find(&items).Error; err != nil {
		return nil, InternalError("failed to fetch animals", err)
	}
	return items, nil
}

func (s *DirectoryService) GetQurbani(ctx context.Context, id uint) (*models.QurbaniAnimal, error) {
	var item models.QurbaniAnimal
	if err := s.db.WithContext(ctx).Where("animal_id = ?", id).Take(&item).Error; err != nil {
		return nil, lookupError(err, "animal not found")
	}
	return &item, nil
}

func (s *DirectoryService) CreateQurbani(ctx context.Context, actor Actor, item models.QurbaniAnimal) (*models.QurbaniAnimal, error) {
	item.Species = strings.ToLower(strings.TrimSpace(item.Species))
	item.City = strings.TrimSpace(item.City)
	if item.Species == "" || item.City == "" {
		return nil, ValidationError("species and city are required")
	}
	if item.Price <= 0 {
		return nil, ValidationError("price must be positive")
	}
	if item.WeightKg < 0 {
		return nil, ValidationError("weight_kg cannot be negative")
	}
	item.AnimalID = 0
	item.SellerID = actor.UserID
	item.Sold = false
	item.CreatedAt = time.Now()
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, InternalError("failed to create listing", err)
	}
	return &item, nil
}
