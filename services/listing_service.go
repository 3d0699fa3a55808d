package services

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pet-adoption-api/config"
	"pet-adoption-api/models"
	"pet-adoption-api/monitor"
)

// ListingService moderates pet listings.
type ListingService struct {
	db         *gorm.DB
	dispatcher NotificationDispatcher
	log        *zap.Logger
}

func NewListingService(db *gorm.DB, dispatcher NotificationDispatcher) *ListingService {
	if db == nil {
		db = config.DB
	}
	if dispatcher == nil {
		dispatcher = defaultDispatcher()
	}
	return &ListingService{db: db, dispatcher: dispatcher, log: serviceLogger().Named("listings")}
}

// ListingResult is the pet after a moderation update and whether the owner
// was notified.
type ListingResult struct {
	Pet      models.Pet `json:"pet"`
	Notified bool       `json:"notified"`
}

// SetApproval sets a pet's moderation flag. Only a false to true transition
// notifies the owner; it also makes an unlisted pet available.
func (s *ListingService) SetApproval(ctx context.Context, actor Actor, petID uint, approved bool) (*ListingResult, error) {
	if !actor.IsStaff() {
		return nil, ForbiddenError("only moderators can approve listings")
	}
	if petID == 0 {
		return nil, ValidationError("pet_id is required")
	}

	var result ListingResult
	var batch notificationBatch
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pet, err := lockPet(tx, petID)
		if err != nil {
			return err
		}
		wasApproved := pet.Approved

		now := time.Now()
		updates := map[string]interface{}{"approved": approved, "updated_at": now}
		becameApproved := approved && !wasApproved
		if becameApproved && pet.AdoptionStatus == models.PetUnlisted {
			updates["adoption_status"] = models.PetAvailable
			pet.AdoptionStatus = models.PetAvailable
		}
		if err := tx.Model(&models.Pet{}).Where("pet_id = ?", petID).Updates(updates).Error; err != nil {
			return InternalError("failed to update listing", err)
		}
		pet.Approved = approved
		pet.UpdatedAt = now

		if becameApproved {
			batch.add(pet.OwnerID, EventListingApproval,
				renderMessage(EventListingApproval, map[string]string{"pet_name": pet.Name}))
			if err := batch.flush(tx); err != nil {
				return err
			}
		}

		result = ListingResult{Pet: *pet, Notified: becameApproved}
		return nil
	})
	if err != nil {
		if KindOf(err) == KindInternal {
			s.log.Error("listing approval failed", zap.Uint("pet_id", petID), zap.Error(err))
		}
		return nil, passThrough(err, "failed to update listing")
	}

	monitor.ListingApprovals.WithLabelValues(strconv.FormatBool(approved)).Inc()
	for _, n := range batch.items {
		monitor.NotificationsCreated.WithLabelValues(n.Type).Inc()
	}
	s.dispatcher.Dispatch(ctx, batch.items)
	s.log.Info("listing moderated",
		zap.Uint("pet_id", petID),
		zap.Bool("approved", approved),
		zap.Uint("moderator_id", actor.UserID))
	return &result, nil
}

// ListPending returns pets waiting for moderation, oldest first.
func (s *ListingService) ListPending(ctx context.Context, actor Actor, limit, offset int) ([]models.Pet, int64, error) {
	if !actor.IsStaff() {
		return nil, 0, ForbiddenError("only moderators can view the moderation queue")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := s.db.WithContext(ctx).Model(&models.Pet{}).Where("approved = ?", false)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, InternalError("failed to count pending listings", err)
	}

	var pets []models.Pet
	if err := query.Order("created_at ASC, pet_id ASC").
		Limit(limit).Offset(offset).
		Find(&pets).Error; err != nil {
		return nil, 0, InternalError("failed to fetch pending listings", err)
	}
	return pets, total, nil
}
