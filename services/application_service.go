package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pet-adoption-api/config"
	"pet-adoption-api/models"
	"pet-adoption-api/monitor"
)

// ApplicationService implements intake and decisions for adoption and foster
// applications. Every operation runs in a single transaction; notifications
// are written inside it and emailed after commit.
type ApplicationService struct {
	db         *gorm.DB
	dispatcher NotificationDispatcher
	log        *zap.Logger
}

func NewApplicationService(db *gorm.DB, dispatcher NotificationDispatcher) *ApplicationService {
	if db == nil {
		db = config.DB
	}
	if dispatcher == nil {
		dispatcher = defaultDispatcher()
	}
	return &ApplicationService{db: db, dispatcher: dispatcher, log: serviceLogger().Named("applications")}
}

// ApplicationInput is the applicant-supplied part of a new application.
type ApplicationInput struct {
	UserID              uint
	PetID               uint
	ApplicantName       string
	Address             string
	Phone               string
	HouseholdSize       int
	HasChildren         bool
	HasOtherPets        bool
	Experience          *string
	Reason              *string
	FosterDurationWeeks *int
	TermsAgreed         bool
}

func (in *ApplicationInput) Validate(wf Workflow) error {
	if !wf.Valid() {
		return ValidationError("unknown application workflow")
	}
	if in.UserID == 0 {
		return ValidationError("user_id is required")
	}
	if in.PetID == 0 {
		return ValidationError("pet_id is required")
	}
	in.ApplicantName = strings.TrimSpace(in.ApplicantName)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.ApplicantName == "" {
		return ValidationError("applicant_name is required")
	}
	if in.Address == "" {
		return ValidationError("address is required")
	}
	if in.HouseholdSize < 1 {
		return ValidationError("household_size must be at least 1")
	}
	if !in.TermsAgreed {
		return ValidationError("terms must be agreed to")
	}
	if wf == FosterWorkflow {
		if in.FosterDurationWeeks != nil && *in.FosterDurationWeeks <= 0 {
			return ValidationError("foster_duration_weeks must be positive")
		}
	} else {
		in.FosterDurationWeeks = nil
	}
	return nil
}

// Submit creates a pending application and notifies the applicant and the
// pet's owner. A missing pet rolls the insert back.
func (s *ApplicationService) Submit(ctx context.Context, wf Workflow, actor Actor, in ApplicationInput) (*models.Application, error) {
	if err := in.Validate(wf); err != nil {
		return nil, err
	}
	if !actor.owns(in.UserID) {
		return nil, ForbiddenError("cannot apply on behalf of another user")
	}

	app := models.Application{
		PetID:               in.PetID,
		UserID:              in.UserID,
		Status:              models.ApplicationPending,
		ApplicantName:       in.ApplicantName,
		Address:             in.Address,
		Phone:               in.Phone,
		HouseholdSize:       in.HouseholdSize,
		HasChildren:         in.HasChildren,
		HasOtherPets:        in.HasOtherPets,
		Experience:          in.Experience,
		Reason:              in.Reason,
		FosterDurationWeeks: in.FosterDurationWeeks,
		TermsAgreed:         true,
		CreatedAt:           time.Now(),
	}

	var batch notificationBatch
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(wf.Table()).Create(&app).Error; err != nil {
			return InternalError("failed to create application", err)
		}

		var pet models.Pet
		if err := tx.Select("pet_id", "owner_id", "name", "adoption_status").
			Where("pet_id = ?", in.PetID).
			Take(&pet).Error; err != nil {
			return lookupError(err, "pet not found")
		}
		if pet.OwnerID == in.UserID {
			return ValidationError("cannot apply for your own pet")
		}
		if pet.AdoptionStatus == models.PetAdopted || pet.AdoptionStatus == models.PetFostered {
			return ConflictError("pet is no longer available")
		}

		data := map[string]string{"kind": string(wf), "pet_name": pet.Name}
		batch.add(in.UserID, wf.NotificationType(EventSubmitted), renderMessage(EventSubmitted, data))
		batch.add(pet.OwnerID, wf.NotificationType(EventReceived), renderMessage(EventReceived, data))
		return batch.flush(tx)
	})
	if err != nil {
		s.logFailure("submit", wf, err, zap.Uint("pet_id", in.PetID), zap.Uint("user_id", in.UserID))
		return nil, passThrough(err, "failed to submit application")
	}

	monitor.ApplicationsSubmitted.WithLabelValues(string(wf)).Inc()
	s.committed(ctx, batch)
	s.log.Info("application submitted",
		zap.String("workflow", string(wf)),
		zap.Uint("application_id", app.ApplicationID),
		zap.Uint("pet_id", app.PetID))
	return &app, nil
}

// DecisionResult describes the outcome of an approval.
type DecisionResult struct {
	Application   models.Application `json:"application"`
	Pet           models.Pet         `json:"pet"`
	RejectedIDs   []uint             `json:"rejected_application_ids"`
	Notifications int                `json:"notifications"`
}

// Approve approves a pending application, moves the pet to its terminal
// status and rejects every other pending application for the same pet.
// The pet row is locked first so concurrent decisions for one pet serialize.
func (s *ApplicationService) Approve(ctx context.Context, wf Workflow, actor Actor, applicationID uint) (*DecisionResult, error) {
	if !wf.Valid() {
		return nil, ValidationError("unknown application workflow")
	}
	if applicationID == 0 {
		return nil, ValidationError("application id is required")
	}

	var result DecisionResult
	var batch notificationBatch
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app models.Application
		if err := tx.Table(wf.Table()).Where("application_id = ?", applicationID).Take(&app).Error; err != nil {
			return lookupError(err, "application not found")
		}

		pet, err := lockPet(tx, app.PetID)
		if err != nil {
			return err
		}
		if !actor.owns(pet.OwnerID) {
			return ForbiddenError("only the pet owner can decide on applications")
		}

		now := time.Now()
		res := tx.Table(wf.Table()).
			Where("application_id = ? AND status = ?", applicationID, models.ApplicationPending).
			Updates(map[string]interface{}{"status": models.ApplicationApproved, "decided_at": now})
		if res.Error != nil {
			return InternalError("failed to approve application", res.Error)
		}
		if res.RowsAffected == 0 {
			return NotFoundError("application not found or already decided")
		}
		if pet.AdoptionStatus == models.PetAdopted || pet.AdoptionStatus == models.PetFostered {
			return ConflictError("pet is no longer available")
		}
		app.Status = models.ApplicationApproved
		app.DecidedAt = &now

		var approvedElsewhere int64
		if err := tx.Table(wf.Table()).
			Where("pet_id = ? AND application_id <> ? AND status = ?", pet.PetID, applicationID, models.ApplicationApproved).
			Count(&approvedElsewhere).Error; err != nil {
			return InternalError("failed to check approved applications", err)
		}
		if approvedElsewhere > 0 {
			return ConflictError("pet already has an approved application")
		}

		newStatus := wf.PetStatusOnApproval()
		if err := tx.Model(&models.Pet{}).Where("pet_id = ?", pet.PetID).
			Updates(map[string]interface{}{"adoption_status": newStatus, "updated_at": now}).Error; err != nil {
			return InternalError("failed to update pet status", err)
		}
		pet.AdoptionStatus = newStatus
		pet.UpdatedAt = now

		var siblings []models.Application
		if err := tx.Table(wf.Table()).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("application_id", "user_id").
			Where("pet_id = ? AND application_id <> ? AND status = ?", pet.PetID, applicationID, models.ApplicationPending).
			Find(&siblings).Error; err != nil {
			return InternalError("failed to load competing applications", err)
		}

		rejected := make([]uint, 0, len(siblings))
		for _, sib := range siblings {
			rejected = append(rejected, sib.ApplicationID)
		}
		if len(rejected) > 0 {
			if err := tx.Table(wf.Table()).
				Where("application_id IN ?", rejected).
				Updates(map[string]interface{}{"status": models.ApplicationRejected, "decided_at": now}).Error; err != nil {
				return InternalError("failed to reject competing applications", err)
			}
		}

		data := map[string]string{"kind": string(wf), "pet_name": pet.Name}
		batch.add(app.UserID, wf.NotificationType(EventApproved), renderMessage(EventApproved, data))
		for _, sib := range siblings {
			batch.add(sib.UserID, wf.NotificationType(EventRejected), renderMessage(EventRejected, data))
		}
		if err := batch.flush(tx); err != nil {
			return err
		}

		result = DecisionResult{
			Application:   app,
			Pet:           *pet,
			RejectedIDs:   rejected,
			Notifications: len(batch.items),
		}
		return nil
	})
	if err != nil {
		s.logFailure("approve", wf, err, zap.Uint("application_id", applicationID))
		return nil, passThrough(err, "failed to approve application")
	}

	monitor.ApplicationDecisions.WithLabelValues(string(wf), models.ApplicationApproved).Inc()
	if n := len(result.RejectedIDs); n > 0 {
		monitor.ApplicationDecisions.WithLabelValues(string(wf), "auto_rejected").Add(float64(n))
	}
	s.committed(ctx, batch)
	s.log.Info("application approved",
		zap.String("workflow", string(wf)),
		zap.Uint("application_id", applicationID),
		zap.Uint("pet_id", result.Pet.PetID),
		zap.Int("rejected", len(result.RejectedIDs)))
	return &result, nil
}

// Reject rejects a pending application and notifies the applicant. Decided
// applications cannot be rejected.
func (s *ApplicationService) Reject(ctx context.Context, wf Workflow, actor Actor, applicationID uint) (*models.Application, error) {
	if !wf.Valid() {
		return nil, ValidationError("unknown application workflow")
	}
	if applicationID == 0 {
		return nil, ValidationError("application id is required")
	}

	var app models.Application
	var batch notificationBatch
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(wf.Table()).Where("application_id = ?", applicationID).Take(&app).Error; err != nil {
			return lookupError(err, "application not found")
		}

		pet, err := lockPet(tx, app.PetID)
		if err != nil {
			return err
		}
		if !actor.owns(pet.OwnerID) {
			return ForbiddenError("only the pet owner can decide on applications")
		}
		if app.Status != models.ApplicationPending {
			return ConflictError("application is already " + app.Status)
		}

		now := time.Now()
		res := tx.Table(wf.Table()).
			Where("application_id = ? AND status = ?", applicationID, models.ApplicationPending).
			Updates(map[string]interface{}{"status": models.ApplicationRejected, "decided_at": now})
		if res.Error != nil {
			return InternalError("failed to reject application", res.Error)
		}
		if res.RowsAffected == 0 {
			return ConflictError("application is no longer pending")
		}
		app.Status = models.ApplicationRejected
		app.DecidedAt = &now

		data := map[string]string{"kind": string(wf), "pet_name": pet.Name}
		batch.add(app.UserID, wf.NotificationType(EventRejected), renderMessage(EventRejected, data))
		return batch.flush(tx)
	})
	if err != nil {
		s.logFailure("reject", wf, err, zap.Uint("application_id", applicationID))
		return nil, passThrough(err, "failed to reject application")
	}

	monitor.ApplicationDecisions.WithLabelValues(string(wf), models.ApplicationRejected).Inc()
	s.committed(ctx, batch)
	return &app, nil
}

// ListForPet returns all applications for a pet, oldest first. Only the
// owner or an admin may see them.
func (s *ApplicationService) ListForPet(ctx context.Context, wf Workflow, actor Actor, petID uint) ([]models.Application, error) {
	db := s.db.WithContext(ctx)

	var pet models.Pet
	if err := db.Select("pet_id", "owner_id").Where("pet_id = ?", petID).Take(&pet).Error; err != nil {
		return nil, lookupError(err, "pet not found")
	}
	if !actor.owns(pet.OwnerID) {
		return nil, ForbiddenError("only the pet owner can view its applications")
	}

	var items []models.Application
	if err := db.Table(wf.Table()).Where("pet_id = ?", petID).
		Order("created_at ASC, application_id ASC").Find(&items).Error; err != nil {
		return nil, InternalError("failed to fetch applications", err)
	}
	return items, nil
}

// ListForUser returns the applications a user has submitted, newest first.
func (s *ApplicationService) ListForUser(ctx context.Context, wf Workflow, userID uint) ([]models.Application, error) {
	var items []models.Application
	if err := s.db.WithContext(ctx).Table(wf.Table()).Where("user_id = ?", userID).
		Order("created_at DESC, application_id DESC").Find(&items).Error; err != nil {
		return nil, InternalError("failed to fetch applications", err)
	}
	return items, nil
}

func (s *ApplicationService) committed(ctx context.Context, batch notificationBatch) {
	for _, n := range batch.items {
		monitor.NotificationsCreated.WithLabelValues(n.Type).Inc()
	}
	s.dispatcher.Dispatch(ctx, batch.items)
}

func (s *ApplicationService) logFailure(op string, wf Workflow, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("op", op), zap.String("workflow", string(wf)), zap.Error(err))
	if KindOf(err) == KindInternal {
		s.log.Error("application operation failed", fields...)
		return
	}
	s.log.Debug("application operation refused", fields...)
}

func lockPet(tx *gorm.DB, petID uint) (*models.Pet, error) {
	var pet models.Pet
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("pet_id = ?", petID).
		Take(&pet).Error; err != nil {
		return nil, lookupError(err, "pet not found")
	}
	return &pet, nil
}
