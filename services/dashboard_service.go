package services

import (
	"context"

	"gorm.io/gorm"

	"pet-adoption-api/config"
	"pet-adoption-api/models"
)

// DashboardService aggregates the counters shown on the staff and user
// dashboards.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	if db == nil {
		db = config.DB
	}
	return &DashboardService{db: db}
}

// StatusCounts maps a status to its row count.
type StatusCounts map[string]int64

type AdminDashboard struct {
	Users           int64                   `json:"users"`
	PetsByStatus    StatusCounts            `json:"pets_by_status"`
	PendingListings int64                   `json:"pending_listings"`
	Applications    map[string]StatusCounts `json:"applications"`
	Shelters        int64                   `json:"shelters"`
	UnverifiedVets  int64                   `json:"unverified_vets"`
	QurbaniForSale  int64                   `json:"qurbani_for_sale"`
}

type UserDashboard struct {
	MyPets              StatusCounts            `json:"my_pets"`
	MyApplications      map[string]StatusCounts `json:"my_applications"`
	ReceivedPending     int64                   `json:"received_pending"`
	UnreadNotifications int64                   `json:"unread_notifications"`
}

type statusRow struct {
	Status string `gorm:"column:status"`
	Total  int64  `gorm:"column:total"`
}

func groupCounts(q *gorm.DB, column string) (StatusCounts, error) {
	var rows []statusRow
	if err := q.Select(column + " AS status, COUNT(*) AS total").Group(column).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := StatusCounts{}
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}

// Admin returns site-wide counters. Staff only.
func (s *DashboardService) Admin(ctx context.Context, actor Actor) (*AdminDashboard, error) {
	if !actor.IsStaff() {
		return nil, ForbiddenError("only moderators and admins can view the dashboard")
	}
	db := s.db.WithContext(ctx)
	stats := AdminDashboard{Applications: map[string]StatusCounts{}}

	if err := db.Model(&models.User{}).Count(&stats.Users).Error; err != nil {
		return nil, InternalError("failed to count users", err)
	}
	pets, err := groupCounts(db.Model(&models.Pet{}), "adoption_status")
	if err != nil {
		return nil, InternalError("failed to count pets", err)
	}
	stats.PetsByStatus = pets
	if err := db.Model(&models.Pet{}).Where("approved = ?", false).Count(&stats.PendingListings).Error; err != nil {
		return nil, InternalError("failed to count pending listings", err)
	}
	for _, wf := range []Workflow{AdoptionWorkflow, FosterWorkflow} {
		counts, err := groupCounts(db.Table(wf.Table()), "status")
		if err != nil {
			return nil, InternalError("failed to count applications", err)
		}
		stats.Applications[string(wf)] = counts
	}
	if err := db.Model(&models.Shelter{}).Count(&stats.Shelters).Error; err != nil {
		return nil, InternalError("failed to count shelters", err)
	}
	if err := db.Model(&models.VetProfile{}).Where("verified = ?", false).Count(&stats.UnverifiedVets).Error; err != nil {
		return nil, InternalError("failed to count vets", err)
	}
	if err := db.Model(&models.QurbaniAnimal{}).Where("sold = ?", false).Count(&stats.QurbaniForSale).Error; err != nil {
		return nil, InternalError("failed to count qurbani listings", err)
	}
	return &stats, nil
}

// User returns the caller's own counters.
func (s *DashboardService) User(ctx context.Context, actor Actor) (*UserDashboard, error) {
	db := s.db.WithContext(ctx)
	stats := UserDashboard{MyApplications: map[string]StatusCounts{}}

	pets, err := groupCounts(db.Model(&models.Pet{}).Where("owner_id = ?", actor.UserID), "adoption_status")
	if err != nil {
		return nil, InternalError("failed to count pets", err)
	}
	stats.MyPets = pets

	for _, wf := range []Workflow{AdoptionWorkflow, FosterWorkflow} {
		counts, err := groupCounts(db.Table(wf.Table()).Where("user_id = ?", actor.UserID), "status")
		if err != nil {
			return nil, InternalError("failed to count applications", err)
		}
		stats.MyApplications[string(wf)] = counts

		var received int64
		if err := db.Table(wf.Table()).
			Joins("JOIN pets ON pets.pet_id = "+wf.Table()+".pet_id").
			Where("pets.owner_id = ? AND "+wf.Table()+".status = ?", actor.UserID, models.ApplicationPending).
			Count(&received).Error; err != nil {
			return nil, InternalError("failed to count received applications", err)
		}
		stats.ReceivedPending += received
	}

	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", actor.UserID, false).
		Count(&stats.UnreadNotifications).Error; err != nil {
		return nil, InternalError("failed to count notifications", err)
	}
	return &stats, nil
}
