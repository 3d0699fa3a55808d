package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pet-adoption-api/services"
)

type ApplicationRequest struct {
	UserID              uint    `json:"user_id" binding:"required"`
	PetID               uint    `json:"pet_id" binding:"required"`
	ApplicantName       string  `json:"applicant_name" binding:"required"`
	Address             string  `json:"address" binding:"required"`
	Phone               string  `json:"phone"`
	HouseholdSize       int     `json:"household_size" binding:"required,min=1"`
	HasChildren         bool    `json:"has_children"`
	HasOtherPets        bool    `json:"has_other_pets"`
	Experience          *string `json:"experience"`
	Reason              *string `json:"reason"`
	FosterDurationWeeks *int    `json:"foster_duration_weeks"`
	TermsAgreed         bool    `json:"terms_agreed"`
}

func (r ApplicationRequest) input() services.ApplicationInput {
	return services.ApplicationInput{
		UserID:              r.UserID,
		PetID:               r.PetID,
		ApplicantName:       r.ApplicantName,
		Address:             r.Address,
		Phone:               r.Phone,
		HouseholdSize:       r.HouseholdSize,
		HasChildren:         r.HasChildren,
		HasOtherPets:        r.HasOtherPets,
		Experience:          r.Experience,
		Reason:              r.Reason,
		FosterDurationWeeks: r.FosterDurationWeeks,
		TermsAgreed:         r.TermsAgreed,
	}
}

// SubmitApplication handles POST /adoption-application and /foster-application.
func SubmitApplication(wf services.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			return
		}

		var req ApplicationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		app, err := services.NewApplicationService(nil, nil).Submit(c.Request.Context(), wf, actor, req.input())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, app)
	}
}

// AcceptApplication handles POST /accept-<workflow>-application/:id.
func AcceptApplication(wf services.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		result, err := services.NewApplicationService(nil, nil).Approve(c.Request.Context(), wf, actor, id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":                  "Application approved",
			"application":              result.Application,
			"pet":                      result.Pet,
			"rejected_application_ids": result.RejectedIDs,
			"notifications":            result.Notifications,
		})
	}
}

// RejectApplication handles POST /reject-<workflow>-application/:id.
func RejectApplication(wf services.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		app, err := services.NewApplicationService(nil, nil).Reject(c.Request.Context(), wf, actor, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, app)
	}
}

// GetPetApplications lists a pet's applications for its owner.
func GetPetApplications(wf services.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			return
		}
		petID, ok := parseID(c, "id")
		if !ok {
			return
		}

		items, err := services.NewApplicationService(nil, nil).ListForPet(c.Request.Context(), wf, actor, petID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

// GetMyApplications lists the caller's own applications.
func GetMyApplications(wf services.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			return
		}

		items, err := services.NewApplicationService(nil, nil).ListForUser(c.Request.Context(), wf, actor.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}
