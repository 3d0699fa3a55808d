package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pet-adoption-api/services"
)

// ListingApprovalRequest needs a pointer so that a missing "approved" is
// told apart from false.
type ListingApprovalRequest struct {
	PetID    uint  `json:"pet_id" binding:"required"`
	Approved *bool `json:"approved" binding:"required"`
}

// UpdateListingApproval handles PUT /listing-approvals.
func UpdateListingApproval(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req ListingApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := services.NewListingService(nil, nil).SetApproval(c.Request.Context(), actor, req.PetID, *req.Approved)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetPendingListings handles GET /listing-approvals.
func GetPendingListings(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	pets, total, err := services.NewListingService(nil, nil).ListPending(c.Request.Context(), actor,
		queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": pets, "total": total})
}
