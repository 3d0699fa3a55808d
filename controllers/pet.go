package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pet-adoption-api/middleware"
	"pet-adoption-api/services"
)

type PetRequest struct {
	Name        string  `json:"name" binding:"required"`
	Species     string  `json:"species" binding:"required"`
	Breed       *string `json:"breed"`
	AgeMonths   *int    `json:"age_months"`
	City        *string `json:"city"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

func (r PetRequest) input() services.PetInput {
	return services.PetInput{
		Name:        r.Name,
		Species:     r.Species,
		Breed:       r.Breed,
		AgeMonths:   r.AgeMonths,
		City:        r.City,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}

// GetPets lists approved, available pets. Public.
func GetPets(c *gin.Context) {
	pets, total, err := services.NewPetService(nil).ListAvailable(c.Request.Context(), services.PetFilter{
		Species: c.Query("species"),
		City:    c.Query("city"),
		Limit:   queryInt(c, "limit", 20),
		Offset:  queryInt(c, "offset", 0),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": pets, "total": total})
}

// GetPet is public but honours an optional session so owners can see their
// unapproved listings.
func GetPet(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	pet, err := services.NewPetService(nil).Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pet)
}

func CreatePet(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req PetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	pet, err := services.NewPetService(nil).Create(c.Request.Context(), actor, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pet)
}

func UpdatePet(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req PetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	pet, err := services.NewPetService(nil).Update(c.Request.Context(), actor, id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pet)
}

func GetMyPets(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	pets, err := services.NewPetService(nil).ListByOwner(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": pets, "total": len(pets)})
}
