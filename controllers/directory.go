package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pet-adoption-api/models"
	"pet-adoption-api/services"
)

func directoryFilter(c *gin.Context) services.DirectoryFilter {
	return services.DirectoryFilter{
		City:   c.Query("city"),
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}
}

/* ==========================
   Shelters
   ========================== */

type ShelterRequest struct {
	Name    string  `json:"name" binding:"required"`
	City    string  `json:"city" binding:"required"`
	Address string  `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

func GetShelters(c *gin.Context) {
	items, err := services.NewDirectoryService(nil).ListShelters(c.Request.Context(), directoryFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func GetShelter(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := services.NewDirectoryService(nil).GetShelter(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func CreateShelter(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req ShelterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := services.NewDirectoryService(nil).CreateShelter(c.Request.Context(), actor, models.Shelter{
		Name:    req.Name,
		City:    req.City,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

/* ==========================
   Vets
   ========================== */

type VetRequest struct {
	ClinicName    string  `json:"clinic_name" binding:"required"`
	Qualification string  `json:"qualification"`
	City          string  `json:"city" binding:"required"`
	Phone         *string `json:"phone"`
}

func GetVets(c *gin.Context) {
	items, err := services.NewDirectoryService(nil).ListVets(c.Request.Context(), directoryFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func GetVet(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := services.NewDirectoryService(nil).GetVet(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func CreateVet(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req VetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := services.NewDirectoryService(nil).CreateVet(c.Request.Context(), actor, models.VetProfile{
		ClinicName:    req.ClinicName,
		Qualification: req.Qualification,
		City:          req.City,
		Phone:         req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

/* ==========================
   Qurbani animals
   ========================== */

type QurbaniRequest struct {
	Species  string  `json:"species" binding:"required"`
	Breed    *string `json:"breed"`
	WeightKg float64 `json:"weight_kg"`
	Price    float64 `json:"price" binding:"required"`
	City     string  `json:"city" binding:"required"`
}

func GetQurbaniAnimals(c *gin.Context) {
	items, err := services.NewDirectoryService(nil).ListQurbani(c.Request.Context(), directoryFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func GetQurbaniAnimal(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := services.NewDirectoryService(nil).GetQurbani(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func CreateQurbaniAnimal(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req QurbaniRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := services.NewDirectoryService(nil).CreateQurbani(c.Request.Context(), actor, models.QurbaniAnimal{
		Species:  req.Species,
		Breed:    req.Breed,
		WeightKg: req.WeightKg,
		Price:    req.Price,
		City:     req.City,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}
