// routes/directory_routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"pet-adoption-api/controllers"
	"pet-adoption-api/middleware"
	"pet-adoption-api/services"
)

// SetupDirectoryRoutes mounts the shelter, vet and qurbani listings.
// Reads are public; creating requires a session.
func SetupDirectoryRoutes(router *gin.Engine, tokens *services.TokenService) {
	v1 := router.Group("/api/v1")
	auth := middleware.AuthMiddleware(tokens)

	shelters := v1.Group("/shelters")
	{
		shelters.GET("", controllers.GetShelters)
		shelters.GET("/:id", controllers.GetShelter)
		shelters.POST("", auth, controllers.CreateShelter)
	}

	vets := v1.Group("/vets")
	{
		vets.GET("", controllers.GetVets)
		vets.GET("/:id", controllers.GetVet)
		vets.POST("", auth, controllers.CreateVet)
	}

	qurbani := v1.Group("/qurbani-animals")
	{
		qurbani.GET("", controllers.GetQurbaniAnimals)
		qurbani.GET("/:id", controllers.GetQurbaniAnimal)
		qurbani.POST("", auth, controllers.CreateQurbaniAnimal)
	}
}
