package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pet-adoption-api/services"
)

// GetDashboardStats returns the site-wide dashboard for staff and the
// personal one for everyone else.
func GetDashboardStats(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	svc := services.NewDashboardService(nil)
	var (
		stats interface{}
		err   error
	)
	if actor.IsStaff() {
		stats, err = svc.Admin(c.Request.Context(), actor)
	} else {
		stats, err = svc.User(c.Request.Context(), actor)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scope": dashboardScope(actor), "stats": stats})
}

func dashboardScope(actor services.Actor) string {
	if actor.IsStaff() {
		return "admin"
	}
	return "user"
}
