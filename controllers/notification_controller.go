package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pet-adoption-api/services"
)

func GetNotifications(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	items, err := services.NewNotificationService(nil).List(c.Request.Context(), actor.UserID, services.NotificationQuery{
		UnreadOnly: queryBool(c, "unreadOnly"),
		Limit:      queryInt(c, "limit", 20),
		Offset:     queryInt(c, "offset", 0),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func GetNotificationCounter(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	n, err := services.NewNotificationService(nil).UnreadCount(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

func MarkNotificationRead(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := services.NewNotificationService(nil).MarkRead(c.Request.Context(), actor.UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func MarkAllNotificationsRead(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	n, err := services.NewNotificationService(nil).MarkAllRead(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": n})
}
