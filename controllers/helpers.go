package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pet-adoption-api/config"
	"pet-adoption-api/middleware"
	"pet-adoption-api/services"
)

// respondError maps a service error to its status code. Internal errors are
// logged and answered with a generic message.
func respondError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindForbidden:
		status = http.StatusForbidden
	case services.KindUnauthorized:
		status = http.StatusUnauthorized
	}

	msg := "Internal server error"
	var se *services.Error
	if kind == services.KindInternal {
		_ = c.Error(err)
		config.Log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	} else if errors.As(err, &se) {
		msg = se.Message
	}

	c.JSON(status, gin.H{"error": msg, "kind": kind.String()})
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": "invalid request body: " + err.Error(),
		"kind":  services.KindValidation.String(),
	})
}

func currentActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return actor, ok
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid " + name,
			"kind":  services.KindValidation.String(),
		})
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query(key))); err == nil {
		return v
	}
	return def
}

func queryBool(c *gin.Context, key string) bool {
	v := strings.TrimSpace(c.Query(key))
	return v == "1" || strings.EqualFold(v, "true")
}
