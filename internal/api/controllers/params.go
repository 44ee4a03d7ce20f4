package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tabi/internal/services"
	"tabi/pkg/middleware"
	"tabi/pkg/utils"
)

// currentUserID reads the id the JWT middleware stored. It answers 401 and
// returns false when the request carries no usable identity.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(middleware.ContextUserID))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// principal is nil for anonymous requests on optional-auth routes.
func principal(c *gin.Context) *services.Principal {
	id, err := uuid.Parse(c.GetString(middleware.ContextUserID))
	if err != nil {
		return nil
	}
	return &services.Principal{UserID: id, Email: c.GetString(middleware.ContextEmail)}
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return false
	}
	return true
}
