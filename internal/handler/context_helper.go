package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/edushare/edushare-api/internal/middleware"
	"github.com/edushare/edushare-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// isPrivileged reports whether the request carries a lecturer session.
func isPrivileged(c *gin.Context) bool {
	claims := claimsFromContext(c)
	return claims != nil && claims.Identity().IsPrivileged()
}
