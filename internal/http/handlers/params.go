package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// pathID reads the :id route param. Every record id is a UUID, so anything else answers 404
// before reaching a repo. The returned id is in canonical form.
func pathID(ctx *gin.Context, notFound string) (string, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		RespondNotFound(ctx, notFound)
		return "", false
	}
	return id.String(), true
}
