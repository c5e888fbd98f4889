package api

import (
	"cng-slot-booking/internal/handler/middleware"
	"cng-slot-booking/internal/pkg/errs"
	"cng-slot-booking/internal/usecase/commands"
	"cng-slot-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

var errUnauthenticated = errs.New("no authenticated identity on request")

func actorFrom(c *gin.Context) (commands.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return commands.Actor{}, false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		return commands.Actor{}, false
	}
	return commands.Actor{UserID: userID, Role: role}, true
}

func viewerFrom(c *gin.Context) (queries.Viewer, bool) {
	actor, ok := actorFrom(c)
	if !ok {
		return queries.Viewer{}, false
	}
	return queries.Viewer{UserID: actor.UserID, Role: actor.Role}, true
}
