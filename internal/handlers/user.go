package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/prepmate/prepmate-backend/internal/requestdata"
	"github.com/prepmate/prepmate-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /user
func (uh *UserHandler) GetMe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	me, err := uh.userService.GetByID(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"me": me})
}
