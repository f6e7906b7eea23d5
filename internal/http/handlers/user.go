package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/meraki-backend/internal/http/response"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/services"
)

type UserHandler struct {
	log         *logger.Logger
	userService services.UserService
}

func NewUserHandler(log *logger.Logger, userService services.UserService) *UserHandler {
	return &UserHandler{log: log.With("handler", "UserHandler"), userService: userService}
}

func (uh *UserHandler) List(c *gin.Context) {
	users, err := uh.userService.List(c.Request.Context())
	if err != nil {
		response.RespondErr(c, uh.log, err, "Failed to fetch users")
		return
	}
	response.RespondOK(c, users)
}

func (uh *UserHandler) Get(c *gin.Context) {
	user, err := uh.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, uh.log, err, "Failed to fetch user")
		return
	}
	response.RespondOK(c, user)
}

func (uh *UserHandler) GetByEmail(c *gin.Context) {
	user, err := uh.userService.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.RespondErr(c, uh.log, err, "Failed to fetch user by email")
		return
	}
	response.RespondOK(c, user)
}
