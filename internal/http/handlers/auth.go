package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/meraki-backend/internal/domain"
	"github.com/yungbote/meraki-backend/internal/http/response"
	"github.com/yungbote/meraki-backend/internal/pkg/ctxutil"
	"github.com/yungbote/meraki-backend/internal/pkg/logger"
	"github.com/yungbote/meraki-backend/internal/platform/apierr"
	"github.com/yungbote/meraki-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	bind        *Binder
	authService services.AuthService
	userService services.UserService
}

func NewAuthHandler(log *logger.Logger, bind *Binder, authService services.AuthService, userService services.UserService) *AuthHandler {
	return &AuthHandler{
		log:         log.With("handler", "AuthHandler"),
		bind:        bind,
		authService: authService,
		userService: userService,
	}
}

func (ah *AuthHandler) StudentLogin(c *gin.Context) {
	var req struct {
		Identifier string `json:"identifier"`
	}
	if err := ah.bind.JSON(c, &req); err != nil {
		response.RespondErr(c, ah.log, err, "Login failed")
		return
	}
	res, err := ah.authService.LoginStudent(c.Request.Context(), req.Identifier)
	if err != nil {
		response.RespondErr(c, ah.log, err, "Login failed")
		return
	}
	response.RespondOK(c, gin.H{
		"success":            true,
		"user":               res.User,
		"needsPersonalEmail": res.NeedsPersonalEmail,
		"token":              res.Token,
		"expires_in":         int(ah.authService.GetAccessTTL().Seconds()),
	})
}

// SetPersonalEmail is used right after login, before the client holds a token.
func (ah *AuthHandler) SetPersonalEmail(c *gin.Context) {
	var req struct {
		Identifier    string `json:"identifier" binding:"notblank"`
		PersonalEmail string `json:"personalEmail" binding:"notblank"`
	}
	if err := ah.bind.JSON(c, &req); err != nil {
		response.RespondErr(c, ah.log, err, "Failed to save email")
		return
	}
	user, token, err := ah.saveEmail(c, req.Identifier, req.PersonalEmail)
	if err != nil {
		if status, _ := apierr.Classify(err); status == http.StatusNotFound {
			err = apierr.Unauthorized("Invalid Student ID or Meraki Email")
		}
		response.RespondErr(c, ah.log, err, "Failed to save email")
		return
	}
	response.RespondOK(c, gin.H{"success": true, "user": user, "token": token})
}

// SetupEmail saves the personal email of the authenticated student.
func (ah *AuthHandler) SetupEmail(c *gin.Context) {
	var req struct {
		PersonalEmail string `json:"personalEmail" binding:"notblank"`
	}
	if err := ah.bind.JSON(c, &req); err != nil {
		response.RespondErr(c, ah.log, err, "Failed to save email")
		return
	}
	user, token, err := ah.saveEmail(c, ctxutil.StudentID(c.Request.Context()), req.PersonalEmail)
	if err != nil {
		response.RespondErr(c, ah.log, err, "Failed to save email")
		return
	}
	response.RespondOK(c, gin.H{
		"success": true,
		"user":    user,
		"token":   token,
		"message": "Personal email saved successfully",
	})
}

// saveEmail stores the email and reissues the token so the client session
// carries the refreshed user.
func (ah *AuthHandler) saveEmail(c *gin.Context, identifier, email string) (*types.User, string, error) {
	user, err := ah.userService.SavePersonalEmail(c.Request.Context(), identifier, email)
	if err != nil {
		return nil, "", err
	}
	token, err := ah.authService.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (ah *AuthHandler) CurrentUser(c *gin.Context) {
	user, err := ah.userService.Get(c.Request.Context(), ctxutil.StudentID(c.Request.Context()))
	if err != nil {
		status, _ := apierr.Classify(err)
		if status == http.StatusNotFound {
			err = apierr.Unauthorized("User not found")
		}
		response.RespondErr(c, ah.log, err, "Failed to fetch user")
		return
	}
	response.RespondOK(c, user)
}
