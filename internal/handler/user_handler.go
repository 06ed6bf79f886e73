package handler

import (
	"errors"
	"net/http"
	"strconv"

	"flyhigh/internal/apperr"
	"flyhigh/internal/dto"
	"flyhigh/internal/i18n"
	"flyhigh/internal/middleware"
	"flyhigh/internal/models"
	"flyhigh/internal/service"
	"flyhigh/internal/validation"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users      service.UserService
	validator  *validation.UserValidator
	translator *i18n.Translator
}

func NewUserHandler(users service.UserService, validator *validation.UserValidator, translator *i18n.Translator) *UserHandler {
	return &UserHandler{users: users, validator: validator, translator: translator}
}

// Register creates an inactive account and dispatches the activation email.
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperr.BadRequest("validation_failure"))
		return
	}

	if fieldErrors := h.validator.ValidateRegistration(req); fieldErrors != nil {
		c.Error(apperr.Validation(fieldErrors))
		return
	}

	err := h.users.Register(req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		// Lost the uniqueness race between validation and insert.
		c.Error(apperr.Validation(map[string]string{"email": "email_inuse"}))
		return
	case errors.Is(err, service.ErrEmailDelivery):
		c.Error(apperr.BadGateway("email_failure"))
		return
	case err != nil:
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: h.translate(c, "user_create_success"),
	})
}

// Activate redeems an activation token. A used or wrong token simply does not
// match, so there is no separate revocation path.
func (h *UserHandler) Activate(c *gin.Context) {
	err := h.users.Activate(c.Param("token"))
	if errors.Is(err, service.ErrActivationTokenInvalid) {
		c.Error(apperr.BadRequest("account_activation_failure"))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: h.translate(c, "account_activation_success"),
	})
}

// List returns a page of active users. A logged-in caller never sees itself
// in the listing.
func (h *UserHandler) List(c *gin.Context) {
	page := middleware.PageFromContext(c)

	var excludeID uint
	if caller, ok := middleware.AuthenticatedUser(c); ok {
		excludeID = caller.ID
	}

	users, total, err := h.users.List(page.Page, page.Size, excludeID)
	if err != nil {
		c.Error(err)
		return
	}

	content := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		content = append(content, userResponse(&user))
	}

	totalPage := int(total) / page.Size
	if int(total)%page.Size != 0 {
		totalPage++
	}

	c.JSON(http.StatusOK, dto.UserPage{
		Content:   content,
		Page:      page.Page,
		Size:      page.Size,
		TotalPage: totalPage,
	})
}

// Get returns a single active user, 404 otherwise.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.Error(apperr.NotFound("user_not_found"))
		return
	}

	user, err := h.users.Get(id)
	if errors.Is(err, service.ErrUserNotFound) {
		c.Error(apperr.NotFound("user_not_found"))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}

// Update changes the caller's own username. Only an active account acting on
// itself has standing.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok || !callerOwns(c, id) {
		c.Error(apperr.Forbidden("unauthorized_user_update"))
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperr.BadRequest("validation_failure"))
		return
	}

	user, err := h.users.Update(id, req.Username)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// Delete removes the caller's own account together with every owned token.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok || !callerOwns(c, id) {
		c.Error(apperr.Forbidden("unauthorized_user_delete"))
		return
	}

	if err := h.users.Delete(id); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// callerOwns is the self-ownership rule for protected mutations: a caller must
// be attached, active, and the target of the request. Inactive accounts have
// no standing even on themselves.
func callerOwns(c *gin.Context, id uint) bool {
	caller, ok := middleware.AuthenticatedUser(c)
	return ok && !caller.Inactive && caller.ID == id
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func userResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

func (h *UserHandler) translate(c *gin.Context, messageID string) string {
	return h.translator.Translate(messageID, c.GetHeader("Accept-Language"))
}
