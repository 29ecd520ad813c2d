package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiksliukai-lt/tutoring-service/internal/services"
	"github.com/tiksliukai-lt/tutoring-service/internal/utils"
	"github.com/tiksliukai-lt/tutoring-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	registrationService services.RegistrationService
	authService         services.AuthService
}

func NewAuthHandler(
	registrationService services.RegistrationService,
	authService services.AuthService,
	logger utils.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler:         NewBaseHandler(logger),
		registrationService: registrationService,
		authService:         authService,
	}
}

// ===== REGISTRATION =====

// Register provisions a new account
// @Summary Register a new account
// @Description Validate the submitted form, create the credential and profile as one unit
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Registration form"
// @Success 201 {object} map[string]interface{} "Account created"
// @Failure 400 {object} ErrorResponse "Identity provider rejected the account"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /registration [post]
func (h *AuthHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registering account")

	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	result, err := h.registrationService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleRegistrationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Registracija sėkminga",
		"account_id": result.AccountID,
		"role":       result.Role,
	})
}

// ===== SESSION =====

// Login verifies credentials and issues a session token
// @Summary Log in
// @Description Verify email and password, return a signed session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Credentials"
// @Success 200 {object} services.LoginResult
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	h.LogRequest(c, "Logging in")

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Neteisingi prisijungimo duomenys",
		})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		// Every miss gets the same body so accounts cannot be enumerated.
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Neteisingi prisijungimo duomenys",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Logout ends the session
// @Summary Log out
// @Description Sessions are stateless tokens; logout is a client-side discard
// @Tags auth
// @Success 204 "No content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ===== PROFILE =====

// Me returns the authenticated account's identity
// @Summary Get current account
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /users/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	role, _ := GetUserRoleFromContext(c)
	email, _ := c.Get("user_email")

	c.JSON(http.StatusOK, gin.H{
		"account_id": userID,
		"role":       role,
		"email":      email,
	})
}

// ===== ERROR HANDLING =====

func (h *AuthHandler) handleRegistrationError(c *gin.Context, err error) {
	var verr *validator.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation_failed",
			Message: verr.Message,
			Details: gin.H{"field": verr.Field},
		})
	case errors.Is(err, services.ErrDuplicateAccount):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "duplicate_account",
			Message: "Vartotojas su tokiu el. paštu jau egzistuoja.",
		})
	case errors.Is(err, services.ErrCredentialCreationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "credential_creation_failed",
			Message: "Nepavyko sukurti paskyros.",
		})
	default:
		h.LogError(c, err, "Registration failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Serverio klaida",
		})
	}
}
