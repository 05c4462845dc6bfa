package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gmaisuradze997/guitar-shop/config"
	"github.com/gmaisuradze997/guitar-shop/internal/app/service"
	apperrors "github.com/gmaisuradze997/guitar-shop/internal/errors"
	"github.com/gmaisuradze997/guitar-shop/internal/middleware"
	"github.com/gmaisuradze997/guitar-shop/pkg/util"
)

const refreshTokenCookie = "refreshToken"

type AuthController struct {
	authService service.AuthService
	jwtCfg      config.JWTConfig
	secure      bool
}

func NewAuthController(authService service.AuthService, jwtCfg config.JWTConfig, environment string) *AuthController {
	return &AuthController{
		authService: authService,
		jwtCfg:      jwtCfg,
		secure:      environment == "production",
	}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// setAuthCookies attaches both tokens as httpOnly cookies. The browser
// client never sees the raw tokens.
func (ctrl *AuthController) setAuthCookies(c *gin.Context, tokens *util.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, tokens.AccessToken, int(ctrl.jwtCfg.AccessTokenExpiry.Seconds()), "/", "", ctrl.secure, true)
	c.SetCookie(refreshTokenCookie, tokens.RefreshToken, int(ctrl.jwtCfg.RefreshTokenExpiry.Seconds()), "/", "", ctrl.secure, true)
}

func (ctrl *AuthController) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", ctrl.secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", ctrl.secure, true)
}

// Register handles user registration
// POST /api/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid registration details")
		return
	}

	user, tokens, err := ctrl.authService.Register(service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "This email address is already registered")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register")
		return
	}

	ctrl.setAuthCookies(c, tokens)
	c.JSON(http.StatusCreated, gin.H{
		"user": user,
	})
}

// Login handles user login
// POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and password are required")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login")
		return
	}

	ctrl.setAuthCookies(c, tokens)
	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// Refresh rotates the token pair using the refresh cookie
// POST /api/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil || refreshToken == "" {
		apperrors.Unauthorized(c, "No refresh token provided")
		return
	}

	user, tokens, err := ctrl.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		log.Warn("Token refresh rejected", map[string]interface{}{
			"error": err.Error(),
		})
		ctrl.clearAuthCookies(c)
		if errors.Is(err, service.ErrTokenRevoked) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "Your session has been revoked")
			return
		}
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid or expired refresh token")
		return
	}

	ctrl.setAuthCookies(c, tokens)
	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// Logout revokes the session and clears both cookies
// POST /api/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	accessToken, _ := c.Cookie(middleware.AccessTokenCookie)
	refreshToken, _ := c.Cookie(refreshTokenCookie)

	if err := ctrl.authService.Logout(c.Request.Context(), accessToken, refreshToken); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Logout revocation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	ctrl.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated user's profile
// GET /api/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
