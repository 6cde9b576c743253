package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/grocertrack/grocertrack/internal/database"
	"github.com/grocertrack/grocertrack/internal/middleware"
	"github.com/grocertrack/grocertrack/internal/models"
)

// Register creates a new user account
func (h *Handler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return Error(c, fiber.StatusBadRequest, "valid email is required")
	}
	if len(req.Password) < 8 {
		return Error(c, fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to process password")
	}

	user, err := h.db.CreateUser(c.Context(), req.Email, string(hashedPassword), req.Name)
	if err != nil {
		if errors.Is(err, database.ErrEmailExists) {
			return Error(c, fiber.StatusConflict, "email already registered")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to create user")
	}

	return h.respondWithTokens(c, user)
}

// Login authenticates a user
func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.db.GetUserByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	_ = h.db.UpdateUserLastLogin(c.Context(), user.ID)

	return h.respondWithTokens(c, user)
}

// Refresh exchanges a refresh token for a new token pair
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req models.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	claims, err := middleware.ParseToken(req.RefreshToken, h.cfg.JWTSecret)
	if err != nil || claims.TokenType != middleware.TokenTypeRefresh {
		return Error(c, fiber.StatusUnauthorized, "invalid or expired refresh token")
	}

	user, err := h.db.GetUserByID(c.Context(), claims.UserID)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, "user no longer exists")
	}

	return h.respondWithTokens(c, user)
}

// Me returns the authenticated user's profile
func (h *Handler) Me(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	user, err := h.db.GetUserByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusNotFound, "user not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to load user")
	}

	return Success(c, user)
}

func (h *Handler) respondWithTokens(c *fiber.Ctx, user *models.User) error {
	accessToken, err := h.generateToken(user, middleware.TokenTypeAccess, h.cfg.JWTExpiry)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate token")
	}
	refreshToken, err := h.generateToken(user, middleware.TokenTypeRefresh, h.cfg.RefreshJWTExpiry)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate token")
	}

	return Success(c, models.AuthResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         user,
	})
}

func (h *Handler) generateToken(user *models.User, tokenType string, expiry time.Duration) (string, error) {
	claims := middleware.JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}
