package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/clubhouse/internal/middleware"
	"github.com/mansoorceksport/clubhouse/internal/service"
)

// RefreshCookieName holds the refresh token between requests.
const RefreshCookieName = "clubhouse-refresh-token"

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService   *service.AuthService
	refreshExpiry time.Duration
	secureCookie  bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, refreshExpiry time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		refreshExpiry: refreshExpiry,
		secureCookie:  secureCookie,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "Auth", err)
	}

	user, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, "Auth", err)
	}
	return respondOK(c, fiber.StatusCreated, "Registration successful. Please wait for admin approval.", user)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, "Auth", err)
	}

	resp, err := h.authService.Login(c.UserContext(), req, c.Get(fiber.HeaderUserAgent), c.IP())
	if err != nil {
		return respondError(c, "Auth", err)
	}

	h.setRefreshCookie(c, resp.Tokens.RefreshToken, time.Now().Add(h.refreshExpiry))
	return respondOK(c, fiber.StatusOK, "Login successful", fiber.Map{
		"user":        resp.User,
		"accessToken": resp.Tokens.AccessToken,
		"expiresIn":   resp.Tokens.ExpiresIn,
	})
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	pair, err := h.authService.Refresh(c.UserContext(), c.Cookies(RefreshCookieName), c.Get(fiber.HeaderUserAgent), c.IP())
	if err != nil {
		h.clearRefreshCookie(c)
		return respondError(c, "Auth", err)
	}

	h.setRefreshCookie(c, pair.RefreshToken, time.Now().Add(h.refreshExpiry))
	return respondOK(c, fiber.StatusOK, "", pair)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if refreshToken := c.Cookies(RefreshCookieName); refreshToken != "" {
		if err := h.authService.Logout(c.UserContext(), refreshToken); err != nil {
			return respondError(c, "Auth", err)
		}
	}

	h.clearRefreshCookie(c)
	return respondOK(c, fiber.StatusOK, "Logged out successfully", nil)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.Me(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, "Auth", err)
	}
	return respondOK(c, fiber.StatusOK, "", user)
}

// ListUsers handles GET /api/admin/users
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, "Admin", err)
	}
	return respondOK(c, fiber.StatusOK, "", users)
}

// VerifyUser handles PUT /api/admin/users/:id/verify
func (h *AuthHandler) VerifyUser(c *fiber.Ctx) error {
	user, err := h.authService.VerifyUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Admin", err)
	}
	return respondOK(c, fiber.StatusOK, "User verified successfully", user)
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: "Lax",
		Path:     "/api/auth",
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	h.setRefreshCookie(c, "", time.Now().Add(-1*time.Hour))
}
