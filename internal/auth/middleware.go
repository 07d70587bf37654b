package auth

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	user "github.com/ssko7098/Harmonize/internal/models/user"
)

const RefreshTokenTTL = 7 * 24 * time.Hour

// Protected authenticates every request behind it. The access token rides
// in a cookie; when it is missing or expired the middleware tries the
// refresh token before giving up. On success the authenticated user is
// stashed in Locals under "user" and "user_id".
func Protected(opt Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := c.Cookies("access_token")
		refreshToken := c.Cookies("refresh_token")

		if accessToken != "" && opt.Rclient.Exists(c.Context(), "blacklist:access:"+accessToken).Val() > 0 {
			opt.Logger.Warn(c.Context()).WithFields("path", c.Path()).Logs("Attempted use of blacklisted access token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Access token has been invalidated",
			})
		}
		if refreshToken != "" && opt.Rclient.Exists(c.Context(), "blacklist:refresh:"+refreshToken).Val() > 0 {
			opt.Logger.Warn(c.Context()).WithFields("path", c.Path()).Logs("Attempted use of blacklisted refresh token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Refresh token has been invalidated",
			})
		}

		claims, err := VerifyToken(opt.Secret, accessToken)
		if err != nil {
			newAccessToken, refreshErr := handleTokenRefresh(c, opt, refreshToken)
			if refreshErr != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
			}
			claims, err = VerifyToken(opt.Secret, newAccessToken)
			if err != nil {
				opt.Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Invalid access token after refresh")
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid access token"})
			}
		}

		uid, err := uuid.Parse(claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid access token"})
		}

		u, err := user.GetUserBy(c.Context(), opt.Rclient, opt.DB, "id = ?", []interface{}{uid})
		if err != nil {
			opt.Logger.Warn(c.Context()).WithFields("user_id", claims.UserID).Logs("User not found during authentication")
			c.ClearCookie("access_token")
			c.ClearCookie("refresh_token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
		}
		if !u.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Account is deactivated"})
		}

		c.Locals("user_id", u.ID.String())
		c.Locals("user", u)
		return c.Next()
	}
}

// handleTokenRefresh rotates the refresh token and mints a new access
// token. Refresh state is keyed in Redis and bound to the client IP.
func handleTokenRefresh(c *fiber.Ctx, opt Options, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrInvalidToken
	}

	refreshKey := "refresh:" + refreshToken
	refreshDataJSON, err := opt.Rclient.Get(c.Context(), refreshKey).Result()
	if err != nil || refreshDataJSON == "" {
		opt.Logger.Warn(c.Context()).WithFields("path", c.Path()).Logs("Invalid or expired refresh token")
		return "", ErrInvalidToken
	}

	var refreshData map[string]interface{}
	if err := json.Unmarshal([]byte(refreshDataJSON), &refreshData); err != nil {
		opt.Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to parse refresh data")
		return "", ErrInvalidToken
	}

	userID, ok := refreshData["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	if ip, ok := refreshData["ip"].(string); !ok || ip != c.IP() {
		opt.Logger.Warn(c.Context()).WithFields("user_id", userID).Logs("Refresh token IP mismatch")
		opt.Rclient.Del(c.Context(), refreshKey)
		return "", ErrInvalidToken
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return "", ErrInvalidToken
	}
	u, err := user.GetUserBy(c.Context(), opt.Rclient, opt.DB, "id = ?", []interface{}{uid})
	if err != nil {
		c.ClearCookie("access_token")
		c.ClearCookie("refresh_token")
		return "", ErrInvalidToken
	}

	newAccessToken, err := GenerateAccessToken(opt.Secret, u.ID.String(), u.IsAdmin)
	if err != nil {
		opt.Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to generate access token")
		return "", err
	}
	newRefreshToken := GenerateRefreshToken()

	newRefreshJSON, _ := json.Marshal(map[string]interface{}{
		"user_id": u.ID.String(),
		"ip":      c.IP(),
	})
	opt.Rclient.Set(c.Context(), "refresh:"+newRefreshToken, newRefreshJSON, RefreshTokenTTL)
	opt.Rclient.Del(c.Context(), refreshKey)

	SetAuthCookies(c, newAccessToken, newRefreshToken)

	opt.Logger.Info(c.Context()).WithFields("user_id", userID).Logs("Tokens refreshed")
	return newAccessToken, nil
}

// SetAuthCookies writes both token cookies with their matching lifetimes.
func SetAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(AccessTokenTTL),
		HTTPOnly: true,
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(RefreshTokenTTL),
		HTTPOnly: true,
	})
}
