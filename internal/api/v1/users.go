package v1

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ssko7098/Harmonize/internal/auth"
	models "github.com/ssko7098/Harmonize/internal/models"
	comments "github.com/ssko7098/Harmonize/internal/models/comments"
	music "github.com/ssko7098/Harmonize/internal/models/music"
	user "github.com/ssko7098/Harmonize/internal/models/user"
	"github.com/ssko7098/Harmonize/pkg/utils"
)

// Register creates an account and mails the activation code. The account
// stays unusable until the code is verified.
func Register(c *fiber.Ctx) error {
	type UserInput struct {
		Username        string `json:"username" validate:"required,min=3,max=255,alphanum"`
		FullName        string `json:"full_name" validate:"omitempty,max=100"`
		Email           string `json:"email" validate:"required,email,max=100"`
		Password        string `json:"password" validate:"required,min=6,eqfield=ConfirmPassword"`
		ConfirmPassword string `json:"confirm_password" validate:"required,min=6"`
	}
	ui := new(UserInput)
	if err := utils.StrictBodyParser(c, ui); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err.Error()).Logs("Failed to parse registration body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}

	if errs := Validator.Validate(ui); errs != nil {
		Logger.Warn(c.Context()).Logs("Registration validation failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": errs,
		})
	}

	hashedPass, err := utils.HashPassword(ui.Password)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to hash password")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process password",
		})
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to generate OTP")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate activation code",
		})
	}
	hashedOTP, err := utils.HashPassword(fmt.Sprintf("%d", otp))
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to hash OTP")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate activation code",
		})
	}

	u, err := user.NewUser(c.Context(), Redis, DB, ui.Username, ui.Email, hashedPass,
		user.WithFullName(ui.FullName), user.WithOTP(hashedOTP))
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := utils.SendActivationEmail(c.Context(), EmailCfg, u.Email, u.Username, otp, Logger); err != nil {
		Logger.Warn(c.Context()).WithFields("email", u.Email).Logs("Email sending failed but user created")
	}

	Logger.Info(c.Context()).WithFields("user_id", u.ID.String()).Logs(fmt.Sprintf("User registered: %s", u.Username))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful. Check your email to activate your account.",
		"user": fiber.Map{
			"id":       u.ID,
			"username": u.Username,
			"email":    u.Email,
		},
	})
}

// ActivateUser verifies the emailed code and unlocks the account.
func ActivateUser(c *fiber.Ctx) error {
	type ActivateRequest struct {
		Email string `json:"email" validate:"required,email"`
		OTP   int64  `json:"otp" validate:"required"`
	}
	ar := new(ActivateRequest)
	if err := utils.StrictBodyParser(c, ar); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}
	if errs := Validator.Validate(ar); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": errs,
		})
	}

	u, err := user.GetUserBy(c.Context(), Redis, DB, "email = ?", []interface{}{strings.ToLower(strings.TrimSpace(ar.Email))})
	if err != nil {
		return utils.SendError(c, err)
	}
	if u.IsVerified {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Account already activated",
		})
	}

	if err := u.VerifyOTP(c.Context(), Redis, DB, ar.OTP); err != nil {
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).WithFields("user_id", u.ID.String()).Logs(fmt.Sprintf("User activated: %s", u.Username))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Account activated successfully",
	})
}

const (
	loginAttemptLimit  = 5
	loginAttemptWindow = 15 * time.Minute
)

// Login checks credentials and issues the token cookie pair. Deactivated
// and unverified accounts cannot log in. Repeated failures from one IP
// are throttled through Redis.
func Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	li := new(LoginInput)
	if err := utils.StrictBodyParser(c, li); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}
	if errs := Validator.Validate(li); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": errs,
		})
	}

	attemptsKey := "login_attempts:" + c.IP()
	if attempts, err := Redis.Get(c.Context(), attemptsKey).Int(); err == nil && attempts >= loginAttemptLimit {
		Logger.Warn(c.Context()).WithFields("ip", c.IP()).Logs("Login throttled")
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many failed attempts, try again later",
		})
	}

	fail := func() error {
		Redis.Incr(c.Context(), attemptsKey)
		Redis.Expire(c.Context(), attemptsKey, loginAttemptWindow)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid username or password",
		})
	}

	u, err := user.GetUserBy(c.Context(), Redis, DB, "username = ?", []interface{}{li.Username})
	if err != nil {
		return fail()
	}
	if err := utils.ComparePasswords(u.Password, li.Password); err != nil {
		return fail()
	}
	if !u.IsActive || !u.IsVerified {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Account is not activated",
		})
	}

	accessToken, err := auth.GenerateAccessToken(JWTSecret, u.ID.String(), u.IsAdmin)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err.Error()).Logs("Failed to generate access token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to log in",
		})
	}
	refreshToken := auth.GenerateRefreshToken()

	refreshJSON, _ := json.Marshal(map[string]interface{}{
		"user_id": u.ID.String(),
		"ip":      c.IP(),
	})
	Redis.Set(c.Context(), "refresh:"+refreshToken, refreshJSON, auth.RefreshTokenTTL)
	Redis.Del(c.Context(), attemptsKey)

	auth.SetAuthCookies(c, accessToken, refreshToken)

	Logger.Info(c.Context()).WithFields("user_id", u.ID.String()).Logs(fmt.Sprintf("User logged in: %s", u.Username))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged in successfully",
		"user": fiber.Map{
			"id":       u.ID,
			"username": u.Username,
			"is_admin": u.IsAdmin,
		},
	})
}

// Logout blacklists both tokens for their remaining lifetime and clears
// the cookies.
func Logout(c *fiber.Ctx) error {
	if accessToken := c.Cookies("access_token"); accessToken != "" {
		Redis.Set(c.Context(), "blacklist:access:"+accessToken, "1", auth.AccessTokenTTL)
	}
	if refreshToken := c.Cookies("refresh_token"); refreshToken != "" {
		Redis.Set(c.Context(), "blacklist:refresh:"+refreshToken, "1", auth.RefreshTokenTTL)
		Redis.Del(c.Context(), "refresh:"+refreshToken)
	}
	c.ClearCookie("access_token")
	c.ClearCookie("refresh_token")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// ViewProfile shows a user's public page: profile, wall comments and the
// music they uploaded.
func ViewProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	profile, owner, err := user.GetProfileByUsername(c.Context(), DB, username)
	if err != nil {
		return utils.SendError(c, err)
	}
	wall, err := comments.ProfileWall(c.Context(), Redis, DB, username)
	if err != nil {
		return utils.SendError(c, err)
	}
	songs, err := music.UserSongs(c.Context(), DB, owner.ID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.Success(c).WithData(fiber.Map{
		"username": owner.Username,
		"profile":  profile,
		"comments": wall,
		"songs":    songs,
	}).Send()
}

// UpdateProfile edits the caller's own bio and avatar.
func UpdateProfile(c *fiber.Ctx) error {
	type ProfileInput struct {
		Bio       string `json:"bio" validate:"omitempty,max=500"`
		AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
	}
	pi := new(ProfileInput)
	if err := utils.StrictBodyParser(c, pi); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}
	if errs := Validator.Validate(pi); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": errs,
		})
	}

	u := auth.CurrentUser(c)
	profile, err := user.UpdateProfile(c.Context(), Redis, DB, u.ID, pi.Bio, pi.AvatarURL)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Profile updated").WithData(profile).Send()
}

// ReportProfile flags another user's profile for moderation.
func ReportProfile(c *fiber.Ctx) error {
	u := auth.CurrentUser(c)
	if err := user.ReportProfile(c.Context(), Redis, DB, u.ID, c.Params("username")); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Profile reported").Send()
}

// DeactivateAccount retires the caller's own account, scrubbing the
// identity and removing everything they authored.
func DeactivateAccount(c *fiber.Ctx) error {
	u := auth.CurrentUser(c)
	if err := models.DeactivateUser(c.Context(), Redis, DB, u, u.ID, Media); err != nil {
		return utils.SendError(c, err)
	}

	if accessToken := c.Cookies("access_token"); accessToken != "" {
		Redis.Set(c.Context(), "blacklist:access:"+accessToken, "1", auth.AccessTokenTTL)
	}
	if refreshToken := c.Cookies("refresh_token"); refreshToken != "" {
		Redis.Set(c.Context(), "blacklist:refresh:"+refreshToken, "1", auth.RefreshTokenTTL)
		Redis.Del(c.Context(), "refresh:"+refreshToken)
	}
	c.ClearCookie("access_token")
	c.ClearCookie("refresh_token")

	Logger.Info(c.Context()).WithFields("user_id", u.ID.String()).Logs("Account deactivated")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Account deactivated",
	})
}
