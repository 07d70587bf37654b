package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	storage "github.com/ssko7098/Harmonize/pkg/redis"
	"github.com/ssko7098/Harmonize/pkg/utils"
	"gorm.io/gorm"
)

// User is the authenticated principal. Deactivation anonymizes the row
// instead of deleting it; everything the user owns is removed separately.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Username   string `gorm:"size:255;not null;unique" json:"username" validate:"required,min=3,max=255,alphanum"`
	FullName   string `gorm:"size:100" json:"full_name" validate:"omitempty,max=100"`
	Email      string `gorm:"size:100;not null;unique" json:"email" validate:"required,email"`
	Password   string `gorm:"size:255;not null" json:"-" validate:"required,min=6"`
	OTP        string `gorm:"size:255" json:"-"`
	IsActive   bool   `gorm:"default:false" json:"is_active"`
	IsAdmin    bool   `gorm:"default:false" json:"is_admin"`
	IsVerified bool   `gorm:"default:false" json:"is_verified"`

	Profile Profile `gorm:"foreignKey:UserID" json:"profile"`
}

// UserOption configures a User.
type UserOption func(*User)

// NewUser creates a user together with its profile in one transaction.
func NewUser(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, username, email, hashedPassword string, opts ...UserOption) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "user creation canceled")
	}

	u := &User{
		Username: username,
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: hashedPassword,
	}

	for _, opt := range opts {
		opt(u)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		u.Profile = Profile{UserID: u.ID}
		return tx.Create(&u.Profile).Error
	})
	if err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			return nil, utils.NewError(utils.ErrConflict.Code, "Username or email already exists")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create user in database")
	}

	cacheUser(ctx, rclient, u)
	return u, nil
}

// GetUserBy retrieves a user by an arbitrary condition, with optional preloads.
func GetUserBy(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, condition string, args []interface{}, preload ...string) (*User, error) {
	var u User
	query := db.WithContext(ctx).Where(condition, args...)
	for _, p := range preload {
		if p != "" {
			query = query.Preload(p)
		}
	}
	if err := query.First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "User not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get user")
	}

	return &u, nil
}

// UpdateUser applies options to a user row and refreshes the cache.
func UpdateUser(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, id uuid.UUID, opts ...UserOption) (*User, error) {
	u, err := GetUserBy(ctx, rclient, db, "id = ?", []interface{}{id})
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(u)
	}

	if err := db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update user")
	}

	cacheUser(ctx, rclient, u)
	return u, nil
}

// VerifyOTP checks the activation code against the stored hash and, on
// success, marks the account active and verified.
func (u *User) VerifyOTP(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, otp int64) error {
	if u.OTP == "" {
		return utils.NewError(utils.ErrBadRequest.Code, "No activation pending")
	}
	if err := utils.ComparePasswords(u.OTP, fmt.Sprintf("%d", otp)); err != nil {
		return utils.NewError(utils.ErrBadRequest.Code, "Invalid activation code")
	}

	u.IsActive = true
	u.IsVerified = true
	u.OTP = ""
	if err := db.WithContext(ctx).Save(u).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to activate account")
	}

	cacheUser(ctx, rclient, u)
	return nil
}

// Anonymize scrubs identifying fields in place. The row stays behind so
// foreign keys from moderation history keep resolving.
func (u *User) Anonymize() {
	short := strings.ReplaceAll(u.ID.String(), "-", "")[:8]
	u.Username = "deleted-user-" + short
	u.Email = u.ID.String() + "@deleted.invalid"
	u.FullName = ""
	u.Password = ""
	u.OTP = ""
	u.IsActive = false
	u.IsVerified = false
}

// CanModerate reports whether the user may act on content it does not own.
func (u *User) CanModerate() bool {
	return u.IsAdmin
}

func cacheUser(ctx context.Context, rclient *storage.RedisClient, u *User) {
	if rclient == nil {
		return
	}
	userJSON, err := json.Marshal(u)
	if err != nil {
		return
	}
	rclient.Set(ctx, "user:"+u.ID.String(), userJSON, 10*time.Minute)
}

// InvalidateUserCache drops the cached copy after a mutation elsewhere.
func InvalidateUserCache(ctx context.Context, rclient *storage.RedisClient, id uuid.UUID) {
	if rclient == nil {
		return
	}
	rclient.Del(ctx, "user:"+id.String())
}
