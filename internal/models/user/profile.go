package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	storage "github.com/ssko7098/Harmonize/pkg/redis"
	"github.com/ssko7098/Harmonize/pkg/utils"
	"gorm.io/gorm"
)

// Profile is the user's public wall. ReportCount always equals the number
// of ProfileReport rows; both move inside one transaction.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Bio         string    `gorm:"type:text" json:"bio" validate:"omitempty,max=500"`
	AvatarURL   string    `gorm:"size:255" json:"avatar_url" validate:"omitempty,url"`
	ReportCount int       `gorm:"default:0" json:"report_count"`

	ReportedBy []ProfileReport `gorm:"foreignKey:ProfileID" json:"-"`
}

// ProfileReport records that a user reported a profile, at most once.
type ProfileReport struct {
	ProfileID uuid.UUID `gorm:"type:uuid;primaryKey" json:"profile_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
}

// GetProfileByUsername resolves a profile through its owner's username.
func GetProfileByUsername(ctx context.Context, db *gorm.DB, username string) (*Profile, *User, error) {
	u, err := GetUserBy(ctx, nil, db, "username = ?", []interface{}{username})
	if err != nil {
		return nil, nil, err
	}

	var p Profile
	if err := db.WithContext(ctx).Where("user_id = ?", u.ID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, utils.NewError(utils.ErrNotFound.Code, "Profile not found")
		}
		return nil, nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get profile")
	}
	return &p, u, nil
}

// UpdateProfile edits the owner's bio and avatar.
func UpdateProfile(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, ownerID uuid.UUID, bio, avatarURL string) (*Profile, error) {
	var p Profile
	if err := db.WithContext(ctx).Where("user_id = ?", ownerID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Profile not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get profile")
	}

	p.Bio = bio
	p.AvatarURL = avatarURL
	if err := db.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update profile")
	}

	InvalidateUserCache(ctx, rclient, ownerID)
	return &p, nil
}

// ReportProfile raises an idempotent moderation flag against a profile.
// Reporting your own profile is blocked; a repeat report is a no-op.
func ReportProfile(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, actorID uuid.UUID, username string) error {
	p, owner, err := GetProfileByUsername(ctx, db, username)
	if err != nil {
		return err
	}
	if owner.ID == actorID {
		return utils.NewError(utils.ErrForbidden.Code, "You cannot report your own profile")
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&ProfileReport{}).
			Where("profile_id = ? AND user_id = ?", p.ID, actorID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}
		if err := tx.Create(&ProfileReport{ProfileID: p.ID, UserID: actorID}).Error; err != nil {
			return err
		}
		return tx.Model(&Profile{}).Where("id = ?", p.ID).
			UpdateColumn("report_count", gorm.Expr("report_count + 1")).Error
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to report profile")
	}

	InvalidateUserCache(ctx, rclient, owner.ID)
	return nil
}

// ClearProfileReports wipes the reporter set and zeroes the counter.
// Callers must gate this behind the admin flag.
func ClearProfileReports(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, profileID uuid.UUID) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profileID).Delete(&ProfileReport{}).Error; err != nil {
			return err
		}
		return tx.Model(&Profile{}).Where("id = ?", profileID).
			UpdateColumn("report_count", 0).Error
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to clear profile reports")
	}
	return nil
}
