// Package moderation backs the admin review queues: everything with an
// open report, most-reported first.
package moderation

import (
	"context"

	comments "github.com/ssko7098/Harmonize/internal/models/comments"
	music "github.com/ssko7098/Harmonize/internal/models/music"
	user "github.com/ssko7098/Harmonize/internal/models/user"
	"github.com/ssko7098/Harmonize/pkg/utils"
	"gorm.io/gorm"
)

// ReportedComments lists comments with at least one open report.
func ReportedComments(ctx context.Context, db *gorm.DB) ([]comments.Comment, error) {
	var out []comments.Comment
	if err := db.WithContext(ctx).
		Where("report_count > 0").
		Order("report_count DESC").
		Find(&out).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load reported comments")
	}
	return out, nil
}

// ReportedProfiles lists profiles with at least one open report.
func ReportedProfiles(ctx context.Context, db *gorm.DB) ([]user.Profile, error) {
	var out []user.Profile
	if err := db.WithContext(ctx).
		Where("report_count > 0").
		Order("report_count DESC").
		Find(&out).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load reported profiles")
	}
	return out, nil
}

// ReportedSongs lists songs with at least one open report.
func ReportedSongs(ctx context.Context, db *gorm.DB) ([]music.Song, error) {
	var out []music.Song
	if err := db.WithContext(ctx).
		Where("report_count > 0").
		Order("report_count DESC").
		Find(&out).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load reported songs")
	}
	return out, nil
}
