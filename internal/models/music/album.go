package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	user "github.com/ssko7098/Harmonize/internal/models/user"
	storage "github.com/ssko7098/Harmonize/pkg/redis"
	"github.com/ssko7098/Harmonize/pkg/utils"
	"gorm.io/gorm"
)

// Album groups an uploader's songs. Songs keep a nullable AlbumID so an
// album deletion strands its songs rather than destroying them.
type Album struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_album_owner" json:"user_id"`
	Title       string    `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	CoverPath   string    `gorm:"size:255" json:"cover_path"`
	ReportCount int       `gorm:"default:0" json:"report_count"`
}

// NewAlbum creates an album for ownerID.
func NewAlbum(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, ownerID uuid.UUID, title, coverPath string) (*Album, error) {
	a := &Album{UserID: ownerID, Title: title, CoverPath: coverPath}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create album")
	}
	return a, nil
}

// GetAlbumByID loads one album.
func GetAlbumByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Album, error) {
	var a Album
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Album not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get album")
	}
	return &a, nil
}

// UserAlbums lists a user's albums, newest first.
func UserAlbums(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]Album, error) {
	var albums []Album
	if err := db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&albums).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load albums")
	}
	return albums, nil
}

// AlbumSongs lists the songs grouped under an album.
func AlbumSongs(ctx context.Context, db *gorm.DB, albumID uuid.UUID) ([]Song, error) {
	var songs []Song
	if err := db.WithContext(ctx).
		Where("album_id = ?", albumID).
		Order("created_at ASC").
		Find(&songs).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load album songs")
	}
	return songs, nil
}

// DeleteAlbum removes an album owned by the actor, or by anyone when the
// actor is an admin. Songs in the album are detached, not deleted.
func DeleteAlbum(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, actor *user.User, albumID uuid.UUID, remover MediaRemover) error {
	a, err := GetAlbumByID(ctx, db, albumID)
	if err != nil {
		return err
	}
	if a.UserID != actor.ID && !actor.IsAdmin {
		return utils.NewError(utils.ErrForbidden.Code, "You do not own this album")
	}

	if remover != nil && a.CoverPath != "" {
		remover.Remove(a.CoverPath)
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Song{}).Where("album_id = ?", a.ID).
			UpdateColumn("album_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", a.ID).Delete(&Album{}).Error
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete album")
	}
	return nil
}
