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

// Song is an uploaded track. MP3Path and CoverPath reference blobs in the
// media store; deleting the song is responsible for removing them.
type Song struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	UserID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_song_owner" json:"user_id"`
	AlbumID *uuid.UUID `gorm:"type:uuid;index:idx_song_album" json:"album_id"`

	Title     string `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Duration  int    `gorm:"default:0" json:"duration"` // seconds
	MP3Path   string `gorm:"size:255" json:"mp3_path"`
	CoverPath string `gorm:"size:255" json:"cover_path"`
	Lyrics    string `gorm:"type:text" json:"lyrics"`

	Likes       int `gorm:"default:0" json:"likes"`
	ReportCount int `gorm:"default:0" json:"report_count"`

	Owner user.User `gorm:"foreignKey:UserID" json:"-"`
}

type SongLike struct {
	SongID uuid.UUID `gorm:"type:uuid;primaryKey" json:"song_id"`
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
}

type SongReport struct {
	SongID uuid.UUID `gorm:"type:uuid;primaryKey" json:"song_id"`
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
}

// MediaRemover deletes a stored media blob by its path. Satisfied by
// the media store; kept as an interface so tests can observe removals.
type MediaRemover interface {
	Remove(path string) error
}

// NewSong registers an uploaded track.
func NewSong(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, ownerID uuid.UUID, title string, duration int, mp3Path, coverPath string, albumID *uuid.UUID) (*Song, error) {
	s := &Song{
		UserID:    ownerID,
		AlbumID:   albumID,
		Title:     title,
		Duration:  duration,
		MP3Path:   mp3Path,
		CoverPath: coverPath,
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to save song")
	}
	return s, nil
}

// GetSongByID loads one song.
func GetSongByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Song, error) {
	var s Song
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Song not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get song")
	}
	return &s, nil
}

// SetLyrics stores the transcription text once it comes back.
func SetLyrics(ctx context.Context, db *gorm.DB, songID uuid.UUID, lyrics string) error {
	return db.WithContext(ctx).Model(&Song{}).Where("id = ?", songID).
		UpdateColumn("lyrics", lyrics).Error
}

// DeleteSong removes a track, its membership sets, its playlist links and
// its media files. Media removal is attempted first and is best-effort:
// a failed unlink never blocks the metadata deletion. Only the owner or
// an admin may delete.
func DeleteSong(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, actor *user.User, songID uuid.UUID, remover MediaRemover) error {
	s, err := GetSongByID(ctx, db, songID)
	if err != nil {
		return err
	}
	if s.UserID != actor.ID && !actor.IsAdmin {
		return utils.NewError(utils.ErrForbidden.Code, "You do not own this song")
	}

	if remover != nil {
		if s.MP3Path != "" {
			remover.Remove(s.MP3Path)
		}
		if s.CoverPath != "" {
			remover.Remove(s.CoverPath)
		}
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("song_id = ?", s.ID).Delete(&SongLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("song_id = ?", s.ID).Delete(&SongReport{}).Error; err != nil {
			return err
		}
		if err := tx.Where("song_id = ?", s.ID).Delete(&PlaylistSong{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", s.ID).Delete(&Song{}).Error
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete song")
	}

	invalidateSong(ctx, rclient, s.ID)
	return nil
}

// ToggleSongLike adds actorID to the liked set, or removes it when it is
// already there. Songs only have likes; there is no dislike.
func ToggleSongLike(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, actorID, songID uuid.UUID) error {
	s, err := GetSongByID(ctx, db, songID)
	if err != nil {
		return err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&SongLike{}).
			Where("song_id = ? AND user_id = ?", s.ID, actorID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			if err := tx.Where("song_id = ? AND user_id = ?", s.ID, actorID).
				Delete(&SongLike{}).Error; err != nil {
				return err
			}
			return tx.Model(&Song{}).Where("id = ?", s.ID).
				UpdateColumn("likes", gorm.Expr("likes - 1")).Error
		}
		if err := tx.Create(&SongLike{SongID: s.ID, UserID: actorID}).Error; err != nil {
			return err
		}
		return tx.Model(&Song{}).Where("id = ?", s.ID).
			UpdateColumn("likes", gorm.Expr("likes + 1")).Error
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update song like")
	}

	invalidateSong(ctx, rclient, s.ID)
	return nil
}

// ReportSong flags a song for moderation, once per reporter.
func ReportSong(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, actorID, songID uuid.UUID) error {
	s, err := GetSongByID(ctx, db, songID)
	if err != nil {
		return err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&SongReport{}).
			Where("song_id = ? AND user_id = ?", s.ID, actorID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}
		if err := tx.Create(&SongReport{SongID: s.ID, UserID: actorID}).Error; err != nil {
			return err
		}
		return tx.Model(&Song{}).Where("id = ?", s.ID).
			UpdateColumn("report_count", gorm.Expr("report_count + 1")).Error
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to report song")
	}

	invalidateSong(ctx, rclient, s.ID)
	return nil
}

// ClearSongReports wipes the reporter set and zeroes the counter.
// Callers must gate this behind the admin flag.
func ClearSongReports(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, songID uuid.UUID) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("song_id = ?", songID).Delete(&SongReport{}).Error; err != nil {
			return err
		}
		return tx.Model(&Song{}).Where("id = ?", songID).
			UpdateColumn("report_count", 0).Error
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to clear song reports")
	}

	invalidateSong(ctx, rclient, songID)
	return nil
}

// LikedSongs lists the songs a user has liked, most recently added first.
func LikedSongs(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]Song, error) {
	var songs []Song
	if err := db.WithContext(ctx).
		Joins("JOIN song_likes ON song_likes.song_id = songs.id").
		Where("song_likes.user_id = ?", userID).
		Order("songs.created_at DESC").
		Find(&songs).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load liked songs")
	}
	return songs, nil
}

// UserSongs lists the songs a user owns.
func UserSongs(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]Song, error) {
	var songs []Song
	if err := db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&songs).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load songs")
	}
	return songs, nil
}

func invalidateSong(ctx context.Context, rclient *storage.RedisClient, id uuid.UUID) {
	if rclient == nil {
		return
	}
	rclient.Del(ctx, "song:"+id.String())
}
