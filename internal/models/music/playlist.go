package models

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	storage "github.com/ssko7098/Harmonize/pkg/redis"
	"github.com/ssko7098/Harmonize/pkg/utils"
	"gorm.io/gorm"
)

// Playlist is a user-owned ordered-by-insertion collection of songs.
type Playlist struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_playlist_owner" json:"user_id"`
	Name        string    `gorm:"size:50;not null" json:"name" validate:"required,max=50"`
	Description string    `gorm:"type:text" json:"description" validate:"omitempty,max=500"`
}

// PlaylistSong links a song into a playlist. The composite primary key
// keeps each song in a playlist at most once.
type PlaylistSong struct {
	PlaylistID uuid.UUID `gorm:"type:uuid;primaryKey" json:"playlist_id"`
	SongID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"song_id"`
}

// NewPlaylist creates an empty playlist for ownerID.
func NewPlaylist(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, ownerID uuid.UUID, name, description string) (*Playlist, error) {
	p := &Playlist{UserID: ownerID, Name: name, Description: description}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create playlist")
	}
	invalidatePlaylists(ctx, rclient, ownerID)
	return p, nil
}

// getOwnedPlaylist loads a playlist scoped to its owner. A playlist that
// exists but belongs to someone else looks the same as a missing one.
func getOwnedPlaylist(ctx context.Context, db *gorm.DB, ownerID, playlistID uuid.UUID) (*Playlist, error) {
	var p Playlist
	if err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", playlistID, ownerID).
		First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Playlist not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get playlist")
	}
	return &p, nil
}

// UpdatePlaylist edits the name and description of an owned playlist.
// Empty arguments leave the existing value alone.
func UpdatePlaylist(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, ownerID, playlistID uuid.UUID, name, description string) (*Playlist, error) {
	p, err := getOwnedPlaylist(ctx, db, ownerID, playlistID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		p.Name = name
	}
	if description != "" {
		p.Description = description
	}
	if err := db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update playlist")
	}

	invalidatePlaylists(ctx, rclient, ownerID)
	return p, nil
}

// DeletePlaylist removes an owned playlist and its song links. The songs
// themselves are untouched.
func DeletePlaylist(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, ownerID, playlistID uuid.UUID) error {
	p, err := getOwnedPlaylist(ctx, db, ownerID, playlistID)
	if err != nil {
		return err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", p.ID).Delete(&PlaylistSong{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", p.ID).Delete(&Playlist{}).Error
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete playlist")
	}

	invalidatePlaylists(ctx, rclient, ownerID)
	return nil
}

// AddSongToPlaylist links a song into an owned playlist. Adding a song
// that is already in the playlist is a conflict, not a silent no-op.
func AddSongToPlaylist(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, ownerID, playlistID, songID uuid.UUID) error {
	p, err := getOwnedPlaylist(ctx, db, ownerID, playlistID)
	if err != nil {
		return err
	}
	s, err := GetSongByID(ctx, db, songID)
	if err != nil {
		return err
	}

	var existing int64
	if err := db.WithContext(ctx).Model(&PlaylistSong{}).
		Where("playlist_id = ? AND song_id = ?", p.ID, s.ID).
		Count(&existing).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to check playlist")
	}
	if existing > 0 {
		return utils.NewError(utils.ErrConflict.Code, "Song already in the playlist.")
	}

	if err := db.WithContext(ctx).Create(&PlaylistSong{PlaylistID: p.ID, SongID: s.ID}).Error; err != nil {
		// A concurrent add can slip past the count; the composite key
		// rejects it and we report the same conflict.
		if strings.Contains(err.Error(), "duplicate") {
			return utils.NewError(utils.ErrConflict.Code, "Song already in the playlist.")
		}
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to add song to playlist")
	}

	invalidatePlaylists(ctx, rclient, ownerID)
	return nil
}

// RemoveSongFromPlaylist unlinks a song from an owned playlist. Removing
// a song that is not in the playlist is reported as not found.
func RemoveSongFromPlaylist(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, ownerID, playlistID, songID uuid.UUID) error {
	p, err := getOwnedPlaylist(ctx, db, ownerID, playlistID)
	if err != nil {
		return err
	}

	res := db.WithContext(ctx).
		Where("playlist_id = ? AND song_id = ?", p.ID, songID).
		Delete(&PlaylistSong{})
	if res.Error != nil {
		return utils.WrapError(res.Error, utils.ErrInternalServerError.Code, "Failed to remove song from playlist")
	}
	if res.RowsAffected == 0 {
		return utils.NewError(utils.ErrNotFound.Code, "Song not in the playlist")
	}

	invalidatePlaylists(ctx, rclient, ownerID)
	return nil
}

// PlaylistSongs lists the songs of an owned playlist in insertion order.
func PlaylistSongs(ctx context.Context, db *gorm.DB, ownerID, playlistID uuid.UUID) (*Playlist, []Song, error) {
	p, err := getOwnedPlaylist(ctx, db, ownerID, playlistID)
	if err != nil {
		return nil, nil, err
	}

	var songs []Song
	if err := db.WithContext(ctx).
		Joins("JOIN playlist_songs ON playlist_songs.song_id = songs.id").
		Where("playlist_songs.playlist_id = ?", p.ID).
		Find(&songs).Error; err != nil {
		return nil, nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load playlist songs")
	}
	return p, songs, nil
}

// UserPlaylists lists a user's playlists, newest first.
func UserPlaylists(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) ([]Playlist, error) {
	var playlists []Playlist
	if err := db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&playlists).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load playlists")
	}
	return playlists, nil
}

func invalidatePlaylists(ctx context.Context, rclient *storage.RedisClient, ownerID uuid.UUID) {
	if rclient == nil {
		return
	}
	rclient.Del(ctx, "playlists:"+ownerID.String())
}
