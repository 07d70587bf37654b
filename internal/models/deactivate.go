package models

import (
	"context"

	"github.com/google/uuid"
	comments "github.com/ssko7098/Harmonize/internal/models/comments"
	music "github.com/ssko7098/Harmonize/internal/models/music"
	user "github.com/ssko7098/Harmonize/internal/models/user"
	storage "github.com/ssko7098/Harmonize/pkg/redis"
	"github.com/ssko7098/Harmonize/pkg/utils"
	"gorm.io/gorm"
)

// DeactivateUser retires an account. The row stays so old references keep
// resolving, but the identity is scrubbed and everything the user authored
// is removed: their comment threads (replies by others included), their
// songs and media, their playlists and their albums. Users may retire
// themselves; admins may retire anyone.
func DeactivateUser(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, actor *user.User, targetID uuid.UUID, remover music.MediaRemover) error {
	if actor.ID != targetID && !actor.IsAdmin {
		return utils.NewError(utils.ErrForbidden.Code, "You cannot deactivate another user")
	}

	target, err := user.GetUserBy(ctx, nil, db, "id = ?", []interface{}{targetID})
	if err != nil {
		return err
	}

	// Media unlinks happen outside the transaction; a leftover file is
	// recoverable, a half-applied cascade is not.
	var songs []music.Song
	if err := db.WithContext(ctx).Where("user_id = ?", target.ID).Find(&songs).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load songs")
	}
	if remover != nil {
		for _, s := range songs {
			if s.MP3Path != "" {
				remover.Remove(s.MP3Path)
			}
			if s.CoverPath != "" {
				remover.Remove(s.CoverPath)
			}
		}
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Comments the user wrote, with every reply under them.
		var roots []uuid.UUID
		if err := tx.Model(&comments.Comment{}).
			Where("user_id = ?", target.ID).
			Pluck("id", &roots).Error; err != nil {
			return err
		}
		ids, err := comments.CollectThreadIDs(tx, roots)
		if err != nil {
			return err
		}
		if err := comments.DeleteCommentRows(tx, ids); err != nil {
			return err
		}

		// Songs and their membership and playlist links.
		var songIDs []uuid.UUID
		if err := tx.Model(&music.Song{}).
			Where("user_id = ?", target.ID).
			Pluck("id", &songIDs).Error; err != nil {
			return err
		}
		if len(songIDs) > 0 {
			if err := tx.Where("song_id IN ?", songIDs).Delete(&music.SongLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("song_id IN ?", songIDs).Delete(&music.SongReport{}).Error; err != nil {
				return err
			}
			if err := tx.Where("song_id IN ?", songIDs).Delete(&music.PlaylistSong{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", songIDs).Delete(&music.Song{}).Error; err != nil {
				return err
			}
		}

		// Playlists and albums.
		var playlistIDs []uuid.UUID
		if err := tx.Model(&music.Playlist{}).
			Where("user_id = ?", target.ID).
			Pluck("id", &playlistIDs).Error; err != nil {
			return err
		}
		if len(playlistIDs) > 0 {
			if err := tx.Where("playlist_id IN ?", playlistIDs).Delete(&music.PlaylistSong{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", playlistIDs).Delete(&music.Playlist{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", target.ID).Delete(&music.Album{}).Error; err != nil {
			return err
		}

		// Reports filed against the profile, then the profile itself is
		// reset to a blank wall.
		var profile user.Profile
		if err := tx.Where("user_id = ?", target.ID).First(&profile).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&user.ProfileReport{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&user.Profile{}).Where("id = ?", profile.ID).
			Updates(map[string]interface{}{
				"bio":          "",
				"avatar_url":   "",
				"report_count": 0,
			}).Error; err != nil {
			return err
		}

		target.Anonymize()
		return tx.Save(target).Error
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to deactivate user")
	}

	user.InvalidateUserCache(ctx, rclient, target.ID)
	return nil
}
