package models

import (
	comments "github.com/ssko7098/Harmonize/internal/models/comments"
	music "github.com/ssko7098/Harmonize/internal/models/music"
	user "github.com/ssko7098/Harmonize/internal/models/user"
)

// RegisterModels returns every persistent type for AutoMigrate, link
// tables last so their foreign columns already exist.
func RegisterModels() []interface{} {
	return []interface{}{
		&user.User{},
		&user.Profile{},
		&comments.Comment{},
		&music.Album{},
		&music.Song{},
		&music.Playlist{},
		&user.ProfileReport{},
		&comments.CommentLike{},
		&comments.CommentDislike{},
		&comments.CommentReport{},
		&music.SongLike{},
		&music.SongReport{},
		&music.PlaylistSong{},
	}
}
