package v1

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ssko7098/Harmonize/internal/auth"
	music "github.com/ssko7098/Harmonize/internal/models/music"
	"github.com/ssko7098/Harmonize/pkg/utils"
)

func parseID(c *fiber.Ctx, param, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, utils.NewError(utils.ErrBadRequest.Code, "Invalid "+what+" id")
	}
	return id, nil
}

// SongUploadInput covers the metadata fields of the upload form. The
// filename carries the mp3file rule so the extension check lives with
// the rest of the validation.
type SongUploadInput struct {
	Title    string `json:"title" validate:"required,max=255"`
	Filename string `json:"mp3" validate:"required,mp3file"`
}

// UploadSong takes a multipart form with the mp3, optional cover art and
// metadata, stores the files and registers the song. When transcription
// is on, lyrics are fetched in the background and filled in later.
func UploadSong(c *fiber.Ctx) error {
	u := auth.CurrentUser(c)

	title := strings.TrimSpace(c.FormValue("title"))
	duration, _ := strconv.Atoi(c.FormValue("duration"))

	var albumID *uuid.UUID
	if raw := c.FormValue("album_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid album id",
			})
		}
		album, err := music.GetAlbumByID(c.Context(), DB, id)
		if err != nil {
			return utils.SendError(c, err)
		}
		if album.UserID != u.ID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You do not own this album",
			})
		}
		albumID = &album.ID
	}

	mp3Header, err := c.FormFile("mp3")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "mp3 file is required",
		})
	}

	si := &SongUploadInput{Title: title, Filename: mp3Header.Filename}
	if errs := Validator.Validate(si); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": errs,
		})
	}

	mp3File, err := mp3Header.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not read mp3 upload",
		})
	}
	defer mp3File.Close()

	mp3Path, err := Media.SaveMP3(title, mp3File)
	if err != nil {
		return utils.SendError(c, err)
	}

	var coverPath string
	if coverHeader, err := c.FormFile("cover"); err == nil {
		coverFile, err := coverHeader.Open()
		if err == nil {
			coverPath, err = Media.SaveCover(coverHeader.Filename, coverFile)
			coverFile.Close()
			if err != nil {
				Media.Remove(mp3Path)
				return utils.SendError(c, err)
			}
		}
	}

	song, err := music.NewSong(c.Context(), Redis, DB, u.ID, title, duration, mp3Path, coverPath, albumID)
	if err != nil {
		Media.Remove(mp3Path)
		if coverPath != "" {
			Media.Remove(coverPath)
		}
		return utils.SendError(c, err)
	}

	if Transcriber != nil {
		go transcribeLyrics(song.ID, mp3Path)
	}

	Logger.Info(c.Context()).WithFields("song_id", song.ID.String()).Logs("Song uploaded: " + title)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Song uploaded",
		"song":    song,
	})
}

// transcribeLyrics runs after upload, outside the request. Failures are
// logged and the song simply stays without lyrics.
func transcribeLyrics(songID uuid.UUID, mp3Path string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	f, err := Media.Open(mp3Path)
	if err != nil {
		Logger.Warn(ctx).WithFields("song_id", songID.String()).Logs("Transcription skipped, media unreadable")
		return
	}
	defer f.Close()

	uploadURL, err := Transcriber.Upload(ctx, f)
	if err != nil {
		Logger.Warn(ctx).WithFields("song_id", songID.String(), "error", err.Error()).Logs("Lyric upload failed")
		return
	}
	lyrics, err := Transcriber.Transcribe(ctx, uploadURL)
	if err != nil {
		Logger.Warn(ctx).WithFields("song_id", songID.String(), "error", err.Error()).Logs("Lyric transcription failed")
		return
	}
	if err := music.SetLyrics(ctx, DB, songID, lyrics); err != nil {
		Logger.Warn(ctx).WithFields("song_id", songID.String(), "error", err.Error()).Logs("Failed to store lyrics")
		return
	}
	Logger.Info(ctx).WithFields("song_id", songID.String()).Logs("Lyrics transcribed")
}

// GetSong returns one song with its lyrics.
func GetSong(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "song")
	if err != nil {
		return utils.SendError(c, err)
	}
	song, err := music.GetSongByID(c.Context(), DB, id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, song)
}

// StreamSong serves the stored mp3.
func StreamSong(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "song")
	if err != nil {
		return utils.SendError(c, err)
	}
	song, err := music.GetSongByID(c.Context(), DB, id)
	if err != nil {
		return utils.SendError(c, err)
	}
	if song.MP3Path == "" {
		return utils.SendError(c, utils.NewError(utils.ErrNotFound.Code, "Media file not found"))
	}
	return c.SendFile(Media.AbsPath(song.MP3Path))
}

// DeleteSong removes a song the caller owns, or any song for admins.
func DeleteSong(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "song")
	if err != nil {
		return utils.SendError(c, err)
	}
	u := auth.CurrentUser(c)
	if err := music.DeleteSong(c.Context(), Redis, DB, u, id, Media); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Song deleted").Send()
}

// LikeSong toggles the caller's like on a song.
func LikeSong(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "song")
	if err != nil {
		return utils.SendError(c, err)
	}
	u := auth.CurrentUser(c)
	if err := music.ToggleSongLike(c.Context(), Redis, DB, u.ID, id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Reaction updated").Send()
}

// ReportSong flags a song for moderation, once per reporter.
func ReportSong(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "song")
	if err != nil {
		return utils.SendError(c, err)
	}
	u := auth.CurrentUser(c)
	if err := music.ReportSong(c.Context(), Redis, DB, u.ID, id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Song reported").Send()
}

// LikedSongs lists the caller's liked songs.
func LikedSongs(c *fiber.Ctx) error {
	u := auth.CurrentUser(c)
	songs, err := music.LikedSongs(c.Context(), DB, u.ID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, songs)
}

// CreatePlaylist makes an empty playlist for the caller.
func CreatePlaylist(c *fiber.Ctx) error {
	type PlaylistInput struct {
		Name        string `json:"name" validate:"required,min=1,max=50"`
		Description string `json:"description" validate:"omitempty,max=500"`
	}
	pi := new(PlaylistInput)
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
	playlist, err := music.NewPlaylist(c.Context(), Redis, DB, u.ID, pi.Name, pi.Description)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Playlist created",
		"playlist": playlist,
	})
}

// MyPlaylists lists the caller's playlists.
func MyPlaylists(c *fiber.Ctx) error {
	u := auth.CurrentUser(c)
	playlists, err := music.UserPlaylists(c.Context(), DB, u.ID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, playlists)
}

// ViewPlaylist shows one of the caller's playlists with its songs.
func ViewPlaylist(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "playlist")
	if err != nil {
		return utils.SendError(c, err)
	}
	u := auth.CurrentUser(c)
	playlist, songs, err := music.PlaylistSongs(c.Context(), DB, u.ID, id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithData(fiber.Map{
		"playlist": playlist,
		"songs":    songs,
	}).Send()
}

// RenamePlaylist edits the name or description of one of the caller's
// playlists.
func RenamePlaylist(c *fiber.Ctx) error {
	type PlaylistInput struct {
		Name        string `json:"name" validate:"omitempty,max=50"`
		Description string `json:"description" validate:"omitempty,max=500"`
	}
	pi := new(PlaylistInput)
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

	id, err := parseID(c, "id", "playlist")
	if err != nil {
		return utils.SendError(c, err)
	}
	u := auth.CurrentUser(c)
	playlist, err := music.UpdatePlaylist(c.Context(), Redis, DB, u.ID, id, pi.Name, pi.Description)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Playlist updated").WithData(playlist).Send()
}

// DeletePlaylist removes one of the caller's playlists.
func DeletePlaylist(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "playlist")
	if err != nil {
		return utils.SendError(c, err)
	}
	u := auth.CurrentUser(c)
	if err := music.DeletePlaylist(c.Context(), Redis, DB, u.ID, id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Playlist deleted").Send()
}

// AddSongToPlaylist links a song into one of the caller's playlists.
func AddSongToPlaylist(c *fiber.Ctx) error {
	playlistID, err := parseID(c, "id", "playlist")
	if err != nil {
		return utils.SendError(c, err)
	}
	songID, err := parseID(c, "song_id", "song")
	if err != nil {
		return utils.SendError(c, err)
	}
	u := auth.CurrentUser(c)
	if err := music.AddSongToPlaylist(c.Context(), Redis, DB, u.ID, playlistID, songID); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Song added to playlist").Send()
}

// RemoveSongFromPlaylist unlinks a song from one of the caller's playlists.
func RemoveSongFromPlaylist(c *fiber.Ctx) error {
	playlistID, err := parseID(c, "id", "playlist")
	if err != nil {
		return utils.SendError(c, err)
	}
	songID, err := parseID(c, "song_id", "song")
	if err != nil {
		return utils.SendError(c, err)
	}
	u := auth.CurrentUser(c)
	if err := music.RemoveSongFromPlaylist(c.Context(), Redis, DB, u.ID, playlistID, songID); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Song removed from playlist").Send()
}

// CreateAlbum makes an album, with optional cover art.
func CreateAlbum(c *fiber.Ctx) error {
	u := auth.CurrentUser(c)

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}

	var coverPath string
	if coverHeader, err := c.FormFile("cover"); err == nil {
		coverFile, err := coverHeader.Open()
		if err == nil {
			coverPath, err = Media.SaveCover(coverHeader.Filename, coverFile)
			coverFile.Close()
			if err != nil {
				return utils.SendError(c, err)
			}
		}
	}

	album, err := music.NewAlbum(c.Context(), Redis, DB, u.ID, title, coverPath)
	if err != nil {
		if coverPath != "" {
			Media.Remove(coverPath)
		}
		return utils.SendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Album created",
		"album":   album,
	})
}

// MyAlbums lists the caller's albums.
func MyAlbums(c *fiber.Ctx) error {
	u := auth.CurrentUser(c)
	albums, err := music.UserAlbums(c.Context(), DB, u.ID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, albums)
}

// ViewAlbum shows an album and its songs.
func ViewAlbum(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "album")
	if err != nil {
		return utils.SendError(c, err)
	}
	album, err := music.GetAlbumByID(c.Context(), DB, id)
	if err != nil {
		return utils.SendError(c, err)
	}
	songs, err := music.AlbumSongs(c.Context(), DB, album.ID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithData(fiber.Map{
		"album": album,
		"songs": songs,
	}).Send()
}

// DeleteAlbum removes an album the caller owns, detaching its songs.
func DeleteAlbum(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "album")
	if err != nil {
		return utils.SendError(c, err)
	}
	u := auth.CurrentUser(c)
	if err := music.DeleteAlbum(c.Context(), Redis, DB, u, id, Media); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Album deleted").Send()
}
