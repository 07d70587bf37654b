package models

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/ssko7098/Harmonize/pkg/utils"
)

func TestAddSongToPlaylist(t *testing.T) {
	db, mock := newMockDB(t)
	ownerID := uuid.New()
	playlistID := uuid.New()
	songID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "playlists"`).
		WillReturnRows(playlistRow(playlistID, ownerID, "road trip"))
	mock.ExpectQuery(`SELECT (.+) FROM "songs"`).
		WillReturnRows(songRow(songID, uuid.New(), "songs/track.mp3", ""))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "playlist_songs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO "playlist_songs"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := AddSongToPlaylist(context.Background(), nil, db, ownerID, playlistID, songID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSongToPlaylistDuplicateConflict(t *testing.T) {
	db, mock := newMockDB(t)
	ownerID := uuid.New()
	playlistID := uuid.New()
	songID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "playlists"`).
		WillReturnRows(playlistRow(playlistID, ownerID, "road trip"))
	mock.ExpectQuery(`SELECT (.+) FROM "songs"`).
		WillReturnRows(songRow(songID, uuid.New(), "songs/track.mp3", ""))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "playlist_songs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := AddSongToPlaylist(context.Background(), nil, db, ownerID, playlistID, songID)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrConflict.Code))
	require.Contains(t, err.Error(), "Song already in the playlist.")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSongToPlaylistConcurrentDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	ownerID := uuid.New()
	playlistID := uuid.New()
	songID := uuid.New()

	// A racing add commits between the count and the insert, so the
	// composite key fires. Still a conflict, not a server error.
	mock.ExpectQuery(`SELECT (.+) FROM "playlists"`).
		WillReturnRows(playlistRow(playlistID, ownerID, "road trip"))
	mock.ExpectQuery(`SELECT (.+) FROM "songs"`).
		WillReturnRows(songRow(songID, uuid.New(), "songs/track.mp3", ""))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "playlist_songs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO "playlist_songs"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "playlist_songs_pkey" (SQLSTATE 23505)`))

	err := AddSongToPlaylist(context.Background(), nil, db, ownerID, playlistID, songID)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrConflict.Code))
	require.Contains(t, err.Error(), "Song already in the playlist.")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSongToSomeoneElsesPlaylist(t *testing.T) {
	db, mock := newMockDB(t)

	// Owner-scoped lookup, so a foreign playlist comes back empty.
	mock.ExpectQuery(`SELECT (.+) FROM "playlists"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := AddSongToPlaylist(context.Background(), nil, db, uuid.New(), uuid.New(), uuid.New())
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrNotFound.Code))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveSongNotInPlaylist(t *testing.T) {
	db, mock := newMockDB(t)
	ownerID := uuid.New()
	playlistID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "playlists"`).
		WillReturnRows(playlistRow(playlistID, ownerID, "road trip"))
	mock.ExpectExec(`DELETE FROM "playlist_songs"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := RemoveSongFromPlaylist(context.Background(), nil, db, ownerID, playlistID, uuid.New())
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrNotFound.Code))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveSongFromPlaylist(t *testing.T) {
	db, mock := newMockDB(t)
	ownerID := uuid.New()
	playlistID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "playlists"`).
		WillReturnRows(playlistRow(playlistID, ownerID, "road trip"))
	mock.ExpectExec(`DELETE FROM "playlist_songs"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := RemoveSongFromPlaylist(context.Background(), nil, db, ownerID, playlistID, uuid.New())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePlaylistRemovesLinks(t *testing.T) {
	db, mock := newMockDB(t)
	ownerID := uuid.New()
	playlistID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "playlists"`).
		WillReturnRows(playlistRow(playlistID, ownerID, "old mix"))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "playlist_songs"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "playlists"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := DeletePlaylist(context.Background(), nil, db, ownerID, playlistID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
