package models

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	user "github.com/ssko7098/Harmonize/internal/models/user"
	"github.com/ssko7098/Harmonize/pkg/utils"
)

type fakeRemover struct {
	removed []string
}

func (f *fakeRemover) Remove(path string) error {
	f.removed = append(f.removed, path)
	return nil
}

func TestToggleSongLikeAdds(t *testing.T) {
	db, mock := newMockDB(t)
	songID := uuid.New()
	actorID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "songs"`).
		WillReturnRows(songRow(songID, uuid.New(), "songs/track.mp3", ""))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "song_likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO "song_likes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "songs" SET "likes"=likes \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := ToggleSongLike(context.Background(), nil, db, actorID, songID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleSongLikeRemoves(t *testing.T) {
	db, mock := newMockDB(t)
	songID := uuid.New()
	actorID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "songs"`).
		WillReturnRows(songRow(songID, uuid.New(), "songs/track.mp3", ""))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "song_likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`DELETE FROM "song_likes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "songs" SET "likes"=likes - 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := ToggleSongLike(context.Background(), nil, db, actorID, songID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSongRemovesMediaAndLinks(t *testing.T) {
	db, mock := newMockDB(t)
	songID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "songs"`).
		WillReturnRows(songRow(songID, ownerID, "songs/track.mp3", "covers/track.jpg"))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "song_likes"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "song_reports"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "playlist_songs"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "songs"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	remover := &fakeRemover{}
	owner := &user.User{ID: ownerID}
	err := DeleteSong(context.Background(), nil, db, owner, songID, remover)
	require.NoError(t, err)
	require.Equal(t, []string{"songs/track.mp3", "covers/track.jpg"}, remover.removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSongForbiddenForStrangers(t *testing.T) {
	db, mock := newMockDB(t)
	songID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "songs"`).
		WillReturnRows(songRow(songID, uuid.New(), "songs/track.mp3", ""))

	remover := &fakeRemover{}
	stranger := &user.User{ID: uuid.New()}
	err := DeleteSong(context.Background(), nil, db, stranger, songID, remover)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrForbidden.Code))
	require.Empty(t, remover.removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSongAdminOverride(t *testing.T) {
	db, mock := newMockDB(t)
	songID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "songs"`).
		WillReturnRows(songRow(songID, uuid.New(), "songs/track.mp3", ""))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "song_likes"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "song_reports"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "playlist_songs"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "songs"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	admin := &user.User{ID: uuid.New(), IsAdmin: true}
	err := DeleteSong(context.Background(), nil, db, admin, songID, &fakeRemover{})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportSongRepeatIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	songID := uuid.New()
	reporterID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "songs"`).
		WillReturnRows(songRow(songID, uuid.New(), "songs/track.mp3", ""))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "song_reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectCommit()

	err := ReportSong(context.Background(), nil, db, reporterID, songID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
