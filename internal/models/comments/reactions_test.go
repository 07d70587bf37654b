package models

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		name   string
		state  ReactionState
		action ReactionAction
		want   ReactionState
	}{
		{"like from neutral", Neutral, ActionLike, Liked},
		{"like toggles off", Liked, ActionLike, Neutral},
		{"like replaces dislike", Disliked, ActionLike, Liked},
		{"dislike from neutral", Neutral, ActionDislike, Disliked},
		{"dislike toggles off", Disliked, ActionDislike, Neutral},
		{"dislike replaces like", Liked, ActionDislike, Disliked},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, transition(tc.state, tc.action))
		})
	}
}

func commentRow(id, profileID, userID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "profile_id", "user_id", "message", "likes", "dislikes", "report_count"}).
		AddRow(id.String(), profileID.String(), userID.String(), "hello", 0, 0, 0)
}

func TestReportCommentFirstReport(t *testing.T) {
	db, mock := newMockDB(t)
	commentID := uuid.New()
	profileID := uuid.New()
	authorID := uuid.New()
	reporterID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "comments"`).
		WillReturnRows(commentRow(commentID, profileID, authorID))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comment_reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO "comment_reports"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "comments" SET "report_count"=report_count \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := ReportComment(context.Background(), nil, db, reporterID, commentID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportCommentRepeatIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	commentID := uuid.New()
	reporterID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "comments"`).
		WillReturnRows(commentRow(commentID, uuid.New(), uuid.New()))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comment_reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectCommit()

	err := ReportComment(context.Background(), nil, db, reporterID, commentID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeFromNeutral(t *testing.T) {
	db, mock := newMockDB(t)
	commentID := uuid.New()
	actorID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "comments"`).
		WillReturnRows(commentRow(commentID, uuid.New(), uuid.New()))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comment_likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comment_dislikes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO "comment_likes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "comments" SET "likes"=likes \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := ToggleCommentLike(context.Background(), nil, db, actorID, commentID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeSwitchesFromDislike(t *testing.T) {
	db, mock := newMockDB(t)
	commentID := uuid.New()
	actorID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "comments"`).
		WillReturnRows(commentRow(commentID, uuid.New(), uuid.New()))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comment_likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comment_dislikes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`DELETE FROM "comment_dislikes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "comments" SET "dislikes"=dislikes - 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "comment_likes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "comments" SET "likes"=likes \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := ToggleCommentLike(context.Background(), nil, db, actorID, commentID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleDislikeTogglesOff(t *testing.T) {
	db, mock := newMockDB(t)
	commentID := uuid.New()
	actorID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "comments"`).
		WillReturnRows(commentRow(commentID, uuid.New(), uuid.New()))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comment_likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comment_dislikes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`DELETE FROM "comment_dislikes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "comments" SET "dislikes"=dislikes - 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := ToggleCommentDislike(context.Background(), nil, db, actorID, commentID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
