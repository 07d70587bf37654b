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

func userRow(id uuid.UUID, username string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "is_active", "is_admin", "is_verified"}).
		AddRow(id.String(), username, username+"@example.com", true, false, true)
}

func profileRow(id, userID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "bio", "report_count"}).
		AddRow(id.String(), userID.String(), "", 0)
}

func TestNewCommentEmptyMessage(t *testing.T) {
	_, err := NewComment(context.Background(), nil, nil, uuid.New(), "alice", "   ", nil)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrBadRequest.Code))
}

func TestNewCommentOwnWallForbidden(t *testing.T) {
	db, mock := newMockDB(t)
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(ownerID, "alice"))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(profileRow(uuid.New(), ownerID))

	_, err := NewComment(context.Background(), nil, db, ownerID, "alice", "hi me", nil)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrForbidden.Code))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewCommentReplyOnOwnWallAllowed(t *testing.T) {
	db, mock := newMockDB(t)
	ownerID := uuid.New()
	profileID := uuid.New()
	parentID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(ownerID, "alice"))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(profileRow(profileID, ownerID))
	mock.ExpectQuery(`SELECT (.+) FROM "comments"`).
		WillReturnRows(commentRow(parentID, profileID, uuid.New()))
	mock.ExpectQuery(`INSERT INTO "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))

	c, err := NewComment(context.Background(), nil, db, ownerID, "alice", "thanks!", &parentID)
	require.NoError(t, err)
	require.Equal(t, profileID, c.ProfileID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewCommentParentOnOtherProfile(t *testing.T) {
	db, mock := newMockDB(t)
	ownerID := uuid.New()
	parentID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(ownerID, "alice"))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(profileRow(uuid.New(), ownerID))
	mock.ExpectQuery(`SELECT (.+) FROM "comments"`).
		WillReturnRows(commentRow(parentID, uuid.New(), uuid.New()))

	_, err := NewComment(context.Background(), nil, db, uuid.New(), "alice", "hi", &parentID)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrNotFound.Code))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCommentUnauthorizedIsSilent(t *testing.T) {
	db, mock := newMockDB(t)
	commentID := uuid.New()
	profileID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "comments"`).
		WillReturnRows(commentRow(commentID, profileID, uuid.New()))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(profileRow(profileID, uuid.New()))

	stranger := &user.User{ID: uuid.New()}
	err := DeleteComment(context.Background(), nil, db, stranger, commentID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCommentCascadesReplies(t *testing.T) {
	db, mock := newMockDB(t)
	commentID := uuid.New()
	replyID := uuid.New()
	profileID := uuid.New()
	authorID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "comments"`).
		WillReturnRows(commentRow(commentID, profileID, authorID))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(profileRow(profileID, uuid.New()))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "comments" WHERE parent_comment_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(replyID.String()))
	mock.ExpectQuery(`SELECT "id" FROM "comments" WHERE parent_comment_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`DELETE FROM "comment_likes"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "comment_dislikes"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "comment_reports"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "comments"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	author := &user.User{ID: authorID}
	err := DeleteComment(context.Background(), nil, db, author, commentID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCommentWallOwnerMayDelete(t *testing.T) {
	db, mock := newMockDB(t)
	commentID := uuid.New()
	profileID := uuid.New()
	wallOwnerID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "comments"`).
		WillReturnRows(commentRow(commentID, profileID, uuid.New()))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(profileRow(profileID, wallOwnerID))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "comments" WHERE parent_comment_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`DELETE FROM "comment_likes"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "comment_dislikes"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "comment_reports"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "comments"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	owner := &user.User{ID: wallOwnerID}
	err := DeleteComment(context.Background(), nil, db, owner, commentID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
