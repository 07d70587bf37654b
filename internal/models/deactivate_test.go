package models

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	user "github.com/ssko7098/Harmonize/internal/models/user"
	"github.com/ssko7098/Harmonize/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestDeactivateUserForbiddenForStrangers(t *testing.T) {
	actor := &user.User{ID: uuid.New()}
	err := DeactivateUser(context.Background(), nil, nil, actor, uuid.New(), nil)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrForbidden.Code))
}

func TestDeactivateUserScrubsAndCascades(t *testing.T) {
	db, mock := newMockDB(t)
	targetID := uuid.New()
	profileID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "is_active", "is_verified"}).
			AddRow(targetID.String(), "alice", "alice@example.com", true, true))

	// media sweep before the transaction
	mock.ExpectQuery(`SELECT (.+) FROM "songs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT "id" FROM "songs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT "id" FROM "playlists"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`DELETE FROM "albums"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "bio", "report_count"}).
			AddRow(profileID.String(), targetID.String(), "old bio", 3))
	mock.ExpectExec(`DELETE FROM "profile_reports"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`UPDATE "profiles" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	actor := &user.User{ID: targetID}
	err := DeactivateUser(context.Background(), nil, db, actor, targetID, nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
