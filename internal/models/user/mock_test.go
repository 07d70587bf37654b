package models

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
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

func userRow(id uuid.UUID, username string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "is_active", "is_admin", "is_verified"}).
		AddRow(id.String(), username, username+"@example.com", true, false, true)
}

func profileRow(id, userID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "bio", "report_count"}).
		AddRow(id.String(), userID.String(), "", 0)
}
