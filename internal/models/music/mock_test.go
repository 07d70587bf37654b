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

func songRow(id, userID uuid.UUID, mp3Path, coverPath string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "title", "duration", "mp3_path", "cover_path", "likes", "report_count"}).
		AddRow(id.String(), userID.String(), "track", 180, mp3Path, coverPath, 0, 0)
}

func playlistRow(id, userID uuid.UUID, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "name"}).
		AddRow(id.String(), userID.String(), name)
}
