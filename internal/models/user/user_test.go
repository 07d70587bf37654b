package models

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ssko7098/Harmonize/pkg/utils"
)

func TestAnonymize(t *testing.T) {
	u := &User{
		ID:         uuid.New(),
		Username:   "alice",
		FullName:   "Alice Smith",
		Email:      "alice@example.com",
		Password:   "$2a$10$something",
		OTP:        "$2a$10$otp",
		IsActive:   true,
		IsVerified: true,
	}
	u.Anonymize()

	short := strings.ReplaceAll(u.ID.String(), "-", "")[:8]
	assert.Equal(t, "deleted-user-"+short, u.Username)
	assert.Equal(t, u.ID.String()+"@deleted.invalid", u.Email)
	assert.Empty(t, u.FullName)
	assert.Empty(t, u.Password)
	assert.Empty(t, u.OTP)
	assert.False(t, u.IsActive)
	assert.False(t, u.IsVerified)
}

func TestAnonymizeIsStable(t *testing.T) {
	u := &User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	u.Anonymize()
	first := u.Username
	u.Anonymize()
	assert.Equal(t, first, u.Username)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	hashed, err := utils.HashPassword("12345678")
	require.NoError(t, err)

	u := &User{ID: uuid.New(), OTP: hashed}
	err = u.VerifyOTP(context.Background(), nil, nil, 87654321)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrBadRequest.Code))
	assert.False(t, u.IsActive)
}

func TestVerifyOTPNothingPending(t *testing.T) {
	u := &User{ID: uuid.New()}
	err := u.VerifyOTP(context.Background(), nil, nil, 12345678)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.ErrBadRequest.Code))
}

func TestCanModerate(t *testing.T) {
	assert.False(t, (&User{}).CanModerate())
	assert.True(t, (&User{IsAdmin: true}).CanModerate())
}
