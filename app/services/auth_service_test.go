package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/services"
	"github.com/rewearhq/rewear/pkg/auth"
)

func TestRegisterAndLogin(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()

	result, err := svc.Register(services.RegisterInput{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, result.User.Role)
	assert.Equal(t, 0, result.User.PointsBalance)

	claims, err := auth.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)

	logged, err := svc.Login(services.LoginInput{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, logged.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()

	in := services.RegisterInput{
		FullName: "First",
		Email:    "dup@example.com",
		Password: "password-one",
	}
	_, err := svc.Register(in)
	require.NoError(t, err)

	in.FullName = "Second"
	_, err = svc.Register(in)
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()

	_, err := svc.Register(services.RegisterInput{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	// Wrong password and unknown account fail the same way.
	_, wrongPass := svc.Login(services.LoginInput{Email: "ada@example.com", Password: "nope"})
	_, noAccount := svc.Login(services.LoginInput{Email: "ghost@example.com", Password: "nope"})
	assert.ErrorIs(t, wrongPass, services.ErrInvalidCredentials)
	assert.ErrorIs(t, noAccount, services.ErrInvalidCredentials)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()

	result, err := svc.Register(services.RegisterInput{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(result.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.Token)

	_, err = svc.Refresh("garbage.token.here")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}
