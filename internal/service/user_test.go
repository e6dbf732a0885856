package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanshu-anonymous/CookMate/internal/models"
	"github.com/himanshu-anonymous/CookMate/internal/testhelpers"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

func intPtr(v int) *int { return &v }

func TestCreateUserPortionFromRotis(t *testing.T) {
	cases := []struct {
		rotis *int
		want  float64
	}{
		{intPtr(4), 2.0},
		{intPtr(0), 0.5},
		{intPtr(10), 3.0},
		{nil, 1.0},
	}
	for _, tc := range cases {
		db := testhelpers.SetupSQLite(t)
		svc := NewUserService(db, nil, nil)

		resp, created, err := svc.CreateUser(context.Background(), &types.CreateUserRequest{
			Username:     "asha",
			RotisPerMeal: tc.rotis,
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, tc.want, resp.PortionMultiplier)

		stored := testhelpers.ReloadUser(t, db, resp.ID)
		assert.Equal(t, tc.want, stored.PortionMultiplier)
		if tc.rotis != nil {
			assert.Equal(t, *tc.rotis, stored.RotisPerMeal)
		}
	}
}

func TestCreateUserIsIdempotentPerUsername(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := NewUserService(db, NewAuthService("secret"), nil)

	first, created, err := svc.CreateUser(context.Background(), &types.CreateUserRequest{
		Username: "asha", Persona: "gym_bro", Allergies: []string{"peanut"},
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, first.Token)
	assert.Equal(t, models.PersonaGymBro, first.Persona)

	second, created, err := svc.CreateUser(context.Background(), &types.CreateUserRequest{
		Username: "asha", Persona: "master_chef",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.PersonaGymBro, second.Persona)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateUserValidation(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := NewUserService(db, nil, nil)

	_, _, err := svc.CreateUser(context.Background(), &types.CreateUserRequest{Username: "asha", Persona: "pirate"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.CreateUser(context.Background(), &types.CreateUserRequest{Username: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.CreateUser(context.Background(), &types.CreateUserRequest{Username: "asha", RotisPerMeal: intPtr(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.CreateUser(context.Background(), &types.CreateUserRequest{Username: "asha", Gender: strings.Repeat("f", 21)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.CreateUser(context.Background(), &types.CreateUserRequest{Username: strings.Repeat("u", 51)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetUser(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := NewUserService(db, nil, nil)
	user := testhelpers.CreateUser(t, db, "asha")
	require.NoError(t, db.Create(&models.Badge{UserID: user.ID, Name: "Streak Master"}).Error)

	got, err := svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "asha", got.Username)
	require.Len(t, got.Badges, 1)

	_, err = svc.GetUser(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
