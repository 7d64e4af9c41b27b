package service_test

import (
	"os"
	"testing"

	argon2 "github.com/mdouchement/simple-argon2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wegavilla/server/internal/database"
	"github.com/wegavilla/server/internal/model"
	"github.com/wegavilla/server/internal/server/service"
)

func setup() (database.Client, func()) {
	tmpfile, err := os.CreateTemp("", "wegavilla.*.db")
	if err != nil {
		panic(err)
	}
	filename := tmpfile.Name()
	tmpfile.Close()

	db, err := database.StormOpen(filename)
	if err != nil {
		panic(err)
	}

	return db, func() {
		db.Close()
		os.RemoveAll(filename)
	}
}

func TestSeedAdmin(t *testing.T) {
	db, cleanup := setup()
	defer cleanup()

	created, err := service.SeedAdmin(db, "admin@wega.com", "Administrator", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	user, err := db.FindUserByMail("admin@wega.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.Equal(t, model.StatusActive, user.Status)
	assert.NoError(t, argon2.CompareHashAndPasswordString(user.Password, "admin123"))

	// A second boot leaves the existing account alone.
	created, err = service.SeedAdmin(db, "admin@wega.com", "Administrator", "another-password")
	require.NoError(t, err)
	assert.False(t, created)

	admins, err := db.FindUsersByRole(model.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
	assert.NoError(t, argon2.CompareHashAndPasswordString(admins[0].Password, "admin123"))
}

func TestAccountCreateRole(t *testing.T) {
	db, cleanup := setup()
	defer cleanup()

	account := service.NewAccount(db)

	_, err := account.Create(model.RoleManager, service.CreateParams{
		Email: "chief@wegavilla.lan",
		Name:  "Hugues",
	})
	assert.EqualError(t, err, "No password provided.")

	user, err := account.Create(model.RoleManager, service.CreateParams{
		Email:    "Chief@WegaVilla.lan",
		Name:     "Hugues",
		Password: "password42",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, user.Role)
	assert.Equal(t, "chief@wegavilla.lan", user.Email)
}
