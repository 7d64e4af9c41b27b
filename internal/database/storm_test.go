package database_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wegavilla/server/internal/database"
	"github.com/wegavilla/server/internal/model"
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

func TestStormSave(t *testing.T) {
	db, cleanup := setup()
	defer cleanup()

	user := model.NewUser()
	user.Email = "george.abitbol@nowhere.lan"
	require.NoError(t, db.Save(user))

	assert.NotEmpty(t, user.ID)
	assert.NotNil(t, user.CreatedAt)
	assert.NotNil(t, user.UpdatedAt)

	found, err := db.FindUserByMail("george.abitbol@nowhere.lan")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = db.FindUserByMail("nobody@nowhere.lan")
	assert.True(t, db.IsNotFound(err))
}

func TestStormUniqueConstraint(t *testing.T) {
	db, cleanup := setup()
	defer cleanup()

	first := model.NewUser()
	first.Email = "george.abitbol@nowhere.lan"
	require.NoError(t, db.Save(first))

	second := model.NewUser()
	second.Email = "george.abitbol@nowhere.lan"
	assert.True(t, db.IsAlreadyExists(db.Save(second)))
}

func TestStormBookingFinders(t *testing.T) {
	db, cleanup := setup()
	defer cleanup()

	for _, status := range []string{model.BookingPending, model.BookingPending, model.BookingConfirmed} {
		require.NoError(t, db.Save(&model.Booking{
			UserID: "u1",
			Status: status,
		}))
	}
	require.NoError(t, db.Save(&model.Booking{
		UserID: "u2",
		Status: model.BookingPending,
	}))

	bookings, err := db.FindBookings()
	require.NoError(t, err)
	assert.Len(t, bookings, 4)

	bookings, err = db.FindBookingsByUserID("u1")
	require.NoError(t, err)
	assert.Len(t, bookings, 3)

	bookings, err = db.FindBookingsByStatus(model.BookingPending)
	require.NoError(t, err)
	assert.Len(t, bookings, 3)

	bookings, err = db.FindBookingsByUserID("nobody")
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestStormDelete(t *testing.T) {
	db, cleanup := setup()
	defer cleanup()

	room := &model.Room{Number: "101", RoomTypeID: "t1", Available: true}
	require.NoError(t, db.Save(room))

	require.NoError(t, db.Delete(room))
	_, err := db.FindRoom(room.ID)
	assert.True(t, db.IsNotFound(err))
}
