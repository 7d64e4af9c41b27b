package database

import (
	"github.com/wegavilla/server/internal/model"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool
		// IsAlreadyExists returns true if err is an already exists error.
		IsAlreadyExists(err error) bool

		UserInteraction
		RoomInteraction
		BookingInteraction
		ReviewInteraction
		ContactInteraction
	}

	// An UserInteraction defines all the methods used to interact with a user record.
	UserInteraction interface {
		// FindUser returns the user for the given id (UUID).
		FindUser(id string) (*model.User, error)
		// FindUserByMail returns the user for the given email.
		FindUserByMail(email string) (*model.User, error)
		// FindUsers returns all the users.
		FindUsers() ([]*model.User, error)
		// FindUsersByRole returns all users for the given role.
		FindUsersByRole(role string) ([]*model.User, error)
	}

	// A RoomInteraction defines all the methods used to interact with room records.
	RoomInteraction interface {
		// FindRoom returns the room for the given id (UUID).
		FindRoom(id string) (*model.Room, error)
		// FindRoomByNumber returns the room for the given room number.
		FindRoomByNumber(number string) (*model.Room, error)
		// FindRooms returns all the rooms.
		FindRooms() ([]*model.Room, error)
		// FindRoomsByType returns all the rooms of the given room type.
		FindRoomsByType(roomTypeID string) ([]*model.Room, error)
		// FindRoomType returns the room type for the given id (UUID).
		FindRoomType(id string) (*model.RoomType, error)
		// FindRoomTypes returns all the room types.
		FindRoomTypes() ([]*model.RoomType, error)
	}

	// A BookingInteraction defines all the methods used to interact with booking records.
	BookingInteraction interface {
		// FindBooking returns the booking for the given id (UUID).
		FindBooking(id string) (*model.Booking, error)
		// FindBookings returns all the bookings.
		FindBookings() ([]*model.Booking, error)
		// FindBookingsByUserID returns all the bookings created by the given user.
		FindBookingsByUserID(userID string) ([]*model.Booking, error)
		// FindBookingsByStatus returns all the bookings with the given status.
		FindBookingsByStatus(status string) ([]*model.Booking, error)
	}

	// A ReviewInteraction defines all the methods used to interact with review records.
	ReviewInteraction interface {
		// FindReview returns the review for the given id (UUID).
		FindReview(id string) (*model.Review, error)
		// FindReviews returns all the reviews.
		FindReviews() ([]*model.Review, error)
		// FindReviewsByUserID returns all the reviews written by the given user.
		FindReviewsByUserID(userID string) ([]*model.Review, error)
	}

	// A ContactInteraction defines all the methods used to interact with contact records.
	ContactInteraction interface {
		// FindContact returns the contact message for the given id (UUID).
		FindContact(id string) (*model.Contact, error)
		// FindContacts returns all the contact messages.
		FindContacts() ([]*model.Contact, error)
	}
)
