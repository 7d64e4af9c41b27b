package database

import (
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/asdine/storm/v3/q"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/wegavilla/server/internal/model"
)

type strm struct {
	db *storm.DB
}

// StormCodec is the format used to store data in the database.
var StormCodec = storm.Codec(msgpack.Codec)

// StormInit initializes Storm database.
func StormInit(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	for _, m := range indexedModels() {
		if err := db.Init(m); err != nil {
			return errors.Wrap(err, "could not init index")
		}
	}
	return nil
}

// StormReIndex reindexes Storm database.
func StormReIndex(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	for _, m := range indexedModels() {
		if err := db.ReIndex(m); err != nil {
			return errors.Wrap(err, "could not reindex")
		}
	}
	return nil
}

// StormOpen returns a new Storm database connection.
func StormOpen(database string) (Client, error) {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	return &strm{
		db: db,
	}, nil
}

func indexedModels() []model.Model {
	return []model.Model{
		&model.User{},
		&model.RoomType{},
		&model.Room{},
		&model.Booking{},
		&model.Review{},
		&model.Contact{},
	}
}

// Save inserts or updates the entry in database with the given model.
func (c *strm) Save(m model.Model) error {
	t := time.Now().UTC()
	m.SetUpdatedAt(t)

	if m.GetID() == "" {
		m.SetID(uuid.Must(uuid.NewV4()).String())
		m.SetCreatedAt(t)
	}

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

// Delete deletes the entry in database with the given model.
func (c *strm) Delete(m model.Model) error {
	return errors.Wrap(c.db.DeleteStruct(m), "could not delete the model")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// IsAlreadyExists returns true if err is an already exists error.
func (c *strm) IsAlreadyExists(err error) bool {
	return errors.Cause(err) == storm.ErrAlreadyExists
}

// FindUser returns the user for the given id (UUID).
func (c *strm) FindUser(id string) (*model.User, error) {
	var user model.User
	if err := c.db.One("ID", id, &user); err != nil {
		return nil, errors.Wrap(err, "find user by id")
	}
	return &user, nil
}

// FindUserByMail returns the user for the given email.
func (c *strm) FindUserByMail(email string) (*model.User, error) {
	var user model.User
	if err := c.db.One("Email", email, &user); err != nil {
		return nil, errors.Wrap(err, "find user by mail")
	}
	return &user, nil
}

// FindUsers returns all the users.
func (c *strm) FindUsers() ([]*model.User, error) {
	users := make([]*model.User, 0)
	err := c.db.AllByIndex("CreatedAt", &users)
	if err != nil && err != storm.ErrNotFound {
		return nil, errors.Wrap(err, "find users")
	}
	return users, nil
}

// FindUsersByRole returns all users for the given role.
func (c *strm) FindUsersByRole(role string) ([]*model.User, error) {
	users := make([]*model.User, 0)
	err := c.db.Select(q.Eq("Role", role)).OrderBy("CreatedAt").Find(&users)
	if err != nil && err != storm.ErrNotFound {
		return nil, errors.Wrap(err, "find users by role")
	}
	return users, nil
}

// FindRoom returns the room for the given id (UUID).
func (c *strm) FindRoom(id string) (*model.Room, error) {
	var room model.Room
	if err := c.db.One("ID", id, &room); err != nil {
		return nil, errors.Wrap(err, "find room by id")
	}
	return &room, nil
}

// FindRoomByNumber returns the room for the given room number.
func (c *strm) FindRoomByNumber(number string) (*model.Room, error) {
	var room model.Room
	if err := c.db.One("Number", number, &room); err != nil {
		return nil, errors.Wrap(err, "find room by number")
	}
	return &room, nil
}

// FindRooms returns all the rooms.
func (c *strm) FindRooms() ([]*model.Room, error) {
	rooms := make([]*model.Room, 0)
	err := c.db.AllByIndex("CreatedAt", &rooms)
	if err != nil && err != storm.ErrNotFound {
		return nil, errors.Wrap(err, "find rooms")
	}
	return rooms, nil
}

// FindRoomsByType returns all the rooms of the given room type.
func (c *strm) FindRoomsByType(roomTypeID string) ([]*model.Room, error) {
	rooms := make([]*model.Room, 0)
	err := c.db.Select(q.Eq("RoomTypeID", roomTypeID)).OrderBy("CreatedAt").Find(&rooms)
	if err != nil && err != storm.ErrNotFound {
		return nil, errors.Wrap(err, "find rooms by type")
	}
	return rooms, nil
}

// FindRoomType returns the room type for the given id (UUID).
func (c *strm) FindRoomType(id string) (*model.RoomType, error) {
	var rt model.RoomType
	if err := c.db.One("ID", id, &rt); err != nil {
		return nil, errors.Wrap(err, "find room type by id")
	}
	return &rt, nil
}

// FindRoomTypes returns all the room types.
func (c *strm) FindRoomTypes() ([]*model.RoomType, error) {
	types := make([]*model.RoomType, 0)
	err := c.db.AllByIndex("CreatedAt", &types)
	if err != nil && err != storm.ErrNotFound {
		return nil, errors.Wrap(err, "find room types")
	}
	return types, nil
}

// FindBooking returns the booking for the given id (UUID).
func (c *strm) FindBooking(id string) (*model.Booking, error) {
	var booking model.Booking
	if err := c.db.One("ID", id, &booking); err != nil {
		return nil, errors.Wrap(err, "find booking by id")
	}
	return &booking, nil
}

// FindBookings returns all the bookings.
func (c *strm) FindBookings() ([]*model.Booking, error) {
	bookings := make([]*model.Booking, 0)
	err := c.db.AllByIndex("CreatedAt", &bookings)
	if err != nil && err != storm.ErrNotFound {
		return nil, errors.Wrap(err, "find bookings")
	}
	return bookings, nil
}

// FindBookingsByUserID returns all the bookings created by the given user.
func (c *strm) FindBookingsByUserID(userID string) ([]*model.Booking, error) {
	bookings := make([]*model.Booking, 0)
	err := c.db.Select(q.Eq("UserID", userID)).OrderBy("CreatedAt").Find(&bookings)
	if err != nil && err != storm.ErrNotFound {
		return nil, errors.Wrap(err, "find bookings by user id")
	}
	return bookings, nil
}

// FindBookingsByStatus returns all the bookings with the given status.
func (c *strm) FindBookingsByStatus(status string) ([]*model.Booking, error) {
	bookings := make([]*model.Booking, 0)
	err := c.db.Select(q.Eq("Status", status)).OrderBy("CreatedAt").Find(&bookings)
	if err != nil && err != storm.ErrNotFound {
		return nil, errors.Wrap(err, "find bookings by status")
	}
	return bookings, nil
}

// FindReview returns the review for the given id (UUID).
func (c *strm) FindReview(id string) (*model.Review, error) {
	var review model.Review
	if err := c.db.One("ID", id, &review); err != nil {
		return nil, errors.Wrap(err, "find review by id")
	}
	return &review, nil
}

// FindReviews returns all the reviews.
func (c *strm) FindReviews() ([]*model.Review, error) {
	reviews := make([]*model.Review, 0)
	err := c.db.AllByIndex("CreatedAt", &reviews)
	if err != nil && err != storm.ErrNotFound {
		return nil, errors.Wrap(err, "find reviews")
	}
	return reviews, nil
}

// FindReviewsByUserID returns all the reviews written by the given user.
func (c *strm) FindReviewsByUserID(userID string) ([]*model.Review, error) {
	reviews := make([]*model.Review, 0)
	err := c.db.Select(q.Eq("UserID", userID)).OrderBy("CreatedAt").Find(&reviews)
	if err != nil && err != storm.ErrNotFound {
		return nil, errors.Wrap(err, "find reviews by user id")
	}
	return reviews, nil
}

// FindContact returns the contact message for the given id (UUID).
func (c *strm) FindContact(id string) (*model.Contact, error) {
	var contact model.Contact
	if err := c.db.One("ID", id, &contact); err != nil {
		return nil, errors.Wrap(err, "find contact by id")
	}
	return &contact, nil
}

// FindContacts returns all the contact messages.
func (c *strm) FindContacts() ([]*model.Contact, error) {
	contacts := make([]*model.Contact, 0)
	err := c.db.AllByIndex("CreatedAt", &contacts)
	if err != nil && err != storm.ErrNotFound {
		return nil, errors.Wrap(err, "find contacts")
	}
	return contacts, nil
}
