package model

import "time"

const (
	// BookingPending is the initial status of a booking.
	BookingPending = "PENDING"
	// BookingConfirmed marks a booking accepted by a manager.
	BookingConfirmed = "CONFIRMED"
	// BookingCancelled marks a booking cancelled by the customer or a manager.
	BookingCancelled = "CANCELLED"
	// BookingCompleted marks a booking whose event took place.
	BookingCompleted = "COMPLETED"
)

// A Booking represents a database record.
type Booking struct {
	Base `msgpack:",inline" storm:"inline"`

	UserID          string    `json:"user_id"          msgpack:"user_id" storm:"index"`
	PackageID       string    `json:"package_id"       msgpack:"package_id"`
	PackageName     string    `json:"package_name"     msgpack:"package_name"`
	CustomerName    string    `json:"customer_name"    msgpack:"customer_name"`
	CustomerEmail   string    `json:"customer_email"   msgpack:"customer_email"`
	CustomerPhone   string    `json:"customer_phone"   msgpack:"customer_phone"`
	EventDate       time.Time `json:"event_date"       msgpack:"event_date"`
	GuestCount      string    `json:"guest_count"      msgpack:"guest_count"`
	SpecialRequests string    `json:"special_requests" msgpack:"special_requests"`
	Status          string    `json:"status"           msgpack:"status" storm:"index"`
}

// ValidBookingStatus returns true if s is one of the known booking statuses.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}
