package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/wegavilla/server/internal/apierror"
	"github.com/wegavilla/server/internal/database"
	"github.com/wegavilla/server/internal/model"
)

type (
	// booking contains the event-booking handlers.
	booking struct {
		db database.Client
	}

	bookingParams struct {
		PackageID       string `json:"package_id"`
		PackageName     string `json:"package_name"`
		CustomerName    string `json:"customer_name"`
		CustomerEmail   string `json:"customer_email"`
		CustomerPhone   string `json:"customer_phone"`
		EventDate       string `json:"event_date"`
		GuestCount      string `json:"guest_count"`
		SpecialRequests string `json:"special_requests"`
	}

	bookingStatusParams struct {
		Status string `json:"status"`
	}
)

// Create registers a booking for the authenticated user.
func (h *booking) Create(c echo.Context) error {
	user, err := currentUser(c, h.db)
	if err != nil {
		return err
	}

	var params bookingParams
	if err = c.Bind(&params); err != nil {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Could not get booking params.")
	}
	if params.CustomerName == "" || params.CustomerEmail == "" {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Customer name and email are required.")
	}

	eventDate, err := time.Parse("2006-01-02", params.EventDate)
	if err != nil {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Event date must be formatted as YYYY-MM-DD.")
	}
	if eventDate.Before(time.Now().Truncate(24 * time.Hour)) {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Event date cannot be in the past.")
	}

	b := &model.Booking{
		UserID:          user.ID,
		PackageID:       params.PackageID,
		PackageName:     params.PackageName,
		CustomerName:    params.CustomerName,
		CustomerEmail:   params.CustomerEmail,
		CustomerPhone:   params.CustomerPhone,
		EventDate:       eventDate,
		GuestCount:      params.GuestCount,
		SpecialRequests: params.SpecialRequests,
		Status:          model.BookingPending,
	}

	if err = h.db.Save(b); err != nil {
		return errors.Wrap(err, "could not persist booking")
	}
	return c.JSON(http.StatusCreated, b)
}

// ListMine renders the bookings of the authenticated user.
func (h *booking) ListMine(c echo.Context) error {
	user, err := currentUser(c, h.db)
	if err != nil {
		return err
	}

	bookings, err := h.db.FindBookingsByUserID(user.ID)
	if err != nil {
		return errors.Wrap(err, "could not get bookings")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// List renders all bookings, optionally filtered by status.
func (h *booking) List(c echo.Context) error {
	var (
		bookings []*model.Booking
		err      error
	)

	if status := c.QueryParam("status"); status != "" {
		if !model.ValidBookingStatus(status) {
			return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Unknown booking status.")
		}
		bookings, err = h.db.FindBookingsByStatus(status)
	} else {
		bookings, err = h.db.FindBookings()
	}
	if err != nil {
		return errors.Wrap(err, "could not get bookings")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// UpdateStatus transitions a booking to the given status.
func (h *booking) UpdateStatus(c echo.Context) error {
	b, err := h.db.FindBooking(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return apierror.NewWithCode(http.StatusNotFound, apierror.CodeNotFound, "Booking not found.")
		}
		return errors.Wrap(err, "could not get booking")
	}

	var params bookingStatusParams
	if err = c.Bind(&params); err != nil {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Could not get status params.")
	}
	if !model.ValidBookingStatus(params.Status) {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Unknown booking status.")
	}

	b.Status = params.Status
	if err = h.db.Save(b); err != nil {
		return errors.Wrap(err, "could not persist booking")
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel lets a customer cancel their own pending booking.
func (h *booking) Cancel(c echo.Context) error {
	user, err := currentUser(c, h.db)
	if err != nil {
		return err
	}

	b, err := h.db.FindBooking(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return apierror.NewWithCode(http.StatusNotFound, apierror.CodeNotFound, "Booking not found.")
		}
		return errors.Wrap(err, "could not get booking")
	}

	if b.UserID != user.ID {
		return apierror.NewWithCode(http.StatusForbidden, apierror.CodeForbidden, "You can only cancel your own bookings.")
	}
	if b.Status != model.BookingPending {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Only pending bookings can be cancelled.")
	}

	b.Status = model.BookingCancelled
	if err = h.db.Save(b); err != nil {
		return errors.Wrap(err, "could not persist booking")
	}
	return c.JSON(http.StatusOK, b)
}
