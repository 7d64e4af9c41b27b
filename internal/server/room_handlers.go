package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/wegavilla/server/internal/apierror"
	"github.com/wegavilla/server/internal/database"
	"github.com/wegavilla/server/internal/model"
)

type (
	// room contains the room and room-type handlers.
	room struct {
		db database.Client
	}

	roomParams struct {
		RoomTypeID string `json:"room_type_id"`
		Number     string `json:"room_no"`
		Available  *bool  `json:"available"`
	}

	roomTypeParams struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
)

// List renders all rooms, optionally filtered by room type.
func (h *room) List(c echo.Context) error {
	var (
		rooms []*model.Room
		err   error
	)

	if roomTypeID := c.QueryParam("room_type_id"); roomTypeID != "" {
		rooms, err = h.db.FindRoomsByType(roomTypeID)
	} else {
		rooms, err = h.db.FindRooms()
	}
	if err != nil {
		return errors.Wrap(err, "could not get rooms")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// Get renders a single room.
func (h *room) Get(c echo.Context) error {
	r, err := h.db.FindRoom(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return apierror.NewWithCode(http.StatusNotFound, apierror.CodeNotFound, "Room not found.")
		}
		return errors.Wrap(err, "could not get room")
	}
	return c.JSON(http.StatusOK, r)
}

// Create adds a room.
func (h *room) Create(c echo.Context) error {
	var params roomParams
	if err := c.Bind(&params); err != nil {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Could not get room params.")
	}
	if params.Number == "" || params.RoomTypeID == "" {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Room number and room type are required.")
	}

	if _, err := h.db.FindRoomType(params.RoomTypeID); err != nil {
		if h.db.IsNotFound(err) {
			return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Unknown room type.")
		}
		return errors.Wrap(err, "could not get room type")
	}

	if _, err := h.db.FindRoomByNumber(params.Number); err == nil {
		return apierror.NewWithCode(http.StatusConflict, apierror.CodeInvalidParameters, "This room number already exists.")
	} else if !h.db.IsNotFound(err) {
		return errors.Wrap(err, "could not check room number")
	}

	r := &model.Room{
		Number:     params.Number,
		RoomTypeID: params.RoomTypeID,
		Available:  true,
	}
	if params.Available != nil {
		r.Available = *params.Available
	}

	if err := h.db.Save(r); err != nil {
		return errors.Wrap(err, "could not persist room")
	}
	return c.JSON(http.StatusCreated, r)
}

// Update modifies a room.
func (h *room) Update(c echo.Context) error {
	r, err := h.db.FindRoom(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return apierror.NewWithCode(http.StatusNotFound, apierror.CodeNotFound, "Room not found.")
		}
		return errors.Wrap(err, "could not get room")
	}

	var params roomParams
	if err = c.Bind(&params); err != nil {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Could not get room params.")
	}

	if params.Number != "" {
		r.Number = params.Number
	}
	if params.RoomTypeID != "" {
		if _, err = h.db.FindRoomType(params.RoomTypeID); err != nil {
			if h.db.IsNotFound(err) {
				return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Unknown room type.")
			}
			return errors.Wrap(err, "could not get room type")
		}
		r.RoomTypeID = params.RoomTypeID
	}
	if params.Available != nil {
		r.Available = *params.Available
	}

	if err = h.db.Save(r); err != nil {
		return errors.Wrap(err, "could not persist room")
	}
	return c.JSON(http.StatusOK, r)
}

// Delete removes a room.
func (h *room) Delete(c echo.Context) error {
	r, err := h.db.FindRoom(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return apierror.NewWithCode(http.StatusNotFound, apierror.CodeNotFound, "Room not found.")
		}
		return errors.Wrap(err, "could not get room")
	}

	if err = h.db.Delete(r); err != nil {
		return errors.Wrap(err, "could not delete room")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Room deleted successfully",
	})
}

// ListTypes renders all room types.
func (h *room) ListTypes(c echo.Context) error {
	types, err := h.db.FindRoomTypes()
	if err != nil {
		return errors.Wrap(err, "could not get room types")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_types": types,
		"count":      len(types),
	})
}

// CreateType adds a room type.
func (h *room) CreateType(c echo.Context) error {
	var params roomTypeParams
	if err := c.Bind(&params); err != nil {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Could not get room type params.")
	}
	if params.Name == "" {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Room type name is required.")
	}

	rt := &model.RoomType{
		Name:        params.Name,
		Description: params.Description,
	}
	if err := h.db.Save(rt); err != nil {
		if h.db.IsAlreadyExists(err) {
			return apierror.NewWithCode(http.StatusConflict, apierror.CodeInvalidParameters, "This room type already exists.")
		}
		return errors.Wrap(err, "could not persist room type")
	}
	return c.JSON(http.StatusCreated, rt)
}
