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
	// contact contains the contact-message handlers.
	contact struct {
		db database.Client
	}

	contactParams struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Message   string `json:"message"`
	}
)

// Create records a contact message. Open to anonymous visitors.
func (h *contact) Create(c echo.Context) error {
	var params contactParams
	if err := c.Bind(&params); err != nil {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Could not get contact params.")
	}
	if params.Email == "" || params.Message == "" {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Email and message are required.")
	}

	m := &model.Contact{
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Email:     params.Email,
		Message:   params.Message,
	}
	if err := h.db.Save(m); err != nil {
		return errors.Wrap(err, "could not persist contact message")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Thank you for contacting us",
	})
}

// List renders all contact messages.
func (h *contact) List(c echo.Context) error {
	contacts, err := h.db.FindContacts()
	if err != nil {
		return errors.Wrap(err, "could not get contact messages")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"contacts": contacts,
		"count":    len(contacts),
	})
}

// Get renders a single contact message.
func (h *contact) Get(c echo.Context) error {
	m, err := h.find(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// Delete removes a contact message once handled.
func (h *contact) Delete(c echo.Context) error {
	m, err := h.find(c)
	if err != nil {
		return err
	}

	if err = h.db.Delete(m); err != nil {
		return errors.Wrap(err, "could not delete contact message")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Contact deleted successfully",
	})
}

func (h *contact) find(c echo.Context) (*model.Contact, error) {
	m, err := h.db.FindContact(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return nil, apierror.NewWithCode(http.StatusNotFound, apierror.CodeNotFound, "Contact message not found.")
		}
		return nil, errors.Wrap(err, "could not get contact message")
	}
	return m, nil
}
