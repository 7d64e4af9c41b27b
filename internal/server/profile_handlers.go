package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wegavilla/server/internal/apierror"
	"github.com/wegavilla/server/internal/database"
	"github.com/wegavilla/server/internal/server/serializer"
	"github.com/wegavilla/server/internal/server/service"
)

// profile contains the self-service handlers of the authenticated account.
type profile struct {
	db database.Client
}

// Show renders the authenticated account.
func (h *profile) Show(c echo.Context) error {
	user, err := currentUser(c, h.db)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, serializer.User(user))
}

// Update changes the name or email of the authenticated account.
func (h *profile) Update(c echo.Context) error {
	user, err := currentUser(c, h.db)
	if err != nil {
		return err
	}

	var params service.UpdateParams
	if err = c.Bind(&params); err != nil {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Could not get profile params.")
	}

	user, err = service.NewAccount(h.db).Update(user, params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.User(user))
}

// ChangePassword replaces the password of the authenticated account.
// Note: issued tokens stay valid until expiry.
func (h *profile) ChangePassword(c echo.Context) error {
	user, err := currentUser(c, h.db)
	if err != nil {
		return err
	}

	var params service.ChangePasswordParams
	if err = c.Bind(&params); err != nil {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Could not get password params.")
	}

	if err = service.NewAccount(h.db).ChangePassword(user, params); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Password changed successfully",
	})
}
