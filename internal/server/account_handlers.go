package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/wegavilla/server/internal/apierror"
	"github.com/wegavilla/server/internal/database"
	"github.com/wegavilla/server/internal/model"
	"github.com/wegavilla/server/internal/server/serializer"
	"github.com/wegavilla/server/internal/server/service"
	"github.com/wegavilla/server/internal/session"
)

// account contains the administrative account-management handlers.
// Managers and tour guides are regular users carrying a staff role, so the
// handlers share the same role-scoped flows.
type account struct {
	db       database.Client
	registry *session.Registry
}

// CreateManager creates a venue-manager account.
func (h *account) CreateManager(c echo.Context) error {
	return h.create(c, model.RoleManager)
}

// ListManagers renders all venue-manager accounts.
func (h *account) ListManagers(c echo.Context) error {
	return h.list(c, model.RoleManager)
}

// UpdateManager updates the name or email of a venue-manager account.
func (h *account) UpdateManager(c echo.Context) error {
	return h.update(c, model.RoleManager)
}

// DeleteManager removes a venue-manager account.
func (h *account) DeleteManager(c echo.Context) error {
	return h.delete(c, model.RoleManager)
}

// CreateGuide creates a tour-guide account.
func (h *account) CreateGuide(c echo.Context) error {
	return h.create(c, model.RoleGuide)
}

// ListGuides renders all tour-guide accounts.
func (h *account) ListGuides(c echo.Context) error {
	return h.list(c, model.RoleGuide)
}

// UpdateGuide updates the name or email of a tour-guide account.
func (h *account) UpdateGuide(c echo.Context) error {
	return h.update(c, model.RoleGuide)
}

// DeleteGuide removes a tour-guide account.
func (h *account) DeleteGuide(c echo.Context) error {
	return h.delete(c, model.RoleGuide)
}

// ListUsers renders all accounts, optionally filtered by the role query param.
func (h *account) ListUsers(c echo.Context) error {
	role := strings.ToUpper(strings.TrimSpace(c.QueryParam("role")))

	var (
		users []*model.User
		err   error
	)
	if role != "" {
		users, err = h.db.FindUsersByRole(role)
	} else {
		users, err = h.db.FindUsers()
	}
	if err != nil {
		return errors.Wrap(err, "could not get users")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users": serializer.Users(users),
		"count": len(users),
	})
}

func (h *account) create(c echo.Context, role string) error {
	var params service.CreateParams
	if err := c.Bind(&params); err != nil {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Could not get account params.")
	}

	user, err := service.NewAccount(h.db).Create(role, params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, serializer.User(user))
}

func (h *account) list(c echo.Context, role string) error {
	users, err := h.db.FindUsersByRole(role)
	if err != nil {
		return errors.Wrap(err, "could not get users")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users": serializer.Users(users),
		"count": len(users),
	})
}

func (h *account) update(c echo.Context, role string) error {
	user, err := h.find(c, role)
	if err != nil {
		return err
	}

	var params service.UpdateParams
	if err = c.Bind(&params); err != nil {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Could not get account params.")
	}

	user, err = service.NewAccount(h.db).Update(user, params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.User(user))
}

func (h *account) delete(c echo.Context, role string) error {
	user, err := h.find(c, role)
	if err != nil {
		return err
	}

	if err = h.db.Delete(user); err != nil {
		return errors.Wrap(err, "could not delete user")
	}
	// A deleted account must not keep a live session.
	h.registry.InvalidateAllForUser(user.ID)

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Account deleted successfully",
	})
}

// find loads the account and checks it carries the expected role, so manager
// routes cannot touch tour guides and vice versa.
func (h *account) find(c echo.Context, role string) (*model.User, error) {
	user, err := h.db.FindUser(c.Param("id"))
	if err != nil {
		if h.db.IsNotFound(err) {
			return nil, apierror.NewWithCode(http.StatusNotFound, apierror.CodeNotFound, "Account not found.")
		}
		return nil, errors.Wrap(err, "could not get access to database")
	}

	if user.Role != role {
		return nil, apierror.NewWithCode(http.StatusNotFound, apierror.CodeNotFound, "Account not found.")
	}
	return user, nil
}
