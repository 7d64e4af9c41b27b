package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/wegavilla/server/internal/apierror"
	"github.com/wegavilla/server/internal/database"
	"github.com/wegavilla/server/internal/server/middlewares"
	"github.com/wegavilla/server/internal/server/serializer"
	"github.com/wegavilla/server/internal/server/service"
	"github.com/wegavilla/server/internal/session"
)

// auth contains all authentication handlers.
type auth struct {
	db       database.Client
	tokens   *session.TokenManager
	registry *session.Registry
}

// Register handler creates an account and logs it in.
func (h *auth) Register(c echo.Context) error {
	var params service.RegisterParams
	if err := c.Bind(&params); err != nil {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Could not get user's params.")
	}

	result, err := service.NewUser(h.db, h.tokens, h.registry).Register(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginRender(result))
}

// Login authenticates a user and returns a token, plus a session id for
// session-tracked roles.
func (h *auth) Login(c echo.Context) error {
	var params service.LoginParams
	if err := c.Bind(&params); err != nil {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Could not get credentials.")
	}

	result, err := service.NewUser(h.db, h.tokens, h.registry).Login(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginRender(result))
}

// Verify reports whether the bearer token identifies a known account.
// Anonymous requests get a 401 so frontends can redirect to the login page.
func (h *auth) Verify(c echo.Context) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"authenticated": false,
			"error":         "Not authenticated",
		})
	}

	user, err := h.db.FindUserByMail(identity.Email)
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"authenticated": false,
				"error":         "User not found",
			})
		}
		return errors.Wrap(err, "could not get access to database")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"authenticated": true,
		"user":          serializer.User(user),
	})
}

// Logout invalidates the session given in the header, or every session of
// the user when the header is absent. Tokens stay valid until expiry.
func (h *auth) Logout(c echo.Context) error {
	user, err := currentUser(c, h.db)
	if err != nil {
		return err
	}

	if sid := c.Request().Header.Get(middlewares.SessionHeader); sid != "" {
		h.registry.Invalidate(sid)
	} else {
		h.registry.InvalidateAllForUser(user.ID)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Logged out successfully",
	})
}

// Heartbeat renews the idle-expiry window of the given session.
func (h *auth) Heartbeat(c echo.Context) error {
	sid := c.Request().Header.Get(middlewares.SessionHeader)
	if sid == "" {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "No session id provided.")
	}

	if !h.registry.RenewHeartbeat(sid) {
		return apierror.SessionExpired()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}

// SessionStatus reports the validity of the given session without renewing it.
func (h *auth) SessionStatus(c echo.Context) error {
	sid := c.Request().Header.Get(middlewares.SessionHeader)
	if sid == "" {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "No session id provided.")
	}

	record, ok := h.registry.Lookup(sid)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{
			"session_valid": false,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"session_valid": h.registry.IsValid(sid),
		"session":       serializer.Session(record),
	})
}

func loginRender(result *service.LoginResult) echo.Map {
	render := echo.Map{
		"token":           result.Token,
		"user":            serializer.User(result.User),
		"session_managed": result.SessionManaged,
	}
	if result.SessionManaged {
		render["session_id"] = result.SessionID
	}
	return render
}
