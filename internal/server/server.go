// Package server exposes the HTTP API of the booking backend.
package server

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/wegavilla/server/internal/apierror"
	"github.com/wegavilla/server/internal/database"
	"github.com/wegavilla/server/internal/model"
	"github.com/wegavilla/server/internal/server/middlewares"
	"github.com/wegavilla/server/internal/session"
)

// A Controller is an Inversion Of Control pattern used to init the server package.
// Registry and Tokens are owned by the caller so the sweeper and tests can
// share the exact same instances.
type Controller struct {
	Version        string
	Database       database.Client
	NoRegistration bool

	Tokens   *session.TokenManager
	Registry *session.Registry
	// EnforceSessionForPrivileged closes the token-outlives-session gap for
	// privileged roles. Off by default.
	EnforceSessionForPrivileged bool

	Logger logrus.FieldLogger
}

// EchoEngine instantiates the web server.
func EchoEngine(ctrl Controller) *echo.Echo {
	if ctrl.Logger == nil {
		ctrl.Logger = logrus.StandardLogger()
	}

	engine := echo.New()
	engine.HideBanner = true
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	engine.Use(middleware.Gzip())

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler

	////////////
	// Router //
	////////////

	engine.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	api := engine.Group("/api", middlewares.Authenticate(middlewares.AuthenticateConfig{
		Tokens:               ctrl.Tokens,
		Registry:             ctrl.Registry,
		EnforceForPrivileged: ctrl.EnforceSessionForPrivileged,
		Logger:               ctrl.Logger,
	}))
	restricted := api.Group("", middlewares.RequireUser())
	manage := api.Group("", middlewares.RequireRoles(model.RoleAdmin, model.RoleManager))
	admin := api.Group("/admin", middlewares.RequireRoles(model.RoleAdmin))

	//
	// auth handlers
	//
	auth := &auth{
		db:       ctrl.Database,
		tokens:   ctrl.Tokens,
		registry: ctrl.Registry,
	}
	if !ctrl.NoRegistration {
		api.POST("/auth/register", auth.Register)
	}
	api.POST("/auth/login", auth.Login)
	restricted.POST("/auth/logout", auth.Logout)
	api.POST("/auth/heartbeat", auth.Heartbeat)
	api.GET("/auth/session/status", auth.SessionStatus)
	api.GET("/auth/verify", auth.Verify)

	//
	// profile handlers
	//
	profile := &profile{
		db: ctrl.Database,
	}
	restricted.GET("/auth/profile", profile.Show)
	restricted.GET("/profile", profile.Show)
	restricted.PUT("/profile", profile.Update)
	restricted.PUT("/profile/password", profile.ChangePassword)

	//
	// admin session handlers
	//
	sess := &sess{
		registry: ctrl.Registry,
	}
	admin.GET("/sessions/active", sess.List)
	admin.GET("/sessions/stats", sess.Stats)
	admin.DELETE("/sessions/:id", sess.Invalidate)
	admin.DELETE("/sessions/user/:userID", sess.InvalidateUser)

	//
	// admin account handlers
	//
	account := &account{
		db:       ctrl.Database,
		registry: ctrl.Registry,
	}
	admin.POST("/managers", account.CreateManager)
	admin.GET("/managers", account.ListManagers)
	admin.PUT("/managers/:id", account.UpdateManager)
	admin.DELETE("/managers/:id", account.DeleteManager)
	admin.POST("/tour-guides", account.CreateGuide)
	admin.GET("/tour-guides", account.ListGuides)
	admin.PUT("/tour-guides/:id", account.UpdateGuide)
	admin.DELETE("/tour-guides/:id", account.DeleteGuide)
	admin.GET("/users", account.ListUsers)

	//
	// room handlers
	//
	room := &room{
		db: ctrl.Database,
	}
	api.GET("/rooms", room.List)
	api.GET("/rooms/:id", room.Get)
	manage.POST("/rooms", room.Create)
	manage.PUT("/rooms/:id", room.Update)
	api.DELETE("/rooms/:id", room.Delete, middlewares.RequireRoles(model.RoleAdmin))
	api.GET("/room-types", room.ListTypes)
	manage.POST("/room-types", room.CreateType)

	//
	// booking handlers
	//
	booking := &booking{
		db: ctrl.Database,
	}
	restricted.POST("/bookings", booking.Create)
	restricted.GET("/bookings/my", booking.ListMine)
	restricted.POST("/bookings/:id/cancel", booking.Cancel)
	manage.GET("/bookings", booking.List)
	manage.PUT("/bookings/:id/status", booking.UpdateStatus)

	//
	// review handlers
	//
	review := &review{
		db: ctrl.Database,
	}
	api.GET("/reviews", review.List)
	restricted.GET("/reviews/my", review.ListMine)
	restricted.POST("/reviews", review.Create)

	//
	// contact handlers
	//
	contact := &contact{
		db: ctrl.Database,
	}
	api.POST("/contact", contact.Create)
	manage.GET("/contact", contact.List)
	manage.GET("/contact/:id", contact.Get)
	api.DELETE("/contact/:id", contact.Delete, middlewares.RequireRoles(model.RoleAdmin))

	return engine
}

// PrintRoutes prints the Echo engine exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}

func currentIdentity(c echo.Context) (session.Identity, bool) {
	identity, ok := c.Get(middlewares.CurrentIdentityContextKey).(session.Identity)
	return identity, ok
}

func currentUser(c echo.Context, db database.Client) (*model.User, error) {
	identity, ok := currentIdentity(c)
	if !ok {
		return nil, apierror.NewWithCode(http.StatusUnauthorized, apierror.CodeUnauthorized, "Authentication required.")
	}

	user, err := db.FindUserByMail(identity.Email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apierror.NewWithCode(http.StatusUnauthorized, apierror.CodeUnauthorized, "No such user for given token.")
		}
		return nil, errors.Wrap(err, "could not get access to database")
	}
	return user, nil
}
