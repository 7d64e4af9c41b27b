package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/wegavilla/server/internal/apierror"
)

// HTTPErrorHandler is a middleware that formats rendered errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	switch err := err.(type) {
	case *echo.HTTPError:
		logrus.WithError(err).Warn("echo error")
		_ = c.JSON(err.Code, echo.Map{
			"error": fmt.Sprintf("%v", err.Message),
		})
	case *apierror.Error:
		status := apierror.StatusCode(err)
		if status < 500 {
			_ = c.JSON(status, err)
			return
		}

		internal(err, c)
	default:
		internal(err, c)
	}
}

func internal(err error, c echo.Context) {
	id := uuid.Must(uuid.NewV4()).String()
	logrus.WithError(err).WithField("id", id).Error("internal error")

	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"error": fmt.Sprintf("Unexpected error (id: %s)", id),
	})
}
