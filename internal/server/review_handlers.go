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
	// review contains the review handlers.
	review struct {
		db database.Client
	}

	reviewParams struct {
		Rating  int    `json:"rating"`
		Message string `json:"message"`
	}
)

// List renders all reviews.
func (h *review) List(c echo.Context) error {
	reviews, err := h.db.FindReviews()
	if err != nil {
		return errors.Wrap(err, "could not get reviews")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// ListMine renders the reviews written by the authenticated user.
func (h *review) ListMine(c echo.Context) error {
	user, err := currentUser(c, h.db)
	if err != nil {
		return err
	}

	reviews, err := h.db.FindReviewsByUserID(user.ID)
	if err != nil {
		return errors.Wrap(err, "could not get reviews")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// Create adds a review from the authenticated user.
func (h *review) Create(c echo.Context) error {
	user, err := currentUser(c, h.db)
	if err != nil {
		return err
	}

	var params reviewParams
	if err = c.Bind(&params); err != nil {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Could not get review params.")
	}
	if params.Rating < 1 || params.Rating > 5 {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Rating must be between 1 and 5.")
	}
	if params.Message == "" {
		return apierror.NewWithCode(http.StatusBadRequest, apierror.CodeInvalidParameters, "Review message is required.")
	}

	r := &model.Review{
		UserID:  user.ID,
		Author:  user.Name,
		Rating:  params.Rating,
		Message: params.Message,
	}
	if err = h.db.Save(r); err != nil {
		return errors.Wrap(err, "could not persist review")
	}
	return c.JSON(http.StatusCreated, r)
}
