package server_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/appleboy/gofight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
	"github.com/wegavilla/server/internal/model"
)

func bookingParams() gofight.D {
	return gofight.D{
		"package_name":   "Sunset Wedding",
		"customer_name":  "George Abitbol",
		"customer_email": "george.abitbol@nowhere.lan",
		"customer_phone": "+33123456789",
		"event_date":     time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
		"guest_count":    "80",
	}
}

func TestRequestBookingCreate(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	createUser(ctrl, "george.abitbol@nowhere.lan", model.RoleUser)
	token, _ := login(engine, "george.abitbol@nowhere.lan")

	r.POST("/api/bookings").SetJSON(bookingParams()).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
	})

	r.POST("/api/bookings").SetJSON(bookingParams()).SetHeader(gofight.H{
		"Authorization": "Bearer " + token,
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusCreated, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, "PENDING", string(v.GetStringBytes("status")))
		assert.NotEmpty(t, string(v.GetStringBytes("user_id")))
	})

	params := bookingParams()
	params["event_date"] = "2000-01-01"
	r.POST("/api/bookings").SetJSON(params).SetHeader(gofight.H{
		"Authorization": "Bearer " + token,
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":"Event date cannot be in the past.","code":"INVALID_PARAMETERS"}`, r.Body.String())
	})
}

func TestRequestBookingListMine(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	createUser(ctrl, "george.abitbol@nowhere.lan", model.RoleUser)
	createUser(ctrl, "peter@nowhere.lan", model.RoleUser)
	george, _ := login(engine, "george.abitbol@nowhere.lan")
	peter, _ := login(engine, "peter@nowhere.lan")

	r.POST("/api/bookings").SetJSON(bookingParams()).SetHeader(gofight.H{
		"Authorization": "Bearer " + george,
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		require.Equal(t, http.StatusCreated, r.Code)
	})

	r.GET("/api/bookings/my").SetHeader(gofight.H{
		"Authorization": "Bearer " + george,
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, 1, v.GetInt("count"))
	})

	r.GET("/api/bookings/my").SetHeader(gofight.H{
		"Authorization": "Bearer " + peter,
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, 0, v.GetInt("count"))
	})
}

func TestRequestBookingStatusUpdate(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	createUser(ctrl, "george.abitbol@nowhere.lan", model.RoleUser)
	createUser(ctrl, "chief@wegavilla.lan", model.RoleManager)
	user, _ := login(engine, "george.abitbol@nowhere.lan")
	manager, msid := login(engine, "chief@wegavilla.lan")

	var bookingID string
	r.POST("/api/bookings").SetJSON(bookingParams()).SetHeader(gofight.H{
		"Authorization": "Bearer " + user,
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		require.Equal(t, http.StatusCreated, r.Code)
		v, err := fastjson.Parse(r.Body.String())
		require.NoError(t, err)
		bookingID = string(v.GetStringBytes("id"))
	})

	managerHeader := gofight.H{
		"Authorization": "Bearer " + manager,
		"X-Session-Id":  msid,
	}

	// Customers cannot drive the status transitions, managers can.
	r.PUT("/api/bookings/"+bookingID+"/status").SetJSON(gofight.D{
		"status": "CONFIRMED",
	}).SetHeader(gofight.H{"Authorization": "Bearer " + user}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusForbidden, r.Code)
	})

	r.PUT("/api/bookings/"+bookingID+"/status").SetJSON(gofight.D{
		"status": "UPSIDE_DOWN",
	}).SetHeader(managerHeader).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
	})

	r.PUT("/api/bookings/"+bookingID+"/status").SetJSON(gofight.D{
		"status": "CONFIRMED",
	}).SetHeader(managerHeader).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, "CONFIRMED", string(v.GetStringBytes("status")))
	})

	r.GET("/api/bookings?status=CONFIRMED").SetHeader(managerHeader).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, 1, v.GetInt("count"))
	})
}

func TestRequestBookingCancel(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	createUser(ctrl, "george.abitbol@nowhere.lan", model.RoleUser)
	createUser(ctrl, "peter@nowhere.lan", model.RoleUser)
	george, _ := login(engine, "george.abitbol@nowhere.lan")
	peter, _ := login(engine, "peter@nowhere.lan")

	var bookingID string
	r.POST("/api/bookings").SetJSON(bookingParams()).SetHeader(gofight.H{
		"Authorization": "Bearer " + george,
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		require.Equal(t, http.StatusCreated, r.Code)
		v, err := fastjson.Parse(r.Body.String())
		require.NoError(t, err)
		bookingID = string(v.GetStringBytes("id"))
	})

	r.POST("/api/bookings/"+bookingID+"/cancel").SetHeader(gofight.H{
		"Authorization": "Bearer " + peter,
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusForbidden, r.Code)
		assert.JSONEq(t, `{"error":"You can only cancel your own bookings.","code":"FORBIDDEN"}`, r.Body.String())
	})

	r.POST("/api/bookings/"+bookingID+"/cancel").SetHeader(gofight.H{
		"Authorization": "Bearer " + george,
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, "CANCELLED", string(v.GetStringBytes("status")))
	})

	// A cancelled booking cannot be cancelled twice.
	r.POST("/api/bookings/"+bookingID+"/cancel").SetHeader(gofight.H{
		"Authorization": "Bearer " + george,
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
	})
}
