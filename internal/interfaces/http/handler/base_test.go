package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/interfaces/http/dto"
	"github.com/silverledger/backend/internal/interfaces/http/middleware"
	"github.com/silverledger/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func engineFor(h gin.HandlerFunc, route string) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET(route, h)
	return engine
}

func TestBaseHandler_HandleError(t *testing.T) {
	var h BaseHandler
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "ERR_NOT_FOUND"},
		{"wrapped not found", errors.Join(errors.New("load bill"), shared.ErrNotFound), http.StatusNotFound, "ERR_NOT_FOUND"},
		{"amount mismatch", shared.NewDomainError("AMOUNT_MISMATCH", "Line 1 amount differs"), http.StatusBadRequest, "ERR_AMOUNT_MISMATCH"},
		{"invalid prefix", shared.NewDomainError("INVALID_WEIGHT", "Weight must be positive"), http.StatusBadRequest, "ERR_INVALID_WEIGHT"},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := engineFor(func(c *gin.Context) { h.HandleError(c, tt.err) }, "/x")
			w := testutil.Do(t, engine, testutil.Request{Path: "/x"})
			testutil.AssertErrorResponse(t, w, tt.status, tt.code)
		})
	}
}

func TestBaseHandler_HandleError_HidesInternalMessage(t *testing.T) {
	var h BaseHandler
	engine := engineFor(func(c *gin.Context) { h.HandleError(c, errors.New("pq: password authentication failed")) }, "/x")

	w := testutil.Do(t, engine, testutil.Request{Path: "/x"})
	assert.NotContains(t, w.Body.String(), "password authentication")
	errInfo := testutil.JSONResponse(t, w)["error"].(map[string]any)
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), errInfo["request_id"])
}

func TestBaseHandler_BindHelpers(t *testing.T) {
	var h BaseHandler
	engine := gin.New()
	engine.GET("/items/:id", func(c *gin.Context) {
		id, ok := h.bindID(c, "id")
		if !ok {
			return
		}
		customerID, ok := h.optionalUUIDQuery(c, "customerId")
		if !ok {
			return
		}
		req, ok := h.bindList(c)
		if !ok {
			return
		}
		f := toFilter(req)
		h.Success(c, gin.H{
			"id":         id.String(),
			"customer":   customerID != nil,
			"page":       f.Page,
			"pageSize":   f.PageSize,
			"orderDir":   f.OrderDir,
			"search":     f.Search,
			"hasFilters": f.Filters != nil,
		})
	})
	id := testutil.NewTestUUID("bill-1").String()

	w := testutil.Do(t, engine, testutil.Request{Path: "/items/" + id + "?keyword=ram&page=2"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := testutil.Data(t, w)
	assert.Equal(t, id, data["id"])
	assert.Equal(t, false, data["customer"])
	assert.EqualValues(t, 2, data["page"])
	assert.EqualValues(t, dto.DefaultPageSize, data["pageSize"])
	assert.Equal(t, "desc", data["orderDir"])
	assert.Equal(t, "ram", data["search"])
	assert.Equal(t, true, data["hasFilters"])

	w = testutil.Do(t, engine, testutil.Request{Path: "/items/nope"})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "ERR_VALIDATION")

	w = testutil.Do(t, engine, testutil.Request{Path: "/items/" + id + "?customerId=nope"})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "ERR_VALIDATION")

	w = testutil.Do(t, engine, testutil.Request{Path: "/items/" + id + "?page_size=1000"})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "ERR_VALIDATION")
}
