package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/interfaces/http/dto"
	"github.com/silverledger/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineRequest struct {
	Description string          `json:"description" binding:"required"`
	Weight      decimal.Decimal `json:"weight"`
}

type billRequest struct {
	CustomerID string        `json:"customerId" binding:"required,uuid"`
	Items      []lineRequest `json:"items" binding:"required,min=1,dive"`
	Note       string        `json:"note" binding:"max=5"`
	Count      int           `json:"count"`
}

func newBindRouter() *gin.Engine {
	SetupValidator()
	r := gin.New()
	r.Use(RequestID())
	r.POST("/bind", func(c *gin.Context) {
		var req billRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return r
}

func details(t *testing.T, body map[string]interface{}) map[string]string {
	t.Helper()
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	raw, _ := errObj["details"].([]interface{})
	out := make(map[string]string, len(raw))
	for _, d := range raw {
		m := d.(map[string]interface{})
		out[m["field"].(string)] = m["message"].(string)
	}
	return out
}

func TestHandleValidationError_FieldDetails(t *testing.T) {
	w := testutil.Do(t, newBindRouter(), testutil.Request{
		Method: http.MethodPost,
		Path:   "/bind",
		Body: map[string]interface{}{
			"customerId": "not-a-uuid",
			"items":      []map[string]string{{"weight": "10"}},
			"note":       "far too long",
		},
	})

	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	d := details(t, testutil.JSONResponse(t, w))
	assert.Equal(t, "Invalid UUID format", d["customerId"])
	assert.Equal(t, "This field is required", d["items[0].description"])
	assert.Equal(t, "Must be at most 5 characters", d["note"])
}

func TestHandleValidationError_EmptyItems(t *testing.T) {
	w := testutil.Do(t, newBindRouter(), testutil.Request{
		Method: http.MethodPost,
		Path:   "/bind",
		Body:   `{"customerId":"3b241101-e2bb-4255-8caf-4136c566a962","items":[]}`,
	})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	assert.Equal(t, "Must be at least 1", details(t, testutil.JSONResponse(t, w))["items"])
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	w := testutil.Do(t, newBindRouter(), testutil.Request{
		Method: http.MethodPost,
		Path:   "/bind",
		Body:   `{"customerId":`,
	})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeInvalidJSON)
}

func TestHandleValidationError_WrongType(t *testing.T) {
	w := testutil.Do(t, newBindRouter(), testutil.Request{
		Method: http.MethodPost,
		Path:   "/bind",
		Body:   `{"customerId":"3b241101-e2bb-4255-8caf-4136c566a962","items":[{"description":"Ring"}],"count":"many"}`,
	})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	assert.Contains(t, details(t, testutil.JSONResponse(t, w)), "count")
}

func TestHandleValidationError_BadDecimal(t *testing.T) {
	w := testutil.Do(t, newBindRouter(), testutil.Request{
		Method: http.MethodPost,
		Path:   "/bind",
		Body:   `{"customerId":"3b241101-e2bb-4255-8caf-4136c566a962","items":[{"description":"Ring","weight":"heavy"}]}`,
	})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeInvalidJSON)
}
