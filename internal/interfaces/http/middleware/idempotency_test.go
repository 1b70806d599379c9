package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/silverledger/backend/internal/infrastructure/cache"
	"github.com/silverledger/backend/internal/interfaces/http/dto"
	"github.com/silverledger/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
)

type failingStore struct{}

func (failingStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}
func (failingStore) IsProcessed(context.Context, string) (bool, error) { return false, nil }
func (failingStore) Release(context.Context, string) error             { return nil }
func (failingStore) Close() error                                      { return nil }

func newIdempotentRouter(t *testing.T, status *int32, calls *int32) *gin.Engine {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	r := gin.New()
	r.POST("/bills", Idempotency(store, time.Hour, nil), func(c *gin.Context) {
		atomic.AddInt32(calls, 1)
		code := int(atomic.LoadInt32(status))
		if code >= http.StatusBadRequest {
			c.JSON(code, dto.NewErrorResponse(dto.ErrCodeValidation, "bad"))
			return
		}
		c.JSON(code, dto.NewSuccessResponse(gin.H{"ok": true}))
	})
	return r
}

func postBill(t *testing.T, r http.Handler, key string) int {
	t.Helper()
	req := testutil.Request{Method: http.MethodPost, Path: "/bills", Body: `{}`}
	if key != "" {
		req.Headers = map[string]string{IdempotencyKeyHeader: key}
	}
	return testutil.Do(t, r, req).Code
}

func TestIdempotency_RejectsReplay(t *testing.T) {
	status, calls := int32(http.StatusCreated), int32(0)
	r := newIdempotentRouter(t, &status, &calls)

	assert.Equal(t, http.StatusCreated, postBill(t, r, "k-1"))
	assert.Equal(t, http.StatusConflict, postBill(t, r, "k-1"))
	assert.Equal(t, http.StatusCreated, postBill(t, r, "k-2"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotency_WithoutHeader(t *testing.T) {
	status, calls := int32(http.StatusCreated), int32(0)
	r := newIdempotentRouter(t, &status, &calls)

	assert.Equal(t, http.StatusCreated, postBill(t, r, ""))
	assert.Equal(t, http.StatusCreated, postBill(t, r, ""))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotency_ReleasesFailedRequest(t *testing.T) {
	status, calls := int32(http.StatusBadRequest), int32(0)
	r := newIdempotentRouter(t, &status, &calls)

	assert.Equal(t, http.StatusBadRequest, postBill(t, r, "k-1"))
	atomic.StoreInt32(&status, http.StatusCreated)
	assert.Equal(t, http.StatusCreated, postBill(t, r, "k-1"))
	assert.Equal(t, http.StatusConflict, postBill(t, r, "k-1"))
}

func TestIdempotency_KeyTooLong(t *testing.T) {
	status, calls := int32(http.StatusCreated), int32(0)
	r := newIdempotentRouter(t, &status, &calls)

	long := make([]byte, MaxIdempotencyKeyLength+1)
	for i := range long {
		long[i] = 'k'
	}
	assert.Equal(t, http.StatusBadRequest, postBill(t, r, string(long)))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestIdempotency_StoreFailureFailsOpen(t *testing.T) {
	r := gin.New()
	r.POST("/bills", Idempotency(failingStore{}, time.Hour, nil), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	assert.Equal(t, http.StatusCreated, postBill(t, r, "k-1"))
	assert.Equal(t, http.StatusCreated, postBill(t, r, "k-1"))
}
