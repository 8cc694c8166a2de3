package errors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haierkeys/fast-note-pad/internal/middleware"
	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	wrapped := pkgerrors.Wrap(code.ErrorNoteNotFound.WithDetails("id=n9"), "update")
	e := FromError(wrapped)
	assert.Equal(t, code.ErrorNoteNotFound.Code(), e.Code)
	assert.False(t, e.Status)
	assert.Equal(t, "id=n9", e.Details)
	assert.True(t, IsAppError(e))
	assert.ErrorIs(t, e, code.ErrorNoteNotFound)

	internal := FromError(context.DeadlineExceeded)
	assert.Equal(t, code.ErrorServerInternal.Code(), internal.Code)
	assert.Empty(t, internal.Details)
}

func TestErrorResponseCarriesTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.TraceMiddlewareWithConfig(true, "", nil))
	r.GET("/x", func(c *gin.Context) { ErrorResponse(c, code.ErrorNotSignedIn) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.DefaultTraceIDHeader, "trace-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var got AppError
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, code.ErrorNotSignedIn.Code(), got.Code)
	assert.Equal(t, "trace-1", got.TraceID)
}
