package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(target string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestPaginate(t *testing.T) {
	list := make([]int, 45)
	for i := range list {
		list[i] = i
	}

	tests := []struct {
		target    string
		wantLen   int
		wantFirst int
	}{
		{"/", 20, 0},
		{"/?page=3", 5, 40},
		{"/?page=2&pageSize=10", 10, 10},
		{"/?page=9", 0, -1},
		{"/?pageSize=1000", 45, 0},
		{"/?page=-1&pageSize=x", 20, 0},
		{"/?page=9223372036854775807", 0, -1},
		{"/?page=9223372036854775807&pageSize=100", 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got := Paginate(testContext(tt.target), list)
			assert.Len(t, got, tt.wantLen)
			if tt.wantFirst >= 0 {
				assert.Equal(t, tt.wantFirst, got[0])
			}
		})
	}
}

func TestPageSizeBounds(t *testing.T) {
	assert.Equal(t, DefaultPageSize, GetPageSize(testContext("/")))
	assert.Equal(t, MaxPageSize, GetPageSize(testContext("/?pageSize=101")))
	assert.Equal(t, 1, GetPage(testContext("/?page=0")))
}

func TestNewResUsesLanguage(t *testing.T) {
	res := NewRes(code.ErrorNoteNotFound.WithDetails("n1"), "zh_cn")
	assert.Equal(t, code.ErrorNoteNotFound.Code(), res.Code)
	assert.False(t, res.Status)
	assert.Equal(t, "笔记不存在", res.Message)
	assert.Equal(t, "n1", res.Details)
}
