package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, PageSize: 20}, ValidatePagination(0, 0))
	assert.Equal(t, Pagination{Page: 3, PageSize: 100}, ValidatePagination(3, 500))
	assert.Equal(t, 40, ValidatePagination(3, 20).Offset())
}

func TestParsePaginationLimitOffset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/tickets?limit=10&offset=20", nil)

	p := ParsePagination(c)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PageSize)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 20))
	assert.Equal(t, 3, TotalPages(41, 20))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0.00 B", FormatBytes(0))
	assert.Equal(t, "1.50 KB", FormatBytes(1536))
	assert.Equal(t, "10.00 MB", FormatBytes(10<<20))
}

func TestParseUintParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	id, err := ParseUintParam(c, "id", "ticket")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	_, err = ParseUintParam(c, "id", "ticket")
	assert.Error(t, err)
}
