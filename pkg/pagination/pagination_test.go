package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestParseDefaults(t *testing.T) {
	params := Parse(testContext(t, "/api/job_request"))

	assert.Equal(t, DefaultPage, params.Page)
	assert.Equal(t, DefaultLimit, params.Limit)
	assert.Equal(t, 0, params.Offset)
}

func TestParseClampsBounds(t *testing.T) {
	cases := []struct {
		name      string
		target    string
		wantPage  int
		wantLimit int
	}{
		{"negative page", "/?page=-3&limit=10", DefaultPage, 10},
		{"zero limit", "/?page=2&limit=0", 2, DefaultLimit},
		{"limit above max", "/?page=2&limit=500", 2, MaxLimit},
		{"garbage values", "/?page=abc&limit=xyz", DefaultPage, DefaultLimit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := Parse(testContext(t, tc.target))
			assert.Equal(t, tc.wantPage, params.Page)
			assert.Equal(t, tc.wantLimit, params.Limit)
			assert.Equal(t, (tc.wantPage-1)*tc.wantLimit, params.Offset)
		})
	}
}

func TestParseListQuery(t *testing.T) {
	query := ParseListQuery(testContext(t, "/?page=3&limit=5&status=pending&include_archived=true"))

	assert.Equal(t, 3, query.Page)
	assert.Equal(t, 5, query.Limit)
	assert.Equal(t, "pending", query.Status)
	assert.True(t, query.IncludeArchived)
}

func TestParseListQueryDefaults(t *testing.T) {
	query := ParseListQuery(testContext(t, "/api/venue_request"))

	assert.Equal(t, DefaultPage, query.Page)
	assert.Empty(t, query.Status)
	assert.False(t, query.IncludeArchived)
}

func TestParseListQueryArchivedFlagVariants(t *testing.T) {
	assert.True(t, ParseListQuery(testContext(t, "/?include_archived=1")).IncludeArchived)
	assert.False(t, ParseListQuery(testContext(t, "/?include_archived=maybe")).IncludeArchived)
}
