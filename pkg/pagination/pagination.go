package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// ListQuery is the query surface shared by the request collection
// endpoints: pagination plus the status and archive filters.
type ListQuery struct {
	Params
	Status          string
	IncludeArchived bool
}

// Parse extracts and validates page/limit from query parameters
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// ParseListQuery reads page/limit along with the status and
// include_archived filters of the request listing endpoints. Archived
// rows stay hidden unless the flag parses as true.
func ParseListQuery(c *gin.Context) ListQuery {
	includeArchived, _ := strconv.ParseBool(c.DefaultQuery("include_archived", "false"))

	return ListQuery{
		Params:          Parse(c),
		Status:          c.Query("status"),
		IncludeArchived: includeArchived,
	}
}
