package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, query string) Pagination {
	t.Helper()
	var got Pagination
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = ParseFromRequest(c)
		return nil
	})
	_, err := app.Test(httptest.NewRequest("GET", "/"+query, nil))
	require.NoError(t, err)
	return got
}

func TestParseFromRequest(t *testing.T) {
	tests := []struct {
		query  string
		page   int
		limit  int
		offset int
	}{
		{"", 1, DefaultLimit, 0},
		{"?page=3&limit=20", 3, 20, 40},
		{"?page=0&limit=-5", 1, DefaultLimit, 0},
		{"?page=abc", 1, DefaultLimit, 0},
		{"?limit=1000", 1, MaxLimit, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p := parse(t, tt.query)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.offset, p.Offset)
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), Pagination{Limit: 10, Total: 0}.TotalPages())
	assert.Equal(t, int64(1), Pagination{Limit: 10, Total: 10}.TotalPages())
	assert.Equal(t, int64(3), Pagination{Limit: 10, Total: 21}.TotalPages())
}
