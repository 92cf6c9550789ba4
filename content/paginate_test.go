package content

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	var posts []Post
	for i := 0; i < 25; i++ {
		posts = append(posts, Post{Slug: fmt.Sprintf("p%d", i)})
	}

	tests := []struct {
		page      int
		wantOK    bool
		wantLen   int
		wantFirst string
		hasPrev   bool
		hasNext   bool
	}{
		{page: 1, wantOK: true, wantLen: 10, wantFirst: "p0", hasNext: true},
		{page: 2, wantOK: true, wantLen: 10, wantFirst: "p10", hasPrev: true, hasNext: true},
		{page: 3, wantOK: true, wantLen: 5, wantFirst: "p20", hasPrev: true},
		{page: 4},
		{page: 0},
		{page: -1},
	}
	for _, tt := range tests {
		items, pg, ok := Paginate(posts, tt.page, 10)
		assert.Equal(t, tt.wantOK, ok, "page %d", tt.page)
		assert.Equal(t, 3, pg.TotalPages)
		assert.Equal(t, 25, pg.TotalItems)
		if !tt.wantOK {
			continue
		}
		assert.Len(t, items, tt.wantLen, "page %d", tt.page)
		assert.Equal(t, tt.wantFirst, items[0].Slug)
		assert.Equal(t, tt.hasPrev, pg.HasPrev())
		assert.Equal(t, tt.hasNext, pg.HasNext())
	}
}

func TestPaginateEmpty(t *testing.T) {
	items, pg, ok := Paginate(nil, 1, 10)
	assert.True(t, ok)
	assert.Empty(t, items)
	assert.Equal(t, 1, pg.TotalPages)
	assert.False(t, pg.HasNext())
}
