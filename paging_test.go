package factoryd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plantops/factoryd"
)

func TestFindOptionsWindow(t *testing.T) {
	tests := []struct {
		name     string
		opts     factoryd.FindOptions
		total    int
		skip     int
		size     int
		expected factoryd.Pagination
	}{
		{
			name:     "first page of 25",
			opts:     factoryd.FindOptions{Page: 1, PerPage: 10},
			total:    25,
			skip:     0,
			size:     10,
			expected: factoryd.Pagination{Total: 25, Page: 1, PerPage: 10},
		},
		{
			name:     "last partial page of 25",
			opts:     factoryd.FindOptions{Page: 3, PerPage: 10},
			total:    25,
			skip:     20,
			size:     10,
			expected: factoryd.Pagination{Total: 25, Page: 3, PerPage: 10},
		},
		{
			name:     "per_page greater than total is clamped",
			opts:     factoryd.FindOptions{Page: 1, PerPage: 1000},
			total:    25,
			skip:     0,
			size:     25,
			expected: factoryd.Pagination{Total: 25, Page: 1, PerPage: 25},
		},
		{
			name:     "empty collection yields a zero window",
			opts:     factoryd.FindOptions{Page: 1, PerPage: 10},
			total:    0,
			skip:     0,
			size:     0,
			expected: factoryd.Pagination{Total: 0, Page: 1, PerPage: 0},
		},
		{
			name:     "zero values fall back to defaults",
			opts:     factoryd.FindOptions{},
			total:    25,
			skip:     0,
			size:     10,
			expected: factoryd.Pagination{Total: 25, Page: 1, PerPage: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skip, size, p := tt.opts.Window(tt.total)
			assert.Equal(t, tt.skip, skip)
			assert.Equal(t, tt.size, size)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestScopeAllows(t *testing.T) {
	factory := platformID(t, "0000000000000a00")
	other := platformID(t, "0000000000000b00")

	admin := factoryd.Scope{Kind: factoryd.AdminScope}
	scoped := factoryd.Scope{Kind: factoryd.FactoryScope, FactoryID: factory}
	none := factoryd.Scope{Kind: factoryd.NoScope}

	assert.True(t, admin.Allows(factory))
	assert.True(t, admin.Allows(other))
	assert.True(t, scoped.Allows(factory))
	assert.False(t, scoped.Allows(other))
	assert.False(t, none.Allows(factory))
	assert.False(t, none.Allows(other))
}
