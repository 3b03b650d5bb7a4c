package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConflictSentinels(t *testing.T) {
	require.ErrorIs(t, ErrBidTooLow, ErrConflict)
	require.ErrorIs(t, ErrAuctionNotOpen, ErrConflict)
	require.ErrorIs(t, ErrAuctionAlreadyClosed, ErrConflict)
	require.NotErrorIs(t, ErrForbidden, ErrConflict)
}

func TestSortColumn(t *testing.T) {
	cases := []struct {
		field string
		col   string
		ok    bool
	}{
		{"weight", "weight_kg", true},
		{"status", "status_type", true},
		{"category", "category_type", true},
		{"location", "location_type", true},
		{"created_at", "created_at", true},
		{"description", "description", true},
		{"id; DROP TABLE scrap_items", "", false},
		{"price", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		col, ok := SortColumn(tc.field)
		require.Equal(t, tc.ok, ok, tc.field)
		require.Equal(t, tc.col, col, tc.field)
	}
}

func TestJoinSplitList(t *testing.T) {
	require.Equal(t, "a,b,c", joinList([]string{"a", "b", "c"}))
	require.Equal(t, "", joinList(nil))
	require.Equal(t, []string{"a", "b", "c"}, splitList("a,b,c"))
	require.Empty(t, splitList(""))
}
