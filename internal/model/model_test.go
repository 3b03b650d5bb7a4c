package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBeatsHighest(t *testing.T) {
	tests := []struct {
		name       string
		amount     int64
		highest    int64
		hasHighest bool
		want       bool
	}{
		{name: "first_bid_zero", amount: 0, hasHighest: false, want: true},
		{name: "first_bid_positive", amount: 100, hasHighest: false, want: true},
		{name: "negative_amount", amount: -1, hasHighest: false, want: false},
		{name: "beats_current", amount: 101, highest: 100, hasHighest: true, want: true},
		{name: "equal_loses", amount: 100, highest: 100, hasHighest: true, want: false},
		{name: "below_loses", amount: 99, highest: 100, hasHighest: true, want: false},
		{name: "negative_with_highest", amount: -5, highest: 100, hasHighest: true, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, BeatsHighest(tc.amount, tc.highest, tc.hasHighest))
		})
	}
}

func TestValidateAuctionDates(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{name: "start_before_end", start: now, end: now.Add(time.Hour), wantErr: false},
		{name: "equal_rejected", start: now, end: now, wantErr: true},
		{name: "end_before_start", start: now.Add(time.Hour), end: now, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAuctionDates(tc.start, tc.end)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrDateOrder)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleBuyer, RoleSeller, RoleAuctionManager, RoleSystemAdmin, RoleSuperUser} {
		require.True(t, ValidRole(r), r)
	}
	require.False(t, ValidRole("BUYER"))
	require.False(t, ValidRole("admin"))
	require.False(t, ValidRole(""))
}

func TestScrapEnums(t *testing.T) {
	require.True(t, ValidCategoryType(CategoryMetal))
	require.False(t, ValidCategoryType("wood"))
	require.True(t, ValidScrapStatus(ScrapReadyForAuction))
	require.False(t, ValidScrapStatus("ready"))
	require.True(t, ValidLocationType(LocationRecyclingCenter))
	require.False(t, ValidLocationType("dock"))
}

func TestAuctionStatus(t *testing.T) {
	require.True(t, ValidAuctionStatus(AuctionOpen))
	require.True(t, ValidAuctionStatus(AuctionClosed))
	require.True(t, ValidAuctionStatus(AuctionCancelled))
	require.False(t, ValidAuctionStatus("running"))
}

func TestLedgerEnums(t *testing.T) {
	require.True(t, ValidPaymentMethod(MethodBankTransfer))
	require.False(t, ValidPaymentMethod("cash"))

	require.True(t, ValidPaymentStatus(LedgerCompleted))
	require.False(t, ValidPaymentStatus(LedgerRefunded), "payments cannot be refunded")
	require.True(t, ValidTransactionStatus(LedgerRefunded))
	require.False(t, ValidTransactionStatus("reversed"))
}

func TestSubscriptionEnums(t *testing.T) {
	require.True(t, ValidFrequency(FreqMonthly))
	require.False(t, ValidFrequency("hourly"))

	require.True(t, ValidCategories([]string{"auctions", "bids"}))
	require.True(t, ValidCategories(nil))
	require.False(t, ValidCategories([]string{"auctions", "weather"}))

	require.True(t, ValidNewsletterTypes([]string{"new_auctions", "offers"}))
	require.False(t, ValidNewsletterTypes([]string{"spam"}))
}
