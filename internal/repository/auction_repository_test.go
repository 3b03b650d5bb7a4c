package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/scrapbid/marketplace/internal/model"
)

// auctionRow builds a full auctions result row. highest and winner take
// int64 bid/user IDs or nil.
func auctionRow(id int64, status string, endAt time.Time, highest, winner any) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "title", "description", "scrap_item_id", "start_at", "end_at", "status",
		"highest_bid_id", "reserve_price_cents", "winner_id", "created_at", "updated_at",
	}).AddRow(id, "copper lot", "", int64(1), now.Add(-time.Hour), endAt, status,
		highest, int64(0), winner, now, now)
}

func TestCloseResolvesWinner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	endAt := time.Now().UTC().Add(time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM auctions WHERE id = \? FOR UPDATE`).
		WithArgs(5).
		WillReturnRows(auctionRow(5, model.AuctionOpen, endAt, int64(7), nil))
	mock.ExpectQuery(`SELECT bidder_id FROM bids WHERE id = \?`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"bidder_id"}).AddRow(int64(3)))
	mock.ExpectExec(`UPDATE auctions SET status = \?, winner_id = \? WHERE id = \?`).
		WithArgs(model.AuctionClosed, 3, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	a, err := NewAuctionRepo(db).Close(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, model.AuctionClosed, a.Status)
	require.NotNil(t, a.WinnerID)
	require.Equal(t, uint64(3), *a.WinnerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseWithoutBidsLeavesNoWinner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	endAt := time.Now().UTC().Add(time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM auctions WHERE id = \? FOR UPDATE`).
		WithArgs(5).
		WillReturnRows(auctionRow(5, model.AuctionOpen, endAt, nil, nil))
	mock.ExpectExec(`UPDATE auctions SET status = \?, winner_id = \? WHERE id = \?`).
		WithArgs(model.AuctionClosed, nil, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	a, err := NewAuctionRepo(db).Close(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, model.AuctionClosed, a.Status)
	require.Nil(t, a.WinnerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseAlreadyClosed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	endAt := time.Now().UTC().Add(-time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM auctions WHERE id = \? FOR UPDATE`).
		WithArgs(5).
		WillReturnRows(auctionRow(5, model.AuctionClosed, endAt, nil, nil))
	mock.ExpectRollback()

	_, err = NewAuctionRepo(db).Close(context.Background(), 5)
	require.ErrorIs(t, err, ErrAuctionAlreadyClosed)
	require.ErrorIs(t, err, ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}
