package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/scrapbid/marketplace/internal/model"
)

func bidRow(id, auctionID, bidderID, amountCents int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "auction_id", "bidder_id", "amount_cents", "status", "bid_at"}).
		AddRow(id, auctionID, bidderID, amountCents, model.BidActive, time.Now().UTC())
}

func TestDeleteHighestBidRepoints(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	endAt := time.Now().UTC().Add(time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bids WHERE id = \?`).
		WithArgs(7).
		WillReturnRows(bidRow(7, 5, 3, 500))
	mock.ExpectQuery(`FROM auctions WHERE id = \? FOR UPDATE`).
		WithArgs(5).
		WillReturnRows(auctionRow(5, model.AuctionOpen, endAt, int64(7), nil))
	mock.ExpectExec(`DELETE FROM bids WHERE id = \?`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id FROM bids WHERE auction_id = \?`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))
	mock.ExpectExec(`UPDATE auctions SET highest_bid_id = \? WHERE id = \?`).
		WithArgs(9, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewBidRepo(db).Delete(context.Background(), 7, 3, false)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteLastBidClearsHighest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	endAt := time.Now().UTC().Add(time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bids WHERE id = \?`).
		WithArgs(7).
		WillReturnRows(bidRow(7, 5, 3, 500))
	mock.ExpectQuery(`FROM auctions WHERE id = \? FOR UPDATE`).
		WithArgs(5).
		WillReturnRows(auctionRow(5, model.AuctionOpen, endAt, int64(7), nil))
	mock.ExpectExec(`DELETE FROM bids WHERE id = \?`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id FROM bids WHERE auction_id = \?`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`UPDATE auctions SET highest_bid_id = \? WHERE id = \?`).
		WithArgs(nil, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewBidRepo(db).Delete(context.Background(), 7, 3, false)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteForeignBidForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bids WHERE id = \?`).
		WithArgs(7).
		WillReturnRows(bidRow(7, 5, 3, 500))
	mock.ExpectRollback()

	err = NewBidRepo(db).Delete(context.Background(), 7, 4, false)
	require.ErrorIs(t, err, ErrForbidden)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateForeignBidForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bids WHERE id = \?`).
		WithArgs(7).
		WillReturnRows(bidRow(7, 5, 3, 500))
	mock.ExpectRollback()

	_, closed, err := NewBidRepo(db).Update(context.Background(), 7, 4, 600)
	require.ErrorIs(t, err, ErrForbidden)
	require.Nil(t, closed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateClosesExpiredAuction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	endAt := time.Now().UTC().Add(-time.Minute)
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

	_, closed, err := NewBidRepo(db).Create(context.Background(), 5, 9, 900)
	require.ErrorIs(t, err, ErrAuctionNotOpen)
	require.ErrorIs(t, err, ErrConflict)
	require.NotNil(t, closed)
	require.Equal(t, model.AuctionClosed, closed.Status)
	require.NotNil(t, closed.WinnerID)
	require.Equal(t, uint64(3), *closed.WinnerID)
	require.NoError(t, mock.ExpectationsWereMet())
}
