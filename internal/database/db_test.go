package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scrapbid/marketplace/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "scrapbid",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "marketplace",
	}
	require.Equal(t,
		"scrapbid@tcp(db.internal:3306)/marketplace?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))

	cfg.DBPass = "s3cret"
	require.Equal(t,
		"scrapbid:s3cret@tcp(db.internal:3306)/marketplace?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}
