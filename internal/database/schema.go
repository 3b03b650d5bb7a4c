package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements holds the DDL applied at startup, in dependency order.
// Every statement is idempotent so the application can be restarted against
// an existing database.  auctions.highest_bid_id and bids.auction_id point
// at each other, which is why neither carries a foreign key constraint.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(120) NOT NULL,
		email VARCHAR(190) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		role ENUM('buyer','seller','auction_manager','system_admin','super_user') NOT NULL DEFAULT 'buyer',
		street VARCHAR(190) NULL,
		city VARCHAR(120) NULL,
		country VARCHAR(120) NULL,
		phone VARCHAR(40) NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS scrap_items (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		description TEXT NOT NULL,
		weight_kg DOUBLE NOT NULL,
		category_type ENUM('metal','plastic','electronic','other') NOT NULL,
		sub_category VARCHAR(120) NULL,
		classification VARCHAR(120) NULL,
		status_type ENUM('unprocessed','sorted','ready_for_auction','recycled') NOT NULL,
		status_reason VARCHAR(255) NULL,
		location_type ENUM('warehouse','recycling_center','auction_house') NOT NULL,
		address VARCHAR(255) NOT NULL,
		warehouse_section VARCHAR(120) NULL,
		received_by BIGINT UNSIGNED NOT NULL,
		sorted_by BIGINT UNSIGNED NULL,
		images JSON NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_scrap_status (status_type),
		KEY idx_scrap_category (category_type),
		KEY idx_scrap_location (location_type)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS auctions (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title VARCHAR(190) NOT NULL,
		description TEXT NOT NULL,
		scrap_item_id BIGINT UNSIGNED NOT NULL,
		start_at DATETIME NOT NULL,
		end_at DATETIME NOT NULL,
		status ENUM('open','closed','cancelled') NOT NULL DEFAULT 'open',
		highest_bid_id BIGINT UNSIGNED NULL,
		reserve_price_cents BIGINT NOT NULL,
		winner_id BIGINT UNSIGNED NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_auctions_status_end (status, end_at),
		KEY idx_auctions_item (scrap_item_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bids (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		auction_id BIGINT UNSIGNED NOT NULL,
		bidder_id BIGINT UNSIGNED NOT NULL,
		amount_cents BIGINT NOT NULL,
		status ENUM('active','accepted','rejected') NOT NULL DEFAULT 'active',
		bid_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_bids_auction_amount (auction_id, amount_cents),
		KEY idx_bids_bidder (bidder_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS payments (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		payment_ref CHAR(36) NOT NULL,
		amount_cents BIGINT NOT NULL,
		method ENUM('credit_card','bank_transfer','paypal','other') NOT NULL,
		status ENUM('pending','completed','failed') NOT NULL DEFAULT 'pending',
		user_id BIGINT UNSIGNED NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_payments_ref (payment_ref),
		KEY idx_payments_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		transaction_ref CHAR(36) NOT NULL,
		amount_cents BIGINT NOT NULL,
		payment_method ENUM('credit_card','bank_transfer','paypal','other') NOT NULL,
		status ENUM('pending','completed','failed','refunded') NOT NULL DEFAULT 'pending',
		payment_id BIGINT UNSIGNED NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		description VARCHAR(255) NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_transactions_ref (transaction_ref),
		KEY idx_transactions_payment (payment_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS subscriptions (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		frequency ENUM('daily','weekly','monthly') NOT NULL,
		categories VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_subscriptions_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS newsletter_subscriptions (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		subscription_type ENUM('daily','weekly','monthly') NOT NULL,
		notification_types VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_newsletter_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema applies the schema statements one by one.  It is safe to call
// on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
