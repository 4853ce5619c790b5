package database

import (
	"context"
	"database/sql"
	"time"
)

// Schema statements applied at startup.  Every statement is idempotent
// so a restart against an existing database is a no-op.  The unique
// keys are load-bearing: passengers.email and flights.flight_number
// back the upsert resolvers, and uq_passenger_flight turns the
// concurrent duplicate-create race into a retryable conflict instead
// of silent duplication.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS principals (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username      VARCHAR(64)  NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		created_at    DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		PRIMARY KEY (id),
		UNIQUE KEY uq_principals_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		principal_id BIGINT UNSIGNED NOT NULL,
		token_hash   CHAR(64)    NOT NULL,
		expires_at   DATETIME(6) NOT NULL,
		revoked_at   DATETIME(6) NULL,
		created_at   DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		PRIMARY KEY (id),
		KEY idx_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_principal FOREIGN KEY (principal_id) REFERENCES principals (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS passengers (
		id           BIGINT UNSIGNED NOT NULL,
		full_name    VARCHAR(100) NOT NULL,
		email        VARCHAR(100) NOT NULL,
		phone_number VARCHAR(15)  NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_passengers_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS flights (
		id                  BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		flight_number       VARCHAR(10) NOT NULL,
		airline             VARCHAR(50) NOT NULL,
		origin_airport      VARCHAR(50) NOT NULL,
		destination_airport VARCHAR(50) NOT NULL,
		departure_datetime  DATETIME(6) NOT NULL,
		arrival_datetime    DATETIME(6) NOT NULL,
		seat_information    VARCHAR(5)  NOT NULL,
		travel_class        VARCHAR(10) NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_flights_number (flight_number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id                    BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		owner_principal_id    BIGINT UNSIGNED NOT NULL,
		passenger_id          BIGINT UNSIGNED NOT NULL,
		flight_id             BIGINT UNSIGNED NOT NULL,
		total_price           DOUBLE      NOT NULL,
		reservation_status    VARCHAR(20) NOT NULL,
		creation_timestamp    DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		last_update_timestamp DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
		PRIMARY KEY (id),
		UNIQUE KEY uq_passenger_flight (passenger_id, flight_id),
		KEY idx_reservations_owner (owner_principal_id),
		CONSTRAINT fk_reservations_owner FOREIGN KEY (owner_principal_id) REFERENCES principals (id),
		CONSTRAINT fk_reservations_passenger FOREIGN KEY (passenger_id) REFERENCES passengers (id),
		CONSTRAINT fk_reservations_flight FOREIGN KEY (flight_id) REFERENCES flights (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the application tables if they do not exist yet.
func Migrate(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
