package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS enterprises (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		city VARCHAR(50) NOT NULL,
		timezone VARCHAR(50) NOT NULL DEFAULT 'UTC'
	);`,
	`CREATE TABLE IF NOT EXISTS drivers (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		enterprise_id BIGINT REFERENCES enterprises(id) ON DELETE SET NULL
	);`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id BIGSERIAL PRIMARY KEY,
		plate VARCHAR(16) NOT NULL DEFAULT '',
		model_name VARCHAR(50) NOT NULL DEFAULT '',
		color VARCHAR(30) NOT NULL DEFAULT '',
		enterprise_id BIGINT REFERENCES enterprises(id) ON DELETE SET NULL,
		active_driver_id BIGINT REFERENCES drivers(id) ON DELETE SET NULL,
		purchase_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicles_enterprise_active
		ON vehicles (enterprise_id)
		WHERE active_driver_id IS NOT NULL;`,
	`CREATE TABLE IF NOT EXISTS trips (
		id BIGSERIAL PRIMARY KEY,
		vehicle_id BIGINT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		duration_seconds BIGINT NOT NULL,
		CONSTRAINT trips_interval CHECK (end_time > start_time)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_trips_vehicle_start ON trips (vehicle_id, start_time);`,
	`CREATE TABLE IF NOT EXISTS track_points (
		id BIGSERIAL PRIMARY KEY,
		vehicle_id BIGINT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		timestamp TIMESTAMPTZ NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_track_points_vehicle_ts ON track_points (vehicle_id, timestamp);`,
	`CREATE TABLE IF NOT EXISTS reports (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(255) NOT NULL,
		report_type VARCHAR(32) NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		period VARCHAR(16) NOT NULL,
		result JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at DESC);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
