package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS driver_locations (
		id          INTEGER PRIMARY KEY CHECK (id BETWEEN 1 AND 50000),
		longitude   DOUBLE PRECISION NOT NULL CHECK (longitude BETWEEN -90 AND 90),
		latitude    DOUBLE PRECISION NOT NULL CHECK (latitude BETWEEN -90 AND 90),
		accuracy    DOUBLE PRECISION NOT NULL CHECK (accuracy BETWEEN 0 AND 1),
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
}

const getLocation = `
SELECT id, longitude, latitude, accuracy, updated_at
FROM driver_locations
WHERE id = $1`

const upsertLocation = `
INSERT INTO driver_locations (id, longitude, latitude, accuracy, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET longitude  = EXCLUDED.longitude,
    latitude   = EXCLUDED.latitude,
    accuracy   = EXCLUDED.accuracy,
    updated_at = EXCLUDED.updated_at`

const listLocations = `
SELECT id, longitude, latitude, accuracy, updated_at
FROM driver_locations
ORDER BY id`
