package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osmapp/osm-backend/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "app",
		DBPass: "s3cret",
		DBHost: "127.0.0.1",
		DBPort: "3306",
		DBName: "osm",
	}

	got := dsn(cfg)
	assert.Equal(t, "app:s3cret@tcp(127.0.0.1:3306)/osm?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true", got)
}

func TestDSNWithoutPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "app",
		DBHost: "db",
		DBPort: "3306",
		DBName: "osm",
	}

	assert.Equal(t, "app@tcp(db:3306)/osm?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true", dsn(cfg))
}

// An update that matches a row but changes nothing must not look like
// a missing row. RowsAffected counts matched rows only because the DSN
// sets clientFoundRows; this pins that flag in place.
func TestDSNCountsMatchedRows(t *testing.T) {
	assert.Contains(t, dsn(config.Config{}), "clientFoundRows=true")
}
