package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	got := dsn("booker", "s3cret", "db.internal", "3306", "airzkare")
	assert.Equal(t, "booker:s3cret@tcp(db.internal:3306)/airzkare?charset=utf8mb4&parseTime=true&loc=UTC", got)
}

func TestDSNWithoutPassword(t *testing.T) {
	got := dsn("root", "", "localhost", "3307", "airzkare_test")
	assert.Equal(t, "root@tcp(localhost:3307)/airzkare_test?charset=utf8mb4&parseTime=true&loc=UTC", got)
}
