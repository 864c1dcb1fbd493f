package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionSQLite(t *testing.T) {
	db, err := NewConnection("file::memory:", false)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "sqlite", db.Dialector.Name())

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}
