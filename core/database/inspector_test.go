package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTableColumns(t *testing.T) {
	cfg := Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, db)

	// SQLite specific types: INTEGER, TEXT.
	err = db.Exec("CREATE TABLE media_files (id INTEGER PRIMARY KEY, remote_id TEXT, name TEXT)").Error
	assert.NoError(t, err)

	columns, err := GetTableColumns(db, "media_files")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["remote_id"])
	assert.Equal(t, "text", colMap["name"])

	// PRAGMA table_info returns an empty result for a missing table,
	// no error but no columns either.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}
