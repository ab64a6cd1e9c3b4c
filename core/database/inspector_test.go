package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestTableColumns(t *testing.T) {
	// Setup In-Memory DB
	db, err := Connect(Config{Driver: "sqlite"})
	assert.NoError(t, err)
	assert.NotNil(t, db)

	// Create a test table
	// SQLite specific types: INTEGER, TEXT.
	err = db.Exec("CREATE TABLE test_tracks (id INTEGER PRIMARY KEY, rel_path TEXT, codec TEXT)").Error
	assert.NoError(t, err)

	columns, err := TableColumns(db, "test_tracks")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	// Map columns to map for easy assertion
	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["rel_path"])
	assert.Equal(t, "text", colMap["codec"])

	// PRAGMA table_info returns an empty result for a non-existent table in
	// SQLite, implies no error but empty columns
	cols, err := TableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestTableColumnsMigratedTrackTable(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite"})
	assert.NoError(t, err)
	assert.NoError(t, Migrate(db))

	columns, err := TableColumns(db, "tracks")
	assert.NoError(t, err)

	names := make(map[string]bool)
	for _, col := range columns {
		names[col.Field] = true
	}
	for _, want := range []string{"id", "tree_id", "rel_path", "codec", "size", "m_time", "present", "last_synced_at"} {
		assert.True(t, names[want], want)
	}
}

func TestTableColumnsMysql(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	rows.AddRow("id", "BIGINT(20)", "NO", "PRI", nil, "auto_increment")
	rows.AddRow("rel_path", "VARCHAR(512)", "YES", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `tracks`").WillReturnRows(rows)

	columns, err := TableColumns(gormDB, "tracks")
	assert.NoError(t, err)
	assert.Len(t, columns, 2)
	// Types and names are normalized to lower case.
	assert.Equal(t, "bigint(20)", columns[0].Type)
	assert.Equal(t, "rel_path", columns[1].Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}
