package tags_test

import (
	"testing"

	"github.com/pombreda/soundforest/core/store"
	"github.com/pombreda/soundforest/core/tags"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockService(t *testing.T) (*tags.Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return tags.NewService(store.New(gormDB), zap.NewNop()), mock
}

func TestMergePositionCountFailure(t *testing.T) {
	svc, mock := setupMockService(t)

	mock.ExpectBegin()
	rows := sqlmock.NewRows([]string{"id", "track_id", "source", "name", "value", "position"}).
		AddRow(1, 1, "musicbrainz", "artist", "canonical artist", 0)
	mock.ExpectQuery("SELECT (.+) FROM `tag_entries`").WillReturnRows(rows)
	mock.ExpectExec("DELETE FROM `tag_entries`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	// The failed position count must abort the merge, not place the copied
	// entries at position zero.
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `tag_entries`").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := svc.Merge(1, "musicbrainz", "filesystem", nil)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
