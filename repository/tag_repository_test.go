package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagRepository_GetTagsByNames(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewTagRepository(db)
		mock.ExpectQuery("SELECT id, user_id, name FROM tags").
			WithArgs(7, pq.Array([]string{"go", "craft"})).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
				AddRow(10, 7, "go"))

		tags, err := repo.GetTagsByNames(7, []string{"go", "craft"})
		require.NoError(t, err)
		require.Len(t, tags, 1)
		assert.Equal(t, "go", tags[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty input skips the query", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewTagRepository(db)
		tags, err := repo.GetTagsByNames(7, nil)
		require.NoError(t, err)
		assert.Empty(t, tags)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTagRepository_GetTagsForItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTagRepository(db)
	mock.ExpectQuery("SELECT t.id, t.user_id, t.name").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(10, 7, "go").
			AddRow(11, 7, "craft"))

	tags, err := repo.GetTagsForItem(1)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, 11, tags[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagRepository_CreateTags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTagRepository(db)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO tags").
		WithArgs(7, "go").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery("INSERT INTO tags").
		WithArgs(7, "craft").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	tags, err := repo.CreateTags(tx, 7, []string{"go", "craft"})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	require.Len(t, tags, 2)
	assert.Equal(t, 10, tags[0].ID)
	assert.Equal(t, "craft", tags[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagRepository_LinkAndUnlinkTags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTagRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO item_tags").
		WithArgs(1, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO item_tags").
		WithArgs(1, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM item_tags").
		WithArgs(1, pq.Array([]int{10})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	require.NoError(t, repo.LinkTags(tx, 1, []int{10, 11}))
	require.NoError(t, repo.UnlinkTags(tx, 1, []int{10}))

	// No-op unlink never hits the database.
	require.NoError(t, repo.UnlinkTags(tx, 1, nil))

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
