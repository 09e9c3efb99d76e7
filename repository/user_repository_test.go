package repository

import (
	"database/sql"
	"testing"
	"time"

	"reading-list-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)
		user := &model.User{
			DisplayName:  "Alice",
			Email:        "alice@example.com",
			PasswordHash: "$2a$14$hash",
		}

		createdAt := time.Now()
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("Alice", "alice@example.com", "$2a$14$hash").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, createdAt))

		err = repo.CreateUser(user)
		require.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		assert.Equal(t, createdAt, user.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrDuplicateEmail", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)
		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

		err = repo.CreateUser(&model.User{Email: "alice@example.com"})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other errors pass through", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)
		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(sql.ErrConnDone)

		err = repo.CreateUser(&model.User{Email: "alice@example.com"})
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)
		rows := sqlmock.NewRows([]string{"id", "display_name", "email", "password_hash", "created_at"}).
			AddRow(1, "Alice", "alice@example.com", "$2a$14$hash", time.Now())
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email=").
			WithArgs("alice@example.com").
			WillReturnRows(rows)

		user, err := repo.GetUserByEmail("alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		assert.Equal(t, "Alice", user.DisplayName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email=").
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		_, err = repo.GetUserByEmail("nobody@example.com")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestUserRepository_GetUserByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	rows := sqlmock.NewRows([]string{"id", "display_name", "email", "password_hash", "created_at"}).
		AddRow(5, "Bob", "bob@example.com", "$2a$14$hash", time.Now())
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id=").
		WithArgs(5).
		WillReturnRows(rows)

	user, err := repo.GetUserByID(5)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}
