package session

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLStoreEnsureTableCreatesWhenMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("web_sessions").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS web_sessions").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, MySQLStore{DB: db}.EnsureTable(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStoreSaveAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := MySQLStore{DB: db}

	sess := newSession("sid-1", time.Now().Add(time.Hour))
	sess.SignIn("u1", "ada@example.com", "Ada", "tok")
	sess.Set("booking_step_v1", "2")

	mock.ExpectExec("INSERT INTO web_sessions").
		WithArgs("sid-1", "u1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, store.Save(context.Background(), sess))

	raw, err := encode(sess)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT data, expires_at FROM web_sessions").WithArgs("sid-1").
		WillReturnRows(sqlmock.NewRows([]string{"data", "expires_at"}).AddRow(string(raw), time.Now().Add(time.Hour)))

	got, err := store.Get(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "sid-1", got.ID)
	assert.Equal(t, "tok", got.AccessToken)
	v, _ := got.Get("booking_step_v1")
	assert.Equal(t, "2", v)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStoreGetExpiredOrMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := MySQLStore{DB: db}

	mock.ExpectQuery("SELECT data, expires_at FROM web_sessions").WithArgs("old").
		WillReturnRows(sqlmock.NewRows([]string{"data", "expires_at"}).AddRow("{}", time.Now().Add(-time.Minute)))
	mock.ExpectQuery("SELECT data, expires_at FROM web_sessions").WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"data", "expires_at"}))

	_, err = store.Get(context.Background(), "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStoreDeleteExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM web_sessions WHERE expires_at").
		WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := MySQLStore{DB: db}.DeleteExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
