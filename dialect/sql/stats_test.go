package sql

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlderive/dialect"
)

func TestStatsDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var slow []string
	drv := NewStatsDriver(OpenDB(dialect.Postgres, db),
		WithSlowThreshold(0),
		WithSlowQueryHook(func(_ context.Context, query string, _ []any, _ time.Duration) {
			slow = append(slow, query)
		}),
	)
	assert.Equal(t, dialect.Postgres, drv.Dialect())

	mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec("DELETE").WillReturnError(errors.New("boom"))

	ctx := context.Background()
	require.NoError(t, drv.Exec(ctx, "CREATE TABLE IF NOT EXISTS t ( id INTEGER )", []any{}, nil))
	rows := &Rows{}
	require.NoError(t, drv.Query(ctx, "SELECT * FROM t", []any{}, rows))
	require.NoError(t, rows.Close())
	require.Error(t, drv.Exec(ctx, "DELETE FROM t", []any{}, nil))
	require.NoError(t, mock.ExpectationsWereMet())

	s := drv.QueryStats().Stats()
	assert.Equal(t, int64(1), s.TotalQueries)
	assert.Equal(t, int64(2), s.TotalExecs)
	assert.Equal(t, int64(1), s.Errors)
	assert.Equal(t, int64(3), s.SlowQueries)
	assert.Len(t, slow, 3)
	assert.Contains(t, s.String(), "queries=1 execs=2")

	drv.SetSlowThreshold(time.Hour)
	assert.Equal(t, time.Hour, drv.SlowThreshold())
	drv.QueryStats().Reset()
	assert.Zero(t, drv.QueryStats().Stats().AvgQueryDuration())
}

func TestWithSlowQueryLog_DefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	drv := NewStatsDriver(nil, WithSlowQueryLog(nil))
	require.NotNil(t, drv.slowHook)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			drv.slowHook(context.Background(), "SELECT * FROM t", []any{}, time.Second)
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, strings.Count(buf.String(), "slow query detected"))
}

func TestDebugDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	drv := NewDebugDriver(OpenDB(dialect.SQLite, db), DebugWithLogger(logger))

	mock.ExpectExec("INSERT INTO User").WithArgs(int64(1), "bob").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("no such table"))

	ctx := context.Background()
	require.NoError(t, drv.Exec(ctx, "INSERT INTO User (id, name) VALUES ($1, $2)", []any{int32(1), "bob"}, nil))
	require.Error(t, drv.Query(ctx, "SELECT * FROM User", []any{}, &Rows{}))
	require.NoError(t, mock.ExpectationsWereMet())

	out := buf.String()
	assert.Equal(t, 4, strings.Count(out, `"query_id"`))
	assert.Contains(t, out, `"op":"exec"`)
	assert.Contains(t, out, `"dialect":"sqlite3"`)
	assert.Contains(t, out, "statement failed")
	assert.Contains(t, out, "no such table")
}
