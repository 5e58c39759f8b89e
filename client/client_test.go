package client_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlderive"
	"github.com/syssam/sqlderive/client"
	"github.com/syssam/sqlderive/dialect"
	"github.com/syssam/sqlderive/dialect/sql"
	"github.com/syssam/sqlderive/schema"
	"github.com/syssam/sqlderive/schema/field"
)

type User struct {
	ID   int32
	Name string
}

var userSchema = schema.MustNew("User", "", field.Int32("id"), field.Text("name"))

func mockTable(t *testing.T, opts ...client.Option) (*client.Table[User], sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	users, err := client.New[User](sql.OpenDB(dialect.Postgres, db), userSchema, opts...)
	require.NoError(t, err)
	return users, mock
}

func escape(query string) string {
	return "^" + regexp.QuoteMeta(query) + "$"
}

func TestTable_CreateTable(t *testing.T) {
	users, mock := mockTable(t)
	mock.ExpectExec(escape("CREATE TABLE IF NOT EXISTS User ( id INTEGER, name TEXT )")).
		WithoutArgs().
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, users.CreateTable(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Same(t, userSchema, users.Schema())
}

func TestTable_Insert(t *testing.T) {
	users, mock := mockTable(t)
	mock.ExpectExec(escape("INSERT INTO User (id, name) VALUES ($1, $2)")).
		WithArgs(int64(5), "bob").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(escape("INSERT INTO User (id, name) VALUES ($1, $2)")).
		WithArgs(int64(6), "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	err := users.Insert(context.Background(), &User{ID: 5, Name: "bob"}, &User{ID: 6, Name: "alice"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	err = users.Insert(context.Background(), nil)
	assert.True(t, sqlderive.IsBuilderContractError(err))
}

func TestTable_SelectAll(t *testing.T) {
	users, mock := mockTable(t)
	mock.ExpectQuery(escape("SELECT * FROM User")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "a").AddRow(2, "b"))
	got, err := users.SelectAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*User{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_ColumnOrderAndExtraColumns(t *testing.T) {
	users, mock := mockTable(t)
	mock.ExpectQuery(escape("SELECT * FROM User")).
		WillReturnRows(sqlmock.NewRows([]string{"name", "created_at", "id"}).AddRow("a", "2024-01-01", 1))
	got, err := users.SelectAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*User{{ID: 1, Name: "a"}}, got)
}

func TestTable_FoldedColumnNames(t *testing.T) {
	type Acct struct {
		UserID int32 `sql:"userId"`
		Name   string
	}
	acct := schema.MustNew("Acct", "acct", field.Int32("userId"), field.Text("Name"))
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	accts, err := client.New[Acct](sql.OpenDB(dialect.Postgres, db), acct)
	require.NoError(t, err)

	// Unquoted identifiers come back lower-cased.
	mock.ExpectQuery(escape("SELECT * FROM acct")).
		WillReturnRows(sqlmock.NewRows([]string{"userid", "name"}).AddRow(7, "bob"))
	got, err := accts.SelectAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*Acct{{UserID: 7, Name: "bob"}}, got)

	// An exact match wins over a folded one.
	mock.ExpectQuery(escape("SELECT * FROM acct")).
		WillReturnRows(sqlmock.NewRows([]string{"userid", "userId", "name"}).AddRow(1, 8, "eve"))
	got, err = accts.SelectAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*Acct{{UserID: 8, Name: "eve"}}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_MissingColumn(t *testing.T) {
	users, mock := mockTable(t)
	mock.ExpectQuery(escape("SELECT * FROM User")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "label"}).AddRow(1, "a"))
	got, err := users.SelectAll(context.Background())
	require.Error(t, err)
	assert.Nil(t, got)
	var ce *sqlderive.BuilderContractError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "name", ce.Field)
	assert.True(t, sqlderive.IsStatementError(err))
}

func TestTable_DeleteAll(t *testing.T) {
	users, mock := mockTable(t)
	mock.ExpectQuery(escape("DELETE FROM User")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	got, err := users.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	users, mock = mockTable(t, client.WithReturning())
	mock.ExpectQuery(escape("DELETE FROM User RETURNING *")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(3, "c"))
	got, err = users.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*User{{ID: 3, Name: "c"}}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_Select(t *testing.T) {
	users, mock := mockTable(t)
	mock.ExpectQuery(escape("SELECT * FROM User WHERE id = $1 AND name = $2")).
		WithArgs(int64(5), "bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(5, "bob"))
	got, err := users.Filter().EQ("id", int32(5)).EQ("name", "bob").Select(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*User{{ID: 5, Name: "bob"}}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_Delete(t *testing.T) {
	users, mock := mockTable(t, client.WithReturning())
	mock.ExpectQuery(escape("DELETE FROM User WHERE name = $1 RETURNING *")).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(5, "bob").AddRow(7, "bob"))
	got, err := users.Filter().Where(sql.TextField("name").EQ("bob")).Delete(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_ConsumedOnce(t *testing.T) {
	users, mock := mockTable(t)
	mock.ExpectQuery(escape("SELECT * FROM User WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	q := users.Filter().EQ("id", int32(1))
	_, err := q.Select(context.Background())
	require.NoError(t, err)
	_, err = q.Select(context.Background())
	assert.True(t, errors.Is(err, sqlderive.ErrBuilderContract))
	_, err = q.Delete(context.Background())
	assert.True(t, errors.Is(err, sqlderive.ErrBuilderContract))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_ContractErrorsNeverReachTheDatabase(t *testing.T) {
	users, mock := mockTable(t)
	ctx := context.Background()

	_, err := users.Filter().Select(ctx)
	assert.True(t, errors.Is(err, sqlderive.ErrNoConditions))
	_, err = users.Filter().Delete(ctx)
	assert.True(t, errors.Is(err, sqlderive.ErrNoConditions))
	_, err = users.Filter().EQ("id", "5").Select(ctx)
	assert.True(t, sqlderive.IsBuilderContractError(err))
	_, err = users.Filter().EQ("email", "x").Delete(ctx)
	assert.True(t, sqlderive.IsBuilderContractError(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_DatabaseErrors(t *testing.T) {
	users, mock := mockTable(t)
	dbErr := errors.New(`relation "User" does not exist`)
	mock.ExpectQuery(escape("SELECT * FROM User WHERE id = $1")).WillReturnError(dbErr)
	mock.ExpectExec(escape("INSERT INTO User (id, name) VALUES ($1, $2)")).WillReturnError(dbErr)

	_, err := users.Filter().EQ("id", int32(1)).Select(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	var se *sqlderive.StatementError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "SELECT * FROM User WHERE id = $1", se.Statement)

	err = users.Insert(context.Background(), &User{ID: 1, Name: "a"})
	assert.ErrorIs(t, err, dbErr)
	assert.True(t, sqlderive.IsStatementError(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_MySQLPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	users, err := client.New[User](sql.OpenDB(dialect.MySQL, db), userSchema)
	require.NoError(t, err)
	mock.ExpectExec(escape("INSERT INTO User (id, name) VALUES (?, ?)")).
		WithArgs(int64(1), "a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, users.Insert(context.Background(), &User{ID: 1, Name: "a"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	users, mock := mockTable(t, client.Debug(), client.WithLogger(logger))
	mock.ExpectQuery(escape("SELECT * FROM User")).WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	_, err := users.SelectAll(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "query_id=")
	assert.Contains(t, buf.String(), "SELECT * FROM User")
}

func TestNew_Mapping(t *testing.T) {
	type Tagged struct {
		Key   int32  `sql:"id"`
		Label string `sql:"name"`
		Note  string `sql:"-"`
	}
	type Camel struct {
		UserID    int64
		FirstName string
		Score     float32
		Balance   float64
	}
	type UserID int32
	type Named struct {
		ID   UserID
		Name string
	}
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := sql.OpenDB(dialect.Postgres, db)

	_, err = client.New[Tagged](drv, userSchema)
	require.NoError(t, err)

	camel := schema.MustNew("Person", "",
		field.Int64("user_id"),
		field.Text("first_name"),
		field.Float32("score"),
		field.Float64("balance"),
	)
	people, err := client.New[Camel](drv, camel)
	require.NoError(t, err)
	mock.ExpectExec(escape("INSERT INTO Person (user_id, first_name, score, balance) VALUES ($1, $2, $3, $4)")).
		WithArgs(int64(9), "Ada", float64(1.5), 2.25).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, people.Insert(context.Background(), &Camel{UserID: 9, FirstName: "Ada", Score: 1.5, Balance: 2.25}))
	require.NoError(t, mock.ExpectationsWereMet())

	named, err := client.New[Named](drv, userSchema)
	require.NoError(t, err)
	mock.ExpectQuery(escape("SELECT * FROM User WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(4, "d"))
	got, err := named.Filter().EQ("id", UserID(4)).Select(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*Named{{ID: 4, Name: "d"}}, got)
}

func TestNew_Errors(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := sql.OpenDB(dialect.Postgres, db)

	type Missing struct{ ID int32 }
	type WrongType struct {
		ID   int64
		Name string
	}
	type Unexported struct {
		id   int32
		Name string
	}
	type Shared struct{ UserID int32 }
	shared := schema.MustNew("Shared", "", field.Int32("user_id"), field.Int32("userId"))
	tests := []struct {
		name string
		new  func() error
		msg  string
	}{
		{"missing", func() error { _, err := client.New[Missing](drv, userSchema); return err }, "no field"},
		{"wrong-type", func() error { _, err := client.New[WrongType](drv, userSchema); return err }, "record declares Int32"},
		{"unexported", func() error { _, err := client.New[Unexported](drv, userSchema); return err }, "no field"},
		{"not-struct", func() error { _, err := client.New[int](drv, userSchema); return err }, "not a struct"},
		{"shared-field", func() error { _, err := client.New[Shared](drv, shared); return err }, `already bound to "user_id"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.new()
			require.Error(t, err)
			assert.True(t, sqlderive.IsSchemaError(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
	_ = Unexported{id: 1}
}

func Example_filter() {
	q := sql.NewFilter(userSchema).EQ("id", int32(5)).EQ("name", "bob")
	query, params, _ := q.SelectQuery()
	fmt.Println(query)
	fmt.Println(params)
	// Output:
	// SELECT * FROM User WHERE id = $1 AND name = $2
	// [Int32(5) Text("bob")]
}
