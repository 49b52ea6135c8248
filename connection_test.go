package querytpl_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golobby/querytpl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Post struct {
	ID    int64
	Title string `bind:"title"`
}

func TestDatabase(t *testing.T) {
	ctx := context.Background()

	t.Run("exec runs the built query", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		conn, err := querytpl.Open(querytpl.ConnectionConfig{Name: "mock", DB: db, Dialect: querytpl.Dialects.MySQL})
		require.NoError(t, err)
		defer conn.Close()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE `posts` SET `title` = 'hello' WHERE id = 3")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		res, err := conn.Exec(ctx, "UPDATE ?# SET ?a WHERE id = ?d{ AND author = ?}",
			"posts", map[string]string{"title": "hello"}, 3, querytpl.Skip())
		require.NoError(t, err)
		n, err := res.RowsAffected()
		assert.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("template errors never reach the database", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		conn, err := querytpl.Open(querytpl.ConnectionConfig{DB: db, Driver: "mysql"})
		require.NoError(t, err)
		defer conn.Close()

		_, err = conn.Exec(ctx, "DELETE FROM posts WHERE id IN (?a)", 1)
		assert.ErrorIs(t, err, querytpl.ErrArrayArgumentRequired)
		_, err = conn.Query(ctx, "SELECT ?", 1.5)
		assert.ErrorIs(t, err, querytpl.ErrInvalidArgumentType)
		_, err = conn.QueryRow(ctx, "SELECT ?d")
		assert.ErrorIs(t, err, querytpl.ErrArgumentCountMismatch)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bind scans rows into structs", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		conn, err := querytpl.Open(querytpl.ConnectionConfig{DB: db, Dialect: querytpl.Dialects.PostgreSQL})
		require.NoError(t, err)
		defer conn.Close()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id", "title" FROM posts WHERE id IN (1, 2)`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(1, "first").AddRow(2, "second"))

		var posts []Post
		err = conn.Bind(ctx, &posts, "SELECT ?# FROM posts {WHERE id IN (?a)}", []string{"id", "title"}, []int{1, 2})
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "second", posts[1].Title)
		assert.Equal(t, int64(2), posts[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := querytpl.Open(querytpl.ConnectionConfig{Driver: "oracle"})
		assert.ErrorIs(t, err, querytpl.ErrUnknownDialect)
	})
}

func TestSQLite3Connection(t *testing.T) {
	ctx := context.Background()
	err := querytpl.Initialize(querytpl.ConnectionConfig{
		Name:             "default",
		Driver:           "sqlite3",
		ConnectionString: ":memory:",
	})
	require.NoError(t, err)
	conn := querytpl.GetConnection("default")
	require.NotNil(t, conn)
	defer conn.Close()
	conn.DB.SetMaxOpenConns(1)

	_, err = conn.Exec(ctx, "CREATE TABLE posts (id INTEGER PRIMARY KEY, title TEXT)")
	require.NoError(t, err)
	_, err = conn.Exec(ctx, "INSERT INTO ?# (?#) VALUES (?a)", "posts", []string{"id", "title"}, []any{1, "it's fine"})
	require.NoError(t, err)
	_, err = conn.Exec(ctx, "INSERT INTO posts (id, title) VALUES (?d, ?)", 2, "second")
	require.NoError(t, err)

	var post Post
	err = conn.Bind(ctx, &post, "SELECT id, title FROM posts WHERE 1 = 1{ AND id = ?d}{ AND title = ?}", 1, querytpl.Skip())
	require.NoError(t, err)
	assert.Equal(t, "it's fine", post.Title)

	row, err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM posts {WHERE id = ?d}", querytpl.Skip())
	require.NoError(t, err)
	var count int
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 2, count)
}
