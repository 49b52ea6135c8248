package querytpl

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/golobby/querytpl/bind"

	//Drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type ConnectionConfig struct {
	Name             string
	Driver           string
	ConnectionString string
	// DB and Dialect take precedence over Driver and ConnectionString.
	DB        *sql.DB
	Dialect   *Dialect
	ArgCount  ArgCountPolicy
	CacheSize int
	Logger    Logger
}

// Database executes built templates over a *sql.DB.
type Database struct {
	Name    string
	Dialect *Dialect
	DB      *sql.DB
	builder *Builder
	logger  Logger
}

var (
	connectionsMu     sync.RWMutex
	globalConnections = map[string]*Database{}
)

// Initialize opens every given connection and registers it by name.
func Initialize(confs ...ConnectionConfig) error {
	for _, conf := range confs {
		db, err := Open(conf)
		if err != nil {
			return fmt.Errorf("connection %q: %w", conf.Name, err)
		}
		connectionsMu.Lock()
		globalConnections[conf.Name] = db
		connectionsMu.Unlock()
	}
	return nil
}

func GetConnection(name string) *Database {
	connectionsMu.RLock()
	defer connectionsMu.RUnlock()
	return globalConnections[name]
}

func Open(conf ConnectionConfig) (*Database, error) {
	var (
		dialect = conf.Dialect
		db      = conf.DB
		err     error
	)
	if dialect == nil {
		dialect, err = getDialect(conf.Driver)
		if err != nil {
			return nil, err
		}
	}
	if db == nil {
		driver := conf.Driver
		if driver == "" {
			driver = dialect.DriverName
		}
		db, err = getDB(driver, conf.ConnectionString)
		if err != nil {
			return nil, err
		}
	}
	b, err := New(Config{
		Dialect:   dialect,
		ArgCount:  conf.ArgCount,
		CacheSize: conf.CacheSize,
		Logger:    conf.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Database{
		Name:    conf.Name,
		Dialect: dialect,
		DB:      db,
		builder: b,
		logger:  b.logger,
	}, nil
}

func getDB(driver string, connectionString string) (*sql.DB, error) {
	return sql.Open(driver, connectionString)
}

// BuildQuery renders the template in this connection's dialect.
func (d *Database) BuildQuery(query string, args ...any) (string, error) {
	return d.builder.Build(query, args...)
}

func (d *Database) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	q, err := d.BuildQuery(query, args...)
	if err != nil {
		return nil, err
	}
	d.logger.Debugf("exec on %s: %s", d.Name, q)
	return d.DB.ExecContext(ctx, q)
}

func (d *Database) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	q, err := d.BuildQuery(query, args...)
	if err != nil {
		return nil, err
	}
	d.logger.Debugf("query on %s: %s", d.Name, q)
	return d.DB.QueryContext(ctx, q)
}

// QueryRow returns template errors directly; query errors surface on the
// row's Scan.
func (d *Database) QueryRow(ctx context.Context, query string, args ...any) (*sql.Row, error) {
	q, err := d.BuildQuery(query, args...)
	if err != nil {
		return nil, err
	}
	d.logger.Debugf("query row on %s: %s", d.Name, q)
	return d.DB.QueryRowContext(ctx, q), nil
}

// Bind runs the query and scans the result into v, see bind.Bind.
func (d *Database) Bind(ctx context.Context, v any, query string, args ...any) error {
	rows, err := d.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	return bind.Bind(rows, v)
}

func (d *Database) Close() error {
	return d.DB.Close()
}
