package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id     INTEGER PRIMARY KEY AUTOINCREMENT,
		title  TEXT    NOT NULL,
		year   INTEGER NOT NULL,
		actors TEXT    NOT NULL DEFAULT '',
		UNIQUE (title, year)
	)`,
	`CREATE TABLE IF NOT EXISTS actors (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		name    TEXT NOT NULL,
		surname TEXT NOT NULL,
		UNIQUE (name, surname)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_actors (
		movie_id INTEGER NOT NULL REFERENCES movies (id) ON DELETE CASCADE,
		actor_id INTEGER NOT NULL REFERENCES actors (id) ON DELETE CASCADE,
		PRIMARY KEY (movie_id, actor_id)
	)`,
	`CREATE INDEX IF NOT EXISTS movie_actors_actor_id_idx ON movie_actors (actor_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id     BIGSERIAL PRIMARY KEY,
		title  TEXT    NOT NULL,
		year   INTEGER NOT NULL,
		actors TEXT    NOT NULL DEFAULT '',
		UNIQUE (title, year)
	)`,
	`CREATE TABLE IF NOT EXISTS actors (
		id      BIGSERIAL PRIMARY KEY,
		name    TEXT NOT NULL,
		surname TEXT NOT NULL,
		UNIQUE (name, surname)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_actors (
		movie_id BIGINT NOT NULL REFERENCES movies (id) ON DELETE CASCADE,
		actor_id BIGINT NOT NULL REFERENCES actors (id) ON DELETE CASCADE,
		PRIMARY KEY (movie_id, actor_id)
	)`,
	`CREATE INDEX IF NOT EXISTS movie_actors_actor_id_idx ON movie_actors (actor_id)`,
}

// Open connects to the database, verifies the connection and applies the
// schema. For SQLite the DSN is extended so that every pooled connection
// enforces foreign keys.
func Open(ctx context.Context, driver, dsn string, opts Options, logger *slog.Logger) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	logger.Info("Attempting to connect to database", slog.String("driver", driver), slog.String("dsn", redactDSN(dsn)))
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}

	if err := ApplySchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("Successfully connected to database", slog.String("driver", driver))
	return db, nil
}

// ApplySchema creates the tables if they do not exist yet.
func ApplySchema(ctx context.Context, db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == DriverPostgres {
		schema = postgresSchema
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func sqliteDSN(dsn string) string {
	var pragmas []string
	if !strings.Contains(dsn, "foreign_keys") {
		pragmas = append(pragmas, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(dsn, "busy_timeout") {
		pragmas = append(pragmas, "_pragma=busy_timeout(5000)")
	}
	if len(pragmas) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(pragmas, "&")
}

// redactDSN hides the password of a URL-style DSN for logging.
func redactDSN(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return dsn
	}
	userinfo := dsn[:at]
	colon := strings.LastIndex(userinfo, ":")
	if colon < 0 || strings.HasPrefix(userinfo[colon:], "://") {
		return dsn
	}
	return userinfo[:colon] + ":********" + dsn[at:]
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlitelib.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return false
}
