package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/logging"
)

// Pool owns the process-wide *sql.DB. Repositories never see the pool
// itself; services borrow a connection for exactly one operation through
// WithConn or WithTx and the connection goes back on every exit path.
type Pool struct {
	db          *sql.DB
	holdWarning time.Duration
	logger      logging.Logger
}

// NewPool wraps db. If holdWarning is positive, a warning is logged whenever
// a borrowed connection is kept longer than that.
func NewPool(db *sql.DB, holdWarning time.Duration, logger logging.Logger) *Pool {
	return &Pool{db: db, holdWarning: holdWarning, logger: logger}
}

// Open opens a database/sql pool for driverName and wraps it.
func Open(driverName, dsn string, maxOpenConns int, holdWarning time.Duration, logger logging.Logger) (*Pool, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
	}
	return NewPool(db, holdWarning, logger), nil
}

// DB exposes the underlying handle for migrations.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Ping reports whether the store is reachable.
func (p *Pool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the pool. It is called once at shutdown.
func (p *Pool) Close() error {
	return p.db.Close()
}

// WithConn checks out a single connection, runs fn on it and returns the
// connection to the pool, also when fn fails or panics.
func (p *Pool) WithConn(ctx context.Context, fn func(ctx context.Context, conn DBTX) error) (err error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}

	stop := p.watch(ctx, "conn")
	defer func() {
		stop()
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("release connection: %w", cerr)
		}
	}()

	return fn(ctx, conn)
}

// WithTx is WithConn inside a transaction; see the package-level WithTx.
func (p *Pool) WithTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	stop := p.watch(ctx, "tx")
	defer stop()

	return WithTx(ctx, p.db, opts, fn)
}

func (p *Pool) watch(ctx context.Context, kind string) func() {
	if p.holdWarning <= 0 || p.logger == nil {
		return func() {}
	}
	started := time.Now()
	t := time.AfterFunc(p.holdWarning, func() {
		p.logger.Warn(ctx, "database connection checked out for too long",
			"kind", kind, "threshold", p.holdWarning.String(), "held", time.Since(started).String())
	})
	return func() { t.Stop() }
}

// Do runs fn through p.WithConn and hands back its result.
func Do[T any](ctx context.Context, p *Pool, fn func(ctx context.Context, conn DBTX) (T, error)) (T, error) {
	var out T
	err := p.WithConn(ctx, func(ctx context.Context, conn DBTX) error {
		var err error
		out, err = fn(ctx, conn)
		return err
	})
	return out, err
}
