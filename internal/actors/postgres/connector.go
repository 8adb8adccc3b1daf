package postgres

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"

	"github.com/go-pg/pg/v10"
	"github.com/rbroggi/commentsvc/internal/config"
)

// Connector hands out read connections and transactions on top of a postgres pool.
type Connector struct {
	db *pg.DB
}

// ConnectorArgs are the mandatory arguments for the creation of a Connector
type ConnectorArgs struct {
	// DB is a postgres database handle
	DB *pg.DB
}

// NewConnector creates a new Connector.
func NewConnector(args ConnectorArgs) *Connector {
	return &Connector{db: args.DB}
}

// Connect opens the pool described by the settings. No connection is made until first use.
func Connect(settings config.DBSettings) (*Connector, error) {
	opts, err := Options(settings)
	if err != nil {
		return nil, err
	}
	return NewConnector(ConnectorArgs{DB: pg.Connect(opts)}), nil
}

// Options translates the settings into go-pg options. A URL takes precedence; otherwise the
// discrete fields are used and pool sizing is passed through as is. Zero-valued settings fall
// back to the go-pg defaults.
func Options(settings config.DBSettings) (*pg.Options, error) {
	if settings.URL != "" {
		opts, err := pg.ParseURL(settings.URL)
		if err != nil {
			return nil, fmt.Errorf("error parsing database url: %w", err)
		}
		return opts, nil
	}

	opts := &pg.Options{
		Addr:         settings.Server,
		User:         settings.User,
		Password:     settings.Password,
		Database:     settings.Database,
		DialTimeout:  settings.Timeout,
		ReadTimeout:  settings.Timeout,
		WriteTimeout: settings.Timeout,
		PoolSize:     settings.Pool.Max,
		MinIdleConns: settings.Pool.Min,
		IdleTimeout:  settings.Pool.IdleTimeout,
	}
	if settings.Encryption {
		host, _, err := net.SplitHostPort(settings.Server)
		if err != nil {
			host = settings.Server
		}
		opts.TLSConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	}
	return opts, nil
}

// ReadConnection returns a dedicated connection for read queries. Callers must close it.
func (c *Connector) ReadConnection() *pg.Conn {
	return c.db.Conn()
}

// TransactionConnection begins a transaction on a pooled connection.
func (c *Connector) TransactionConnection(ctx context.Context) (*pg.Tx, error) {
	return c.db.BeginContext(ctx)
}

// Ping checks that the database is reachable.
func (c *Connector) Ping(ctx context.Context) error {
	return c.db.Ping(ctx)
}

// Close closes the pool.
func (c *Connector) Close() error {
	return c.db.Close()
}
