// Package app opens the backends selected by configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/dtroode/glowbook-server/database"
	"github.com/dtroode/glowbook-server/internal/config"
	"github.com/dtroode/glowbook-server/internal/model"
	fsrepo "github.com/dtroode/glowbook-server/internal/repository/firestore"
	"github.com/dtroode/glowbook-server/internal/repository/postgres"
	"github.com/dtroode/glowbook-server/internal/repository/sqlite"
)

// Stores holds every onboarding store over one database, plus the optional Firestore session store.
type Stores struct {
	Accounts      model.AccountStore
	Verifications model.VerificationTokenStore
	Sessions      model.SessionStore
	Drafts        model.ProfileDraftStore
	Documents     model.DocumentStore

	// DB is the database/sql view of the database, for migrations.
	DB      *sql.DB
	Dialect database.Dialect

	ping    func(ctx context.Context) error
	closers []func() error
}

// OpenStores connects to the configured database, applies migrations and
// swaps in the Firestore session store when selected.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	var (
		s   *Stores
		err error
	)
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		s, err = openPostgres(ctx, cfg.Database.DSN)
	case config.DriverSQLite:
		s, err = openSQLite(ctx, cfg.Database.Path)
	default:
		err = fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.SessionStore == config.SessionStoreFirestore {
		client, err := firestore.NewClient(ctx, cfg.Firestore.ProjectID)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to create firestore client: %w", err)
		}
		s.Sessions = fsrepo.NewSessionRepository(client, cfg.Firestore.Collection)
		s.closers = append(s.closers, client.Close)
	}

	return s, nil
}

func openPostgres(ctx context.Context, dsn string) (*Stores, error) {
	conn, err := postgres.NewConnection(ctx, dsn)
	if err != nil {
		return nil, err
	}
	db := conn.DB()
	return &Stores{
		Accounts:      postgres.NewAccountRepository(conn),
		Verifications: postgres.NewVerificationTokenRepository(conn),
		Sessions:      postgres.NewSessionRepository(conn),
		Drafts:        postgres.NewProfileDraftRepository(conn),
		Documents:     postgres.NewDocumentRepository(conn),
		DB:            db,
		Dialect:       database.DialectPostgres,
		ping:          conn.Ping,
		closers:       []func() error{db.Close, conn.Close},
	}, nil
}

func openSQLite(ctx context.Context, path string) (*Stores, error) {
	conn, err := sqlite.NewConnection(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Stores{
		Accounts:      sqlite.NewAccountRepository(conn),
		Verifications: sqlite.NewVerificationTokenRepository(conn),
		Sessions:      sqlite.NewSessionRepository(conn),
		Drafts:        sqlite.NewProfileDraftRepository(conn),
		Documents:     sqlite.NewDocumentRepository(conn),
		DB:            conn.DB,
		Dialect:       database.DialectSQLite,
		ping:          conn.PingContext,
		closers:       []func() error{conn.Close},
	}, nil
}

// Ping checks the database.
func (s *Stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backends in reverse order of opening.
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
