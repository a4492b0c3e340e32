// Package integration starts throwaway infrastructure for integration
// tests. Tests using it must be skipped under -short.
package integration

import (
	"context"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

type Env struct {
	PG    *postgres.PostgresContainer
	PGURL string
}

func Setup(ctx context.Context) (*Env, error) {
	pgC, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("payments"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, err
	}

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgC.Terminate(ctx)
		return nil, err
	}

	return &Env{PG: pgC, PGURL: pgURL}, nil
}

func (e *Env) Teardown(ctx context.Context) {
	_ = e.PG.Terminate(ctx)
}
