package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolProbe reports database reachability for the health endpoint. After the
// startup snapshot load the pool serves no queries; the probe keeps it open
// so operators can tell connectivity loss apart from application faults.
type PoolProbe struct {
	pool *pgxpool.Pool
}

func NewPoolProbe(pool *pgxpool.Pool) *PoolProbe {
	return &PoolProbe{pool: pool}
}

func (p *PoolProbe) Name() string { return "database" }

func (p *PoolProbe) Check(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PoolProbe) Close() {
	p.pool.Close()
}
