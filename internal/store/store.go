package store

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Stores struct {
	pool *pgxpool.Pool
}

func NewStores(pool *pgxpool.Pool) *Stores {
	return &Stores{pool: pool}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.pool)
}

func (s *Stores) Projects() ProjectStore {
	return newProjectStore(s.pool)
}

func (s *Stores) Issues() IssueStore {
	return newIssueStore(s.pool)
}
