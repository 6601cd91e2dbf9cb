package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type Repository struct {
	User      *UserRepository
	Candidate *CandidateRepository
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		User:      &UserRepository{db: db},
		Candidate: &CandidateRepository{db: db},
	}
}
