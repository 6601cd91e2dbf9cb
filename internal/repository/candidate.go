package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sakshamjn/intervue/pkg/model"
)

// CandidateRepository is the candidate record store.
type CandidateRepository struct {
	db *pgxpool.Pool
}

func (r *CandidateRepository) Create(ctx context.Context, cand *model.Candidate) error {
	if cand.ID == uuid.Nil {
		cand.ID = uuid.New()
	}
	if cand.Status == "" {
		cand.Status = model.StatusNotStarted
	}
	answers, err := json.Marshal(cand.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	const q = `
INSERT INTO candidates (id, name, email, phone, status, score, summary_text, answers, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
`
	_, err = r.db.Exec(ctx, q, cand.ID, cand.Name, cand.Email, cand.Phone, cand.Status, cand.Score, cand.SummaryText, answers)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("email already exists: %w", err)
		}
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

func (r *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Candidate, error) {
	const q = `
SELECT id, name, email, phone, status, score, summary_text, answers, created_at, updated_at
FROM candidates WHERE id = $1
`
	return r.scanOne(r.db.QueryRow(ctx, q, id))
}

func (r *CandidateRepository) FindByEmail(ctx context.Context, email string) (model.Candidate, error) {
	const q = `
SELECT id, name, email, phone, status, score, summary_text, answers, created_at, updated_at
FROM candidates WHERE email = $1
`
	return r.scanOne(r.db.QueryRow(ctx, q, email))
}

// MostRecentUnfinished is the lossy fallback match for sessions that lost
// their candidate id: newest candidate whose interview has not completed.
func (r *CandidateRepository) MostRecentUnfinished(ctx context.Context) (model.Candidate, error) {
	const q = `
SELECT id, name, email, phone, status, score, summary_text, answers, created_at, updated_at
FROM candidates WHERE status <> 'completed'
ORDER BY created_at DESC LIMIT 1
`
	return r.scanOne(r.db.QueryRow(ctx, q))
}

func (r *CandidateRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.CandidateStatus) error {
	const q = `UPDATE candidates SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id, status)
	if err != nil {
		return fmt.Errorf("set candidate status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertResult pushes a finished session's result: update if a candidate
// with the same email exists, create otherwise.
func (r *CandidateRepository) UpsertResult(ctx context.Context, cand model.Candidate, result model.CandidateResult) error {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	existing, err := r.FindByEmail(ctx, cand.Email)
	if errors.Is(err, ErrNotFound) {
		cand.Score = &result.Score
		cand.SummaryText = &result.SummaryText
		cand.Answers = result.Answers
		cand.Status = model.StatusCompleted
		return r.Create(ctx, &cand)
	}
	if err != nil {
		return err
	}

	const q = `
UPDATE candidates
SET status = 'completed', score = $2, summary_text = $3, answers = $4, updated_at = now()
WHERE id = $1
`
	if _, err := r.db.Exec(ctx, q, existing.ID, result.Score, result.SummaryText, answers); err != nil {
		return fmt.Errorf("update candidate result: %w", err)
	}
	return nil
}

// List returns dashboard rows ordered by score descending, optionally
// filtered by a name/email search term.
func (r *CandidateRepository) List(ctx context.Context, search string, limit, offset int) ([]model.CandidateListItem, int, error) {
	countQ := `SELECT COUNT(1) FROM candidates`
	listQ := `
SELECT id, name, email, phone, status, score, created_at
FROM candidates
`
	args := []interface{}{}
	if search != "" {
		countQ += ` WHERE name ILIKE $1 OR email ILIKE $1`
		listQ += ` WHERE name ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count candidates: %w", err)
	}

	listQ += fmt.Sprintf(" ORDER BY score DESC NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, listQ, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	out := make([]model.CandidateListItem, 0, limit)
	for rows.Next() {
		var c model.CandidateListItem
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.Score, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan candidate row: %w", err)
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, total, nil
}

func (r *CandidateRepository) scanOne(row pgx.Row) (model.Candidate, error) {
	var c model.Candidate
	var answers []byte
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.Score, &c.SummaryText, &answers, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Candidate{}, ErrNotFound
		}
		return model.Candidate{}, fmt.Errorf("scan candidate: %w", err)
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &c.Answers); err != nil {
			return model.Candidate{}, fmt.Errorf("unmarshal answers: %w", err)
		}
	}
	return c, nil
}
