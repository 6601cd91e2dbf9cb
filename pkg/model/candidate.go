package model

import (
	"time"

	"github.com/google/uuid"
)

type CandidateStatus string

const (
	StatusNotStarted CandidateStatus = "not-started"
	StatusInProgress CandidateStatus = "in-progress"
	StatusCompleted  CandidateStatus = "completed"
)

type Candidate struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Email       string          `json:"email" db:"email"`
	Phone       string          `json:"phone" db:"phone"`
	Status      CandidateStatus `json:"status" db:"status"`
	Score       *int            `json:"score" db:"score"`
	SummaryText *string         `json:"summary_text" db:"summary_text"`
	Answers     []Answer        `json:"answers" db:"answers"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateCandidateReq struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

type ListCandidatesQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// CandidateListItem is the dashboard row: no answers, no summary body.
type CandidateListItem struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Status    CandidateStatus `json:"status"`
	Score     *int            `json:"score"`
	CreatedAt time.Time       `json:"created_at"`
}

// CandidateResult is what a finished session pushes to the record store.
type CandidateResult struct {
	Score       int
	SummaryText string
	Answers     []Answer
}
