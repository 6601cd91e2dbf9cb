package model

import "github.com/google/uuid"

type StartInterviewReq struct {
	CandidateID uuid.UUID `json:"candidate_id" binding:"required"`
	ResumeText  string    `json:"resume_text" binding:"required"`
}

type SubmitAnswerReq struct {
	AnswerText string `json:"answer_text"`
}

type CheckSessionReq struct {
	CandidateID uuid.UUID `json:"candidate_id" binding:"required"`
}
