package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sakshamjn/intervue/internal/extractor"
	"github.com/sakshamjn/intervue/internal/interview"
	"github.com/sakshamjn/intervue/internal/session"
	"github.com/sakshamjn/intervue/pkg/model"
	"github.com/sakshamjn/intervue/pkg/response"
)

// StartInterview generates questions from the resume and opens a session.
func (h *Handler) StartInterview(c *gin.Context) {
	var req model.StartInterviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	view, err := h.Interviews.Start(c.Request.Context(), req.CandidateID, req.ResumeText)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidInput):
			response.ValidationError(c, "question generation produced an unusable set")
		case errors.Is(err, interview.ErrService):
			h.Logger.Sugar().Errorw("question generation failed", "candidate_id", req.CandidateID, "err", err)
			response.BadGateway(c, "question generation failed, please retry")
		default:
			h.Logger.Sugar().Errorw("failed to start interview", "candidate_id", req.CandidateID, "err", err)
			response.InternalError(c, "")
		}
		return
	}

	response.Created(c, view)
}

// GetSession returns the current session view, live or persisted.
func (h *Handler) GetSession(c *gin.Context) {
	view, err := h.Interviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondSessionErr(c, err)
		return
	}
	response.OK(c, view)
}

// SubmitAnswer finalizes the current question's answer.
func (h *Handler) SubmitAnswer(c *gin.Context) {
	var req model.SubmitAnswerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.Interviews.Submit(c.Request.Context(), c.Param("id"), req.AnswerText)
	if err != nil {
		switch {
		case errors.Is(err, interview.ErrSubmissionInFlight):
			response.Conflict(c, "a submission for this question is already in flight")
		case errors.Is(err, session.ErrOutOfSequence):
			response.Conflict(c, "interview already completed")
		case errors.Is(err, interview.ErrServiceTimeout):
			response.GatewayTimeout(c, "answer scoring timed out, please retry")
		case errors.Is(err, interview.ErrService):
			response.BadGateway(c, "answer scoring failed, please retry")
		default:
			h.respondSessionErr(c, err)
		}
		return
	}

	response.OK(c, result)
}

// PauseSession freezes the countdown.
func (h *Handler) PauseSession(c *gin.Context) {
	view, err := h.Interviews.Pause(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondSessionErr(c, err)
		return
	}
	response.OK(c, view)
}

// ResumeSession continues from the frozen remaining time.
func (h *Handler) ResumeSession(c *gin.Context) {
	view, err := h.Interviews.Resume(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondSessionErr(c, err)
		return
	}
	response.OK(c, view)
}

// CheckSession runs the restoration gate for a candidate.
func (h *Handler) CheckSession(c *gin.Context) {
	var req model.CheckSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.Interviews.Check(c.Request.Context(), req.CandidateID)
	if err != nil {
		h.Logger.Sugar().Errorw("restoration check failed", "candidate_id", req.CandidateID, "err", err)
		response.InternalError(c, "")
		return
	}
	response.OK(c, result)
}

// RestoreSession resumes a prompted session.
func (h *Handler) RestoreSession(c *gin.Context) {
	view, err := h.Interviews.RestoreSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondSessionErr(c, err)
		return
	}
	response.OK(c, view)
}

// ResetSession discards a session for an explicit start-over.
func (h *Handler) ResetSession(c *gin.Context) {
	if err := h.Interviews.Reset(c.Request.Context(), c.Param("id")); err != nil {
		h.respondSessionErr(c, err)
		return
	}
	response.NoContent(c)
}

// ExtractResume converts an uploaded resume file to plain text.
func (h *Handler) ExtractResume(c *gin.Context) {
	file, err := c.FormFile("resume")
	if err != nil {
		response.BadRequest(c, "resume file is required")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.BadRequest(c, "could not read resume file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, 2<<20))
	if err != nil {
		response.BadRequest(c, "could not read resume file")
		return
	}

	text, err := extractor.Extract(file.Filename, data)
	if err != nil {
		response.ValidationError(c, err.Error())
		return
	}
	response.OK(c, gin.H{"resume_text": text})
}

func (h *Handler) respondSessionErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		response.NotFound(c, "session not found")
	case errors.Is(err, session.ErrCorruptSession):
		response.Gone(c, "session snapshot was corrupt and has been discarded")
	case errors.Is(err, session.ErrOutOfSequence):
		response.Conflict(c, "interview already completed")
	default:
		h.Logger.Sugar().Errorw("session operation failed", "err", err)
		response.InternalError(c, "")
	}
}
