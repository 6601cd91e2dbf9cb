package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sakshamjn/intervue/internal/repository"
	"github.com/sakshamjn/intervue/pkg/model"
	"github.com/sakshamjn/intervue/pkg/response"
)

// CreateCandidate registers a candidate before the interview starts.
func (h *Handler) CreateCandidate(c *gin.Context) {
	var req model.CreateCandidateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cand := model.Candidate{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: model.StatusNotStarted,
	}
	if err := h.Repository.Candidate.Create(c.Request.Context(), &cand); err != nil {
		h.Logger.Sugar().Errorw("failed to create candidate", "email", req.Email, "err", err)
		response.Conflict(c, "could not create candidate")
		return
	}
	response.Created(c, cand)
}

// ListCandidates is the dashboard view: score descending, optional
// name/email search.
func (h *Handler) ListCandidates(c *gin.Context) {
	var q model.ListCandidatesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	limit := q.PageSize
	if limit <= 0 {
		limit = 20
	}
	offset := (q.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	items, total, err := h.Repository.Candidate.List(c.Request.Context(), q.Search, limit, offset)
	if err != nil {
		h.Logger.Sugar().Errorw("failed to list candidates", "err", err)
		response.InternalError(c, "")
		return
	}

	response.OKWithMeta(c, items, &response.Meta{
		Page:     q.Page,
		PageSize: limit,
		Total:    total,
		HasNext:  offset+len(items) < total,
	})
}

// GetCandidate returns full detail including answers and summary.
func (h *Handler) GetCandidate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid candidate id")
		return
	}

	cand, err := h.Repository.Candidate.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "candidate not found")
			return
		}
		h.Logger.Sugar().Errorw("failed to fetch candidate", "candidate_id", id, "err", err)
		response.InternalError(c, "")
		return
	}
	response.OK(c, cand)
}
