package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/jai/internal/apperr"
	"github.com/agenthands/jai/internal/core/model"
)

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type listResponse struct {
	Entries    []*model.Entry `json:"entries"`
	Pagination pagination     `json:"pagination"`
}

type summaryResponse struct {
	Summary string  `json:"summary"`
	EntryID *string `json:"entryId"`
}

var errInvalidBody = apperr.Validation("invalid request body")

func owner(c *gin.Context) string {
	return c.GetString(ownerKey)
}

func (s *Server) CreateEntry(c *gin.Context) {
	var f model.Fields
	if err := c.ShouldBindJSON(&f); err != nil {
		s.respondError(c, errInvalidBody)
		return
	}

	e, err := s.journal.CreateEntry(c.Request.Context(), owner(c), f)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Journal entry created successfully", "entry": e})
}

func (s *Server) ListEntries(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	page, err := s.journal.ListEntries(c.Request.Context(), owner(c), criteria)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{
		Entries:    page.Entries,
		Pagination: pagination{Page: page.Page, Limit: page.Limit, Total: page.Total},
	})
}

func (s *Server) GetEntry(c *gin.Context) {
	e, err := s.journal.GetEntry(c.Request.Context(), owner(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": e})
}

func (s *Server) UpdateEntry(c *gin.Context) {
	var p model.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		s.respondError(c, errInvalidBody)
		return
	}

	e, err := s.journal.UpdateEntry(c.Request.Context(), owner(c), c.Param("id"), p)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Journal entry updated successfully", "entry": e})
}

func (s *Server) DeleteEntry(c *gin.Context) {
	if err := s.journal.DeleteEntry(c.Request.Context(), owner(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Journal entry deleted successfully"})
}

func (s *Server) Summarize(c *gin.Context) {
	var req model.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errInvalidBody)
		return
	}

	res, err := s.journal.Summarize(c.Request.Context(), owner(c), req)
	if err != nil {
		s.respondError(c, err)
		return
	}

	resp := summaryResponse{Summary: res.Summary}
	if res.EntryID != "" {
		resp.EntryID = &res.EntryID
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetSummary(c *gin.Context) {
	id := c.Param("id")
	text, err := s.journal.GetSummary(c.Request.Context(), owner(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaryResponse{Summary: text, EntryID: &id})
}
