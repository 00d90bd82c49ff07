package server

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pwc-dv/dvmap/internal/chart"
	"github.com/pwc-dv/dvmap/internal/database"
	"github.com/pwc-dv/dvmap/internal/intercept"
	"github.com/pwc-dv/dvmap/internal/matrix"
	"github.com/pwc-dv/dvmap/internal/output"
	"github.com/pwc-dv/dvmap/internal/store"
)

// assignRequest is the body of PUT /api/providers/:name/intercepts. Stages
// is required; an empty list clears the provider.
type assignRequest struct {
	Stages *[]string `json:"stages"`
}

// assignResponse reports the row as read back after the write.
type assignResponse struct {
	CommandID string     `json:"command_id"`
	Value     string     `json:"value"`
	Row       output.Row `json:"row"`
}

// detailResponse is the ordered detail of one provider.
type detailResponse struct {
	Provider string          `json:"provider"`
	Fields   database.Detail `json:"fields"`
}

// fetch reads every record. Each request reads the store afresh.
func (s *Server) fetch(c *gin.Context) ([]*database.Provider, bool) {
	records, err := s.store.FetchAll(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return records, true
}

func (s *Server) grid(c *gin.Context) (*matrix.Grid, bool) {
	records, ok := s.fetch(c)
	if !ok {
		return nil, false
	}
	g := matrix.FromRecords(records)
	for _, d := range g.Dropped {
		s.logger.Warn("intercept value maps to no stage",
			zap.String("provider", d.Provider),
			zap.String("token", string(d.Token)),
		)
	}
	return g, true
}

func (s *Server) handleChart(c *gin.Context) {
	g, ok := s.grid(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := chart.Render(&buf, g, s.chart); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleGrid(c *gin.Context) {
	g, ok := s.grid(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, output.NewGridDocument(g))
}

func (s *Server) handleStages(c *gin.Context) {
	c.JSON(http.StatusOK, intercept.Stages())
}

func (s *Server) handleDetail(c *gin.Context) {
	name := c.Param("name")
	records, ok := s.fetch(c)
	if !ok {
		return
	}
	d, found := database.Lookup(name, records)
	if !found {
		s.fail(c, &store.NotFoundError{Provider: name})
		return
	}
	c.JSON(http.StatusOK, detailResponse{Provider: name, Fields: d})
}

func (s *Server) handleAssign(c *gin.Context) {
	name := c.Param("name")

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Stages == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `missing "stages" (send [] to clear)`})
		return
	}
	stages, err := intercept.ParseCodes(*req.Stages...)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := store.NewAssignCommand(name, stages)
	if err := s.store.Update(c.Request.Context(), cmd); err != nil {
		s.fail(c, err)
		return
	}

	g, ok := s.grid(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, assignResponse{
		CommandID: cmd.ID.String(),
		Value:     cmd.Value(),
		Row:       output.NewRow(g, name),
	})
}

// fail maps store errors to a status code and a JSON error body.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrFetch):
		status = http.StatusBadGateway
	case errors.Is(err, intercept.ErrUnknownCode):
		status = http.StatusBadRequest
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
