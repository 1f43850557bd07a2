package api

import (
	"bytes"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/StoneQuote/internal/export"
	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/piwi3910/StoneQuote/internal/session"
)

type createSessionRequest struct {
	Name string `json:"name"`
}

type sessionResponse struct {
	ID       string                  `json:"id"`
	Name     string                  `json:"name"`
	Products []model.ContractProduct `json:"products"`
	Totals   session.Totals          `json:"totals"`
}

func sessionView(sess *session.Session) sessionResponse {
	return sessionResponse{
		ID:       sess.ID(),
		Name:     sess.Name(),
		Products: sess.Products(),
		Totals:   sess.Totals(),
	}
}

// CreateSession POST /sessions
func (s *Server) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "invalid request: "+err.Error())
			return
		}
	}
	Created(c, sessionView(s.store.Create(req.Name)))
}

// ListSessions GET /sessions
func (s *Server) ListSessions(c *gin.Context) {
	Success(c, s.store.List())
}

// GetSession GET /sessions/:id
func (s *Server) GetSession(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	Success(c, sessionView(sess))
}

// DeleteSession DELETE /sessions/:id
func (s *Server) DeleteSession(c *gin.Context) {
	if err := s.store.Delete(c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	Success(c, nil)
}

// ResetSession POST /sessions/:id/reset
func (s *Server) ResetSession(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	sess.Reset()
	Success(c, sessionView(sess))
}

// SessionTotals GET /sessions/:id/totals
func (s *Server) SessionTotals(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	Success(c, sess.Totals())
}

// GetContract GET /sessions/:id/contract
func (s *Server) GetContract(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	Success(c, sess.Contract())
}

// LoadContract PUT /sessions/:id/contract
// Replaces the session's line items and remaining stones.
func (s *Server) LoadContract(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var contract model.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		BadRequest(c, "invalid contract: "+err.Error())
		return
	}
	sess.Load(contract)
	Success(c, sessionView(sess))
}

// MaterializePart POST /sessions/:id/parts
// A draft with product_id edits that stair part in place.
func (s *Server) MaterializePart(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var d model.StairPartDraft
	if err := c.ShouldBindJSON(&d); err != nil {
		BadRequest(c, "invalid draft: "+err.Error())
		return
	}
	res, err := sess.Materialize(d)
	if err != nil {
		handleError(c, err)
		return
	}
	if d.ProductID != "" {
		Success(c, res)
		return
	}
	Created(c, res)
}

// ListProducts GET /sessions/:id/products
func (s *Server) ListProducts(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	Success(c, sess.Products())
}

// GetProduct GET /sessions/:id/products/:productId
func (s *Server) GetProduct(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	p, err := sess.Product(c.Param("productId"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, p)
}

// RemoveProduct DELETE /sessions/:id/products/:productId
func (s *Server) RemoveProduct(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if err := sess.RemoveProduct(c.Param("productId")); err != nil {
		handleError(c, err)
		return
	}
	Success(c, sessionView(sess))
}

// RemoveStairSystem DELETE /sessions/:id/stair-systems/:systemId
func (s *Server) RemoveStairSystem(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	removed, err := sess.RemoveStairSystem(c.Param("systemId"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, gin.H{"removed": removed})
}

// ListRemainingStones GET /sessions/:id/remaining-stones?available=true
func (s *Server) ListRemainingStones(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if c.Query("available") == "true" {
		Success(c, sess.AvailableRemainingStones())
		return
	}
	Success(c, sess.RemainingStones())
}

type fromRemainingRequest struct {
	LengthM             float64 `json:"length_m"`
	WidthCm             float64 `json:"width_cm"`
	Quantity            int     `json:"quantity"`
	PricePerSquareMeter float64 `json:"price_per_square_meter"`
}

// CreateFromRemainingStone POST /sessions/:id/remaining-stones/:stoneId/products
func (s *Server) CreateFromRemainingStone(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req fromRemainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p, err := sess.CreateProductFromRemainingStone(c.Param("stoneId"), req.LengthM, req.WidthCm, req.Quantity, req.PricePerSquareMeter)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, p)
}

// ExportCuttingSheet GET /sessions/:id/export/cutting-sheet.pdf
func (s *Server) ExportCuttingSheet(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCuttingSheet(&buf, export.NewReport(sess.Contract(), s.cfg.Currency)); err != nil {
		BadRequest(c, err.Error())
		return
	}
	s.attachment(c, "application/pdf", "cutting-sheet.pdf", buf.Bytes())
}

// ExportLabels GET /sessions/:id/export/labels.pdf
func (s *Server) ExportLabels(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteLabels(&buf, sess.AvailableRemainingStones()); err != nil {
		BadRequest(c, err.Error())
		return
	}
	s.attachment(c, "application/pdf", "labels.pdf", buf.Bytes())
}

// ExportXLSX GET /sessions/:id/export/quote.xlsx
func (s *Server) ExportXLSX(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	f, err := export.BuildWorkbook(export.NewReport(sess.Contract(), s.cfg.Currency))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		InternalError(c, "write workbook: "+err.Error())
		return
	}
	s.attachment(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "quote.xlsx", buf.Bytes())
}

func (s *Server) attachment(c *gin.Context, contentType, name string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(200, contentType, data)
}
