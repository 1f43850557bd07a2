package api

import (
	"github.com/gin-gonic/gin"
	"github.com/piwi3910/StoneQuote/internal/catalog"
	"github.com/piwi3910/StoneQuote/internal/model"
	"go.uber.org/zap"
)

// SearchProducts GET /catalog/products?q=&contract_type=
// Failures are logged and degrade to an empty list.
func (s *Server) SearchProducts(c *gin.Context) {
	products, err := s.catalog.SearchProducts(c.Request.Context(), c.Query("q"), c.Query("contract_type"))
	if err != nil {
		s.log.Warn("product search failed", zap.String("q", c.Query("q")), zap.Error(err))
		products = []model.StoneProduct{}
	}
	Success(c, products)
}

type liveSearchResponse struct {
	Results []model.StoneProduct `json:"results"`
	Current bool                 `json:"current"`
}

// LiveSearchProducts GET /catalog/products/live?client=&q=
// Search-as-you-type: the request waits for the debounce, and a newer
// request from the same client cancels it and marks it stale.
func (s *Server) LiveSearchProducts(c *gin.Context) {
	client := c.Query("client")
	if client == "" {
		client = c.ClientIP()
	}
	results, current := s.liveSearch(client, c.Query("contract_type")).Query(c.Request.Context(), c.Query("q"))
	if results == nil {
		results = []model.StoneProduct{}
	}
	Success(c, liveSearchResponse{Results: results, Current: current})
}

// SearchTools GET /catalog/tools?q=
func (s *Server) SearchTools(c *gin.Context) {
	tools, err := s.catalog.SearchTools(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.log.Warn("tool search failed", zap.String("q", c.Query("q")), zap.Error(err))
		tools = []model.SubService{}
	}
	Success(c, tools)
}

// ListFinishings GET /catalog/finishings
func (s *Server) ListFinishings(c *gin.Context) {
	finishings, err := s.catalog.ListFinishings(c.Request.Context())
	if err != nil {
		s.log.Warn("finishing list failed", zap.Error(err))
		finishings = []model.StoneFinishing{}
	}
	Success(c, finishings)
}

// CuttingRates GET /catalog/rates
func (s *Server) CuttingRates(c *gin.Context) {
	rates, err := catalog.ResolveRates(c.Request.Context(), s.catalog)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"longitudinal": rates.Longitudinal, "cross": rates.Cross})
}
