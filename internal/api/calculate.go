package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/StoneQuote/internal/engine"
	"github.com/piwi3910/StoneQuote/internal/model"
)

// CalculatePart POST /calculate/part
// Prices a draft without materializing it.
func (s *Server) CalculatePart(c *gin.Context) {
	var d model.StairPartDraft
	if err := c.ShouldBindJSON(&d); err != nil {
		BadRequest(c, "invalid draft: "+err.Error())
		return
	}
	if err := model.ValidateDraft(d); err != nil {
		handleError(c, err)
		return
	}
	Success(c, engine.TotalsForDraft(d, s.cfg.Rates))
}

type stoneUsageRequest struct {
	OriginalWidthCm float64 `json:"original_width_cm"`
	UserWidthCm     float64 `json:"user_width_cm"`
	Quantity        int     `json:"quantity"`
}

// StoneUsage POST /calculate/stone-usage
func (s *Server) StoneUsage(c *gin.Context) {
	var req stoneUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	Success(c, model.CalculateStoneUsage(req.OriginalWidthCm, req.UserWidthCm, req.Quantity))
}

type layerDemandRequest struct {
	Kind           model.PartKind `json:"kind" binding:"required"`
	Edges          model.EdgeSet  `json:"edges"`
	LayersPerStair int            `json:"layers_per_stair"`
	Quantity       int            `json:"quantity"`
	LayerWidthCm   float64        `json:"layer_width_cm"`
	LengthM        float64        `json:"length_m"`
	WidthM         float64        `json:"width_m"`
}

type layerDemandResponse struct {
	Demands     []model.LayerEdgeDemand `json:"demands"`
	TotalLayers int                     `json:"total_layers"`
}

// ResolveLayerDemands POST /calculate/layer-demands
func (s *Server) ResolveLayerDemands(c *gin.Context) {
	var req layerDemandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !req.Kind.Valid() {
		ValidationFailed(c, model.ValidationErrors{"kind": "Unknown stair part " + string(req.Kind)})
		return
	}
	demands := model.ResolveLayerDemands(model.LayerDemandInput{
		Kind:           req.Kind,
		Edges:          req.Edges,
		LayersPerStair: req.LayersPerStair,
		Quantity:       req.Quantity,
		LayerWidthCm:   req.LayerWidthCm,
		LengthM:        req.LengthM,
		WidthM:         req.WidthM,
	})
	if demands == nil {
		demands = []model.LayerEdgeDemand{}
	}
	Success(c, layerDemandResponse{Demands: demands, TotalLayers: model.TotalLayersNeeded(demands)})
}

// Bounds on a stateless allocation request.
const (
	maxAllocationLayers = 10000 // Strips across all demands
	maxPoolCopies       = 10000 // Copies per available stone
	maxColumnsPerPiece  = 1000  // Stone width over layer width
)

type allocationRequest struct {
	Demands      []model.LayerEdgeDemand `json:"demands"`
	TotalLayers  int                     `json:"total_layers"`
	LayerWidthCm float64                 `json:"layer_width_cm"`
	LayerLengthM float64                 `json:"layer_length_m"`
	Available    []model.RemainingStone  `json:"available"`
	SourceCutID  string                  `json:"source_cut_id"`
}

// AllocateLayers POST /calculate/layer-allocation
// Runs the allocator over the given stones without touching any session.
func (s *Server) AllocateLayers(c *gin.Context) {
	var req allocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		ValidationFailed(c, errs)
		return
	}
	Success(c, engine.AllocateLayers(engine.LayerAllocationInput{
		Demands:             req.Demands,
		TotalLayers:         req.TotalLayers,
		LayerWidthCm:        req.LayerWidthCm,
		LayerLengthM:        req.LayerLengthM,
		Available:           req.Available,
		CuttingCostPerMeter: s.cfg.Rates.Longitudinal,
		SourceCutID:         req.SourceCutID,
	}))
}

func (req allocationRequest) validate() model.ValidationErrors {
	errs := model.ValidationErrors{}
	if req.LayerWidthCm <= 0 {
		errs["layer_width_cm"] = "Layer width must be greater than zero"
	}

	layers := req.TotalLayers
	if len(req.Demands) > 0 {
		layers = 0
		for _, d := range req.Demands {
			if d.LayersNeeded > maxAllocationLayers {
				layers = d.LayersNeeded
				break
			}
			layers += d.LayersNeeded
		}
	}
	if layers > maxAllocationLayers {
		errs["demands"] = fmt.Sprintf("At most %d layers can be allocated at once", maxAllocationLayers)
	}

	for i, s := range req.Available {
		switch {
		case s.Quantity > maxPoolCopies:
			errs["available"] = fmt.Sprintf("Stone %d: at most %d copies per stone", i+1, maxPoolCopies)
		case req.LayerWidthCm > 0 && s.Width/req.LayerWidthCm > maxColumnsPerPiece:
			errs["available"] = fmt.Sprintf("Stone %d: at most %d layer columns per piece", i+1, maxColumnsPerPiece)
		}
	}
	return errs
}
