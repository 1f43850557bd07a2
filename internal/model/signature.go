package model

import (
	"fmt"
	"strconv"
	"strings"
)

// LayerSignature identifies a layer line item. Two layer demands with the
// same signature are merged into one line item instead of duplicated.
type LayerSignature struct {
	StairSystemID  string   `json:"stair_system_id"`
	ParentPartType PartKind `json:"parent_part_type"`
	Edges          string   `json:"edges"`
	LayerWidthCm   float64  `json:"layer_width_cm"`
	LengthM        float64  `json:"length_m"`
	WidthM         float64  `json:"width_m"`
	LayerType      string   `json:"layer_type"`
	AltStoneID     string   `json:"alt_stone_id,omitempty"`
}

// NewLayerSignature derives the signature of a draft's layer configuration.
func NewLayerSignature(d StairPartDraft) LayerSignature {
	sig := LayerSignature{
		StairSystemID:  d.StairSystemID,
		ParentPartType: d.Kind,
		Edges:          d.Layers.Edges.String(),
		LayerWidthCm:   d.Layers.LayerWidthCm,
		LengthM:        d.ActualLengthM(),
		WidthM:         d.Width.Meters(),
		LayerType:      d.Layers.Type,
	}
	if d.Layers.AltStone != nil {
		sig.AltStoneID = d.Layers.AltStone.ID
	}
	return sig
}

// Key returns the canonical string form of the signature. Dimensions are
// rounded to 0.1 mm so float noise does not split identical layers.
func (s LayerSignature) Key() string {
	layerType := s.LayerType
	if layerType == "" {
		layerType = "standard"
	}
	return strings.Join([]string{
		s.StairSystemID,
		string(s.ParentPartType),
		s.Edges,
		formatKeyFloat(CmToM(s.LayerWidthCm)),
		formatKeyFloat(s.LengthM),
		formatKeyFloat(s.WidthM),
		layerType,
		s.AltStoneID,
	}, "|")
}

// Equal reports whether two signatures identify the same layer line item.
func (s LayerSignature) Equal(other LayerSignature) bool {
	return s.Key() == other.Key()
}

func (s LayerSignature) String() string {
	return fmt.Sprintf("%s layer %s %.0fcm on %.2fx%.2fm", s.ParentPartType, s.Edges, s.LayerWidthCm, s.LengthM, s.WidthM)
}

func formatKeyFloat(m float64) string {
	return strconv.FormatFloat(roundLength(m), 'f', 4, 64)
}
