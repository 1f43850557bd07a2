package model

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationErrors maps a draft field name to a human-readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+": "+v[f])
	}
	return "invalid stair part: " + strings.Join(msgs, "; ")
}

// ValidateDraft checks a draft before it is materialized. It returns nil
// when the draft is valid.
func ValidateDraft(d StairPartDraft) error {
	errs := ValidationErrors{}

	if !d.Kind.Valid() {
		errs["kind"] = fmt.Sprintf("Unknown stair part %q", d.Kind)
	}
	if d.Stone == nil {
		errs["stone"] = "Select a stone"
	}
	if d.ActualLengthM() <= 0 {
		errs["length"] = "Length must be greater than zero"
	}
	width := d.WidthCm()
	if width <= 0 {
		errs["width"] = "Width must be greater than zero"
	} else if orig := d.OriginalWidthCm(); orig > 0 && width > orig+floatEpsilon {
		errs["width"] = fmt.Sprintf("Width (%.1f cm) must not exceed the stone width (%.1f cm)", width, orig)
	}
	if d.Quantity <= 0 {
		errs["quantity"] = "Quantity must be at least 1"
	}
	if d.ThicknessCm < 0 {
		errs["thickness"] = "Thickness cannot be negative"
	}
	if d.Mandatory.Percentage < 0 || d.Mandatory.Percentage > 100 {
		errs["mandatory_percentage"] = "Mandatory percentage must be between 0 and 100"
	}
	if d.Finishing.Enabled && d.Finishing.Finishing == nil {
		errs["finishing"] = "Select a finishing or disable it"
	}

	l := d.Layers
	if l.Edges.HasAny() || l.NumberOfLayersPerStair > 0 {
		if l.NumberOfLayersPerStair < 1 {
			errs["layers_per_stair"] = "Number of layers per stair must be at least 1"
		}
		if l.LayerWidthCm <= 0 {
			errs["layer_width"] = "Layer width must be greater than zero"
		} else if width > 0 && l.LayerWidthCm >= width {
			errs["layer_width"] = "Layer width must be smaller than the part width"
		}
		if !l.Edges.HasAny() {
			errs["layer_edges"] = "Select at least one layer edge"
		}
		if d.Kind != PartLanding && (l.Edges.Back || l.Edges.Perimeter) {
			errs["layer_edges"] = "Back and perimeter layers are only available on landings"
		}
		if l.AltStone != nil && (l.AltMandatory.Percentage < 0 || l.AltMandatory.Percentage > 100) {
			errs["layer_mandatory_percentage"] = "Mandatory percentage must be between 0 and 100"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
