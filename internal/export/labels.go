package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/StoneQuote/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each remaining-stone label's QR code.
// Every physical piece gets its own label.
type LabelInfo struct {
	StoneID     string  `json:"stone_id"`
	StoneName   string  `json:"stone_name"`
	WidthCm     float64 `json:"width_cm"`
	LengthM     float64 `json:"length_m"`
	ThicknessCm float64 `json:"thickness_cm,omitempty"`
	Piece       int     `json:"piece"`
	Pieces      int     `json:"pieces"`
	SourceCutID string  `json:"source_cut_id"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos returns one label per piece of every usable remaining stone.
func CollectLabelInfos(stones []model.RemainingStone) []LabelInfo {
	var labels []LabelInfo
	for _, s := range stones {
		if !s.Usable() {
			continue
		}
		for piece := 1; piece <= s.Quantity; piece++ {
			labels = append(labels, LabelInfo{
				StoneID:     s.ID,
				StoneName:   s.StoneName,
				WidthCm:     s.Width,
				LengthM:     s.Length,
				ThicknessCm: s.ThicknessCm,
				Piece:       piece,
				Pieces:      s.Quantity,
				SourceCutID: s.SourceCutID,
			})
		}
	}
	return labels
}

// ExportLabels writes a PDF of QR-coded labels for the usable remaining stones.
// Labels are laid out on a standard label sheet format (Avery 5160 / 3 columns
// x 10 rows on US Letter).
func ExportLabels(path string, stones []model.RemainingStone) error {
	pdf, err := buildLabels(stones)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WriteLabels renders the same document as ExportLabels to w.
func WriteLabels(w io.Writer, stones []model.RemainingStone) error {
	pdf, err := buildLabels(stones)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildLabels(stones []model.RemainingStone) (*fpdf.Fpdf, error) {
	labels := CollectLabelInfos(stones)
	if len(labels) == 0 {
		return nil, fmt.Errorf("no remaining stones to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, tr, x, y, label); err != nil {
			return nil, fmt.Errorf("failed to render label for %q: %w", label.StoneID, err)
		}
	}
	return pdf, nil
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.StoneID, info.Piece)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	name := tr(info.StoneName)
	if name == "" {
		name = "Remaining stone"
	}
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(textW, 4.5, name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.0f cm x %.2f m", info.WidthCm, info.LengthM)
	if info.ThicknessCm > 0 {
		dims += fmt.Sprintf(" x %.1f cm", info.ThicknessCm)
	}
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Piece %d of %d", info.Piece, info.Pieces), "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	id := info.StoneID
	if len(id) > 8 {
		id = id[:8]
	}
	pdf.CellFormat(textW, 3, "ID "+id, "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}
