// Package pdf renders the printable Requisition and Issue Slip (RIS).
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Office name          │  RIS No. + Date             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Purpose + Status                                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Item | Unit | Requested Qty | Issued Qty            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SIGNATORIES: Requested / Approved / Issued / Received by   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/provgso/requisition-api/internal/application/requisition"
	"github.com/provgso/requisition-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ requisition.SlipRenderer = (*MarotoSlipRenderer)(nil)

// MarotoSlipRenderer implements requisition.SlipRenderer using Maroto v2.
type MarotoSlipRenderer struct {
	officeName string
}

// NewMarotoSlipRenderer builds the renderer. officeName goes on the header.
func NewMarotoSlipRenderer(officeName string) *MarotoSlipRenderer {
	return &MarotoSlipRenderer{officeName: officeName}
}

// RenderSlip generates the slip PDF and returns its bytes.
func (g *MarotoSlipRenderer) RenderSlip(
	_ context.Context,
	req *entity.SupplyRequest,
	signatories requisition.Signatories,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Requisition and Issue Slip", true).
		WithAuthor(g.officeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.officeName, req))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(purposeRow(req))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(req.LineItems) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(signatoryRows(signatories)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate slip: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: office name (left), RIS number and date (right).
func headerRow(officeName string, req *entity.SupplyRequest) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(officeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Supply Office", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REQUISITION AND ISSUE SLIP", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("RIS No. "+req.ID, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+req.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// purposeRow: purpose free text plus current status.
func purposeRow(req *entity.SupplyRequest) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("PURPOSE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Status: %s",
				nonEmpty(req.Purpose, "—"), req.Status.String(),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}
	return row.New(7).Add(
		col.New(6).Add(text.New("ITEM", header)),
		col.New(2).Add(text.New("UNIT", header)),
		col.New(2).Add(text.New("REQUESTED", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Right,
		})),
		col.New(2).Add(text.New("ISSUED", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Right,
		})),
	)
}

func tableDetailRows(lines []entity.RequestLineItem) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, item := range lines {
		rows = append(rows, row.New(6).Add(
			col.New(6).Add(text.New(item.Name, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(item.Unit, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(item.RequestedQty.String(), props.Text{
				Size: 8, Top: 1, Align: align.Right,
			})),
			col.New(2).Add(text.New(item.Qty.String(), props.Text{
				Size: 8, Top: 1, Align: align.Right,
			})),
		))
	}
	return rows
}

// signatoryRows: four signature boxes across the page.
func signatoryRows(s requisition.Signatories) []core.Row {
	return []core.Row{
		row.New(6).Add(
			signatoryTitle("Requested by"),
			signatoryTitle("Approved by"),
			signatoryTitle("Issued by"),
			signatoryTitle("Received by"),
		),
		row.New(14).Add(
			signatoryBox(s.RequestedBy),
			signatoryBox(s.ApprovedBy),
			signatoryBox(s.IssuedBy),
			signatoryBox(s.ReceivedBy),
		),
	}
}

func signatoryTitle(title string) core.Col {
	return col.New(3).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	)
}

func signatoryBox(actor entity.Actor) core.Col {
	name := nonEmpty(actor.Name, nonEmpty(actor.ID, "—"))
	return col.New(3).Add(
		text.New(name, props.Text{Size: 8, Top: 4}),
		text.New(actor.Position, props.Text{Size: 7, Top: 9, Color: colorGray}),
	)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
