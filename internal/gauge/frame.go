package gauge

import (
	"math"

	"github.com/verte-zerg/arcgauge/internal/anim"
	"github.com/verte-zerg/arcgauge/internal/geom"
	"github.com/verte-zerg/arcgauge/internal/hover"
	"github.com/verte-zerg/arcgauge/internal/threshold"
)

func shape(arc geom.Arc, fill string) (Shape, error) {
	path, err := arc.Path()
	if err != nil {
		return Shape{}, err
	}
	return Shape{Arc: arc, Path: path, Fill: fill}, nil
}

func (w *Widget) buildFrame() (Frame, error) {
	l := w.layout
	cur := w.eng.cur
	f := Frame{
		Width:     l.Width,
		Height:    l.Height,
		CenterX:   l.CenterX,
		CenterY:   l.CenterY,
		Animating: w.eng.animating(),
	}

	var err error
	f.Background, err = shape(geom.Arc{
		InnerRadius: l.InnerRadius,
		OuterRadius: l.OuterRadius,
		StartAngle:  geom.BaseAngle,
		EndAngle:    geom.TopAngle,
	}, anim.FormatColor(w.eng.fill[fillBackground]))
	if err != nil {
		return Frame{}, err
	}
	f.Foreground, err = shape(geom.Arc{
		InnerRadius: math.Max(0, l.InnerRadius-foregroundBleed),
		OuterRadius: l.OuterRadius + foregroundBleed,
		StartAngle:  geom.BaseAngle,
		EndAngle:    cur.Angle,
	}, anim.FormatColor(cur.Color))
	if err != nil {
		return Frame{}, err
	}

	for _, b := range w.set.Bands {
		outer, state := l.BandCollapsed, hover.Collapsed
		if b.Hover {
			outer, state = w.eng.bandOuter[b.Side], w.hover.State(b.Side)
		}
		s, err := shape(geom.Arc{
			InnerRadius: l.OuterRadius,
			OuterRadius: outer,
			StartAngle:  b.StartAngle,
			EndAngle:    b.EndAngle,
		}, b.Color)
		if err != nil {
			return Frame{}, err
		}
		f.Bands = append(f.Bands, BandShape{
			Side:  b.Side.String(),
			Name:  b.Spec.Name,
			Hover: b.Hover,
			State: state.String(),
			Arc:   s.Arc,
			Path:  s.Path,
			Fill:  s.Fill,
		})
	}

	meter := meterStyle(w.cfg)
	f.MinLabel = Label{
		Text:   geom.FormatNumber(w.cfg.Min),
		X:      -l.LabelX,
		Y:      l.LabelY,
		Anchor: "middle",
		Style:  meter,
		Fill:   anim.FormatColor(w.eng.fill[fillMinLabel]),
	}
	f.MaxLabel = Label{
		Text:   geom.FormatNumber(w.cfg.Max),
		X:      l.LabelX - maxLabelNudge,
		Y:      l.LabelY,
		Anchor: "middle",
		Style:  meter,
		Fill:   anim.FormatColor(w.eng.fill[fillMaxLabel]),
	}
	f.ValueLabel = Label{
		Text:   w.FormatValue(cur.Text),
		Anchor: "middle",
		Style:  valueStyle(w.cfg),
		Fill:   anim.FormatColor(w.eng.fill[fillValueLabel]),
	}

	for _, side := range threshold.Sides {
		b, ok := w.set.HoverBand(side)
		if !ok {
			continue
		}
		edge := "left"
		if side == threshold.SideHigh {
			edge = "right"
		}
		f.Tooltips = append(f.Tooltips, Tooltip{
			Side:    side.String(),
			Text:    b.TooltipText(),
			Visible: w.hover.TooltipVisible(side),
			Edge:    edge,
			Offset:  tooltipOffset,
			Top:     l.Height/2 - tooltipLift,
		})
	}
	return f, nil
}
