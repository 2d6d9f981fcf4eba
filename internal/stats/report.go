package stats

import (
	"context"

	"github.com/verte-zerg/arcgauge/internal/model"
	"github.com/verte-zerg/arcgauge/internal/store"
)

// SessionReport is a session summary with every value it recorded.
type SessionReport struct {
	Summary model.SessionSummary
	Values  []float64
}

// Report contains precomputed data for history rendering.
type Report struct {
	Sessions []SessionReport
	// Session is the session whose samples are listed; empty when nothing
	// was recorded.
	Session string
	Samples []model.Sample
}

// BuildReport loads and prepares data for history rendering. Without
// cfg.Session the most recent session is selected.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	summaries, err := st.ListSessions(ctx)
	if err != nil {
		return Report{}, err
	}
	report := Report{Sessions: make([]SessionReport, 0, len(summaries))}
	for _, summary := range summaries {
		samples, err := st.ListSamples(ctx, model.HistoryConfig{Session: summary.Session})
		if err != nil {
			return Report{}, err
		}
		report.Sessions = append(report.Sessions, SessionReport{Summary: summary, Values: Values(samples)})
	}
	if len(summaries) == 0 {
		return report, nil
	}

	report.Session = cfg.Session
	if report.Session == "" {
		report.Session = summaries[len(summaries)-1].Session
	}
	report.Samples, err = st.ListSamples(ctx, model.HistoryConfig{Session: report.Session, Last: cfg.Last})
	if err != nil {
		return Report{}, err
	}
	return report, nil
}
