package portfolio

import (
	"slices"

	"CryptoSentinel/internal/model"
)

// mergeAlerts reconciles the session's alert rules with the file on disk. base is the
// set both sides last agreed on: rules added to the file since then are adopted, rules
// removed from it are dropped, and a rule the session left untouched takes the file's version.
func mergeAlerts(base, disk, session []model.PriceAlert) []model.PriceAlert {
	baseByID := indexAlerts(base)
	diskByID := indexAlerts(disk)
	sessionByID := indexAlerts(session)

	out := make([]model.PriceAlert, 0, len(session)+len(disk))
	for _, a := range session {
		b, inBase := baseByID[a.ID]
		d, onDisk := diskByID[a.ID]
		switch {
		case inBase && !onDisk:
			continue
		case inBase && onDisk && sameLatch(a, b):
			out = append(out, d)
		default:
			out = append(out, a)
		}
	}
	for _, d := range disk {
		if _, ok := sessionByID[d.ID]; ok {
			continue
		}
		if _, ok := baseByID[d.ID]; ok {
			continue // removed by the session
		}
		out = append(out, d)
	}
	return out
}

// mergeWatchlist applies the same three-way rule to watchlist symbols.
func mergeWatchlist(base, disk, session []string) []string {
	out := make([]string, 0, len(session)+len(disk))
	for _, s := range session {
		if slices.Contains(base, s) && !slices.Contains(disk, s) {
			continue
		}
		out = append(out, s)
	}
	for _, s := range disk {
		if !slices.Contains(base, s) && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func indexAlerts(alerts []model.PriceAlert) map[string]model.PriceAlert {
	m := make(map[string]model.PriceAlert, len(alerts))
	for _, a := range alerts {
		m[a.ID] = a
	}
	return m
}

func sameLatch(a, b model.PriceAlert) bool {
	if a.Triggered != b.Triggered {
		return false
	}
	if a.TriggeredAt == nil || b.TriggeredAt == nil {
		return a.TriggeredAt == b.TriggeredAt
	}
	return a.TriggeredAt.Equal(*b.TriggeredAt)
}
