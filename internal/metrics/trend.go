package metrics

import "github.com/theirongolddev/fundburn/internal/model"

// FitTrend fits a least-squares line through the cumulative series, with
// x measured in day ordinals. One point yields a flat line through it; no
// points yield the zero line.
func FitTrend(points []model.DailyPoint) model.Trend {
	switch len(points) {
	case 0:
		return model.Trend{}
	case 1:
		return model.Trend{Intercept: points[0].Cumulative}
	}

	n := float64(len(points))
	var sx, sy float64
	for _, p := range points {
		sx += model.DayOrdinal(p.Date)
		sy += p.Cumulative
	}
	mx, my := sx/n, sy/n

	// Centered sums keep the ordinals (~739000) from swamping precision.
	var sxx, sxy float64
	for _, p := range points {
		dx := model.DayOrdinal(p.Date) - mx
		sxx += dx * dx
		sxy += dx * (p.Cumulative - my)
	}
	if sxx == 0 {
		return model.Trend{Intercept: my}
	}
	slope := sxy / sxx
	return model.Trend{Slope: slope, Intercept: my - slope*mx}
}
