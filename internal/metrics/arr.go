package metrics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fundburn/internal/interval"
	"github.com/theirongolddev/fundburn/internal/model"
)

// ARR is annual recurring revenue for one interval view in one month.
type ARR struct {
	View    interval.Bounds
	Month   model.Month
	Total   decimal.Decimal
	Pledges int // active recurring pledges
	Donors  int // distinct donors among them
}

// activeRecurring returns the recurring pledges whose interval covers m.
func activeRecurring(pledges []model.Pledge, b interval.Bounds, m model.Month) []model.Pledge {
	var out []model.Pledge
	for _, p := range pledges {
		if p.Recurring() && interval.IsActiveInMonth(p, m, b) {
			out = append(out, p)
		}
	}
	return out
}

// sumAnnualized adds the annualized amounts, skipping absent ones.
func sumAnnualized(pledges []model.Pledge) decimal.Decimal {
	total := decimal.Zero
	for _, p := range pledges {
		if a := p.Annualized(); a.Valid {
			total = total.Add(a.Decimal)
		}
	}
	return total
}

// ComputeARR sums annualized contributions of recurring pledges active in
// month m under view b. An empty selection yields zero.
func ComputeARR(pledges []model.Pledge, b interval.Bounds, m model.Month) ARR {
	active := activeRecurring(pledges, b, m)
	donors := make(map[string]struct{}, len(active))
	for _, p := range active {
		donors[p.DonorID] = struct{}{}
	}
	return ARR{
		View:    b,
		Month:   m,
		Total:   sumAnnualized(active),
		Pledges: len(active),
		Donors:  len(donors),
	}
}

// ChapterARR groups ARR by donor chapter for pledges of one chapter type.
// An empty chapterType selects pledges with no chapter type. Bars are sorted
// by ARR, largest first.
func ChapterARR(pledges []model.Pledge, b interval.Bounds, m model.Month, chapterType string) []model.Bar {
	if chapterType == "" {
		chapterType = model.NoChapterType
	}
	var selected []model.Pledge
	for _, p := range activeRecurring(pledges, b, m) {
		if p.ChapterTypeLabel() == chapterType {
			selected = append(selected, p)
		}
	}
	return byChapter(selected)
}

// ChannelARR groups ARR by donor chapter across every chapter type.
func ChannelARR(pledges []model.Pledge, b interval.Bounds, m model.Month) []model.Bar {
	return byChapter(activeRecurring(pledges, b, m))
}

func byChapter(pledges []model.Pledge) []model.Bar {
	totals := make(map[string]decimal.Decimal)
	for _, p := range pledges {
		a := p.Annualized()
		if !a.Valid {
			continue
		}
		totals[p.DonorChapter] = totals[p.DonorChapter].Add(a.Decimal)
	}
	bars := make([]model.Bar, 0, len(totals))
	for chapter, v := range totals {
		label := chapter
		if label == "" {
			label = "none"
		}
		bars = append(bars, model.Bar{Label: label, Value: v.InexactFloat64()})
	}
	sortBars(bars)
	return bars
}

// ChapterTypes returns the distinct chapter-type labels, sorted.
func ChapterTypes(pledges []model.Pledge) []string {
	seen := make(map[string]struct{})
	for _, p := range pledges {
		seen[p.ChapterTypeLabel()] = struct{}{}
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ChapterARRPoint is one chapter's ARR in a month.
type ChapterARRPoint struct {
	DonorChapter string  `json:"donor_chapter"`
	ChapterType  string  `json:"chapter_type"`
	Value        float64 `json:"value"`
}

// MonthlyARRPoint is the ARR at one month end, split by chapter.
type MonthlyARRPoint struct {
	MonthEnd time.Time         `json:"month_end"`
	Label    string            `json:"label"`
	Total    float64           `json:"total"`
	Chapters []ChapterARRPoint `json:"chapters"`
}

type chapterKey struct {
	chapter, chapterType string
}

type arrChange struct {
	date  time.Time
	key   chapterKey
	delta decimal.Decimal
}

// MonthlyARR tracks ARR per (chapter, chapter type) at each month end from
// the first pledge edge through the current month. Each pledge adds its
// annualized amount at its start and removes it at its end; nothing dated
// after now counts. Only groups with positive ARR at a month end are kept,
// and months with no such group are omitted.
func MonthlyARR(pledges []model.Pledge, b interval.Bounds, now time.Time) []MonthlyARRPoint {
	today := model.Day(now)
	var changes []arrChange
	for _, p := range interval.Recurring(pledges) {
		a := p.Annualized()
		start, end := b.Span(p)
		if !a.Valid || start.IsZero() {
			continue
		}
		key := chapterKey{chapter: p.DonorChapter, chapterType: p.ChapterType}
		if !start.After(today) {
			changes = append(changes, arrChange{date: start, key: key, delta: a.Decimal})
		}
		if !end.IsZero() && !end.After(today) {
			changes = append(changes, arrChange{date: end, key: key, delta: a.Decimal.Neg()})
		}
	}
	if len(changes) == 0 {
		return nil
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].date.Before(changes[j].date) })

	running := make(map[chapterKey]decimal.Decimal)
	var out []MonthlyARRPoint
	i := 0
	last := model.MonthOf(today)
	for m := model.MonthOf(changes[0].date); !last.Before(m); m = m.Next() {
		for i < len(changes) && !changes[i].date.After(m.End()) {
			running[changes[i].key] = running[changes[i].key].Add(changes[i].delta)
			i++
		}
		pt := MonthlyARRPoint{MonthEnd: m.End(), Label: m.String()}
		for k, v := range running {
			if !v.IsPositive() {
				continue
			}
			pt.Chapters = append(pt.Chapters, ChapterARRPoint{
				DonorChapter: k.chapter,
				ChapterType:  k.chapterType,
				Value:        v.InexactFloat64(),
			})
		}
		if len(pt.Chapters) == 0 {
			continue
		}
		sort.Slice(pt.Chapters, func(a, c int) bool {
			if pt.Chapters[a].Value != pt.Chapters[c].Value {
				return pt.Chapters[a].Value > pt.Chapters[c].Value
			}
			if pt.Chapters[a].DonorChapter != pt.Chapters[c].DonorChapter {
				return pt.Chapters[a].DonorChapter < pt.Chapters[c].DonorChapter
			}
			return pt.Chapters[a].ChapterType < pt.Chapters[c].ChapterType
		})
		for _, c := range pt.Chapters {
			pt.Total += c.Value
		}
		out = append(out, pt)
	}
	return out
}
