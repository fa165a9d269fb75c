package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/theirongolddev/fundburn/internal/interval"
	"github.com/theirongolddev/fundburn/internal/metrics"
	"github.com/theirongolddev/fundburn/internal/model"
	"github.com/theirongolddev/fundburn/internal/pipeline"
)

type dataHandler func(c *gin.Context, data *pipeline.LoadResult, e *metrics.Engine)

// withData answers 503 until the first refresh has succeeded.
func (s *Service) withData(h dataHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, e, ok := s.current()
		if !ok {
			abort(c, http.StatusServiceUnavailable, errors.New("data not loaded yet"))
			return
		}
		h(c, data, e)
	}
}

func respond(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

type kpisResponse struct {
	FiscalYear string      `json:"fiscal_year"`
	Month      string      `json:"month"`
	AsOf       string      `json:"as_of"`
	KPIs       []model.KPI `json:"kpis"`
}

func (s *Service) handleKPIs(c *gin.Context, data *pipeline.LoadResult, e *metrics.Engine) {
	sum := e.Summarize(data.Rows, data.Pledges)
	respond(c, kpisResponse{
		FiscalYear: sum.Year.String(),
		Month:      sum.Month.String(),
		AsOf:       model.FormatDate(e.Now),
		KPIs:       sum.KPIs,
	})
}

type moneyMovedResponse struct {
	Title          string                `json:"title"`
	FiscalYear     string                `json:"fiscal_year"`
	Counterfactual bool                  `json:"counterfactual"`
	KPI            model.KPI             `json:"kpi"`
	Total          float64               `json:"total"`
	Projected      float64               `json:"projected"`
	Trend          model.Trend           `json:"trend"`
	Daily          []model.DailyPoint    `json:"daily,omitempty"`
	Breakdown      string                `json:"breakdown,omitempty"`
	Bars           []model.Bar           `json:"bars,omitempty"`
	Series         []metrics.DailySeries `json:"series,omitempty"`
}

func (s *Service) handleMoneyMoved(c *gin.Context, data *pipeline.LoadResult, e *metrics.Engine) {
	fy := metrics.LatestFiscalYear(data.Rows, e.Now)
	if v := c.Query("fy"); v != "" {
		parsed, err := metrics.ParseFiscalYear(v)
		if err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
		fy = parsed
	}
	cf, err := boolQuery(c, "counterfactual")
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	stacked, err := boolQuery(c, "stacked")
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	kpi, mm := e.MoneyMovedKPI(data.Rows, fy, cf)
	total := mm.Total.InexactFloat64()
	resp := moneyMovedResponse{
		Title:          mm.Title(""),
		FiscalYear:     fy.String(),
		Counterfactual: cf,
		KPI:            kpi,
		Total:          total,
		Projected:      mm.Projected,
		Trend:          mm.Trend,
	}

	by := c.Query("by")
	if by == "" {
		resp.Daily = mm.Daily
		respond(c, resp)
		return
	}
	b, err := metrics.ParseBreakdown(by)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	resp.Breakdown = string(b)
	q := e.Query(fy, cf)
	if stacked {
		resp.Title = mm.Title(b)
		resp.Series, err = metrics.CumulativeByGroup(data.Rows, q, b)
	} else {
		resp.Bars, err = metrics.MoneyMovedBars(data.Rows, q, b)
	}
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	respond(c, resp)
}

type arrResponse struct {
	View        string      `json:"view"`
	Month       string      `json:"month"`
	KPI         model.KPI   `json:"kpi"`
	Total       float64     `json:"total"`
	Pledges     int         `json:"pledges"`
	Donors      int         `json:"donors"`
	ChapterType string      `json:"chapter_type,omitempty"`
	Chapters    []model.Bar `json:"chapters"`
}

func (s *Service) handleARR(c *gin.Context, data *pipeline.LoadResult, e *metrics.Engine) {
	view, err := viewQuery(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	month := model.MonthOf(e.Now)
	if v := c.Query("month"); v != "" {
		if month, err = model.ParseMonth(v); err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
	}

	kpi, arr := e.ARRKPI(data.Pledges, view, month)
	total := arr.Total.InexactFloat64()
	resp := arrResponse{
		View:    view.Name,
		Month:   month.String(),
		KPI:     kpi,
		Total:   total,
		Pledges: arr.Pledges,
		Donors:  arr.Donors,
	}
	if ct, set := c.GetQuery("chapter_type"); set {
		resp.ChapterType = ct
		resp.Chapters = metrics.ChapterARR(data.Pledges, view, month, ct)
	} else {
		resp.Chapters = metrics.ChannelARR(data.Pledges, view, month)
	}
	respond(c, resp)
}

func (s *Service) handleMonthly(c *gin.Context, data *pipeline.LoadResult, e *metrics.Engine) {
	view, err := viewQuery(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	switch series := c.Param("series"); series {
	case "pledges":
		respond(c, model.Series{Name: "Pledges (" + view.Name + ")", Points: metrics.MonthlyPledges(data.Pledges, view, e.Now)})
	case "donations":
		mode, err := metrics.ParseDonationMode(c.DefaultQuery("mode", "total"))
		if err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
		respond(c, metrics.MonthlyDonations(data.Rows, e.Exclude, mode))
	case "arr":
		respond(c, metrics.MonthlyARR(data.Pledges, view, e.Now))
	case "attrition":
		ma := metrics.ComputeMonthlyAttrition(data.Pledges, e.Now)
		respond(c, gin.H{
			"average":       ma.Average,
			"total_churned": ma.TotalChurned,
			"counted":       ma.Counted,
			"months":        ma.Months,
		})
	case "donors":
		respond(c, model.Series{Name: "Active Donors", Points: metrics.MonthlyActiveDonors(data.Pledges, e.Now)})
	default:
		abort(c, http.StatusNotFound, errors.New("unknown series "+strconv.Quote(series)))
	}
}

func (s *Service) handleChapterTypes(c *gin.Context, data *pipeline.LoadResult, _ *metrics.Engine) {
	respond(c, metrics.ChapterTypes(data.Pledges))
}

func viewQuery(c *gin.Context) (interval.Bounds, error) {
	v := c.Query("view")
	b, found := interval.ParseBounds(v)
	if !found {
		return interval.Bounds{}, errors.New("unknown view " + strconv.Quote(v) + " (want total, future or active)")
	}
	return b, nil
}

func boolQuery(c *gin.Context, key string) (bool, error) {
	v := c.Query(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New("invalid " + key + " " + strconv.Quote(v))
	}
	return b, nil
}
