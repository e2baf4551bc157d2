package controller

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stockdash/chart"
	"stockdash/model"
	"stockdash/service"
	"stockdash/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type DashboardController struct {
	dashboard service.DashboardService
}

func NewDashboardController(ds service.DashboardService) *DashboardController {
	return &DashboardController{dashboard: ds}
}

// RegisterRoutes sets up the browser pages. The router must have the
// dashboard templates loaded.
func (ctrl *DashboardController) RegisterRoutes(router gin.IRouter) {
	router.GET("/", ctrl.index)
	router.GET("/charts", ctrl.charts)
}

type dashboardPage struct {
	View       *model.DashboardView
	Start      string
	End        string
	ChartsUrl  string
	RawTable   template.HTML
	EventTable template.HTML
}

// index renders the controls, inline diagnostics, signal summary and tables.
func (ctrl *DashboardController) index(c *gin.Context) {
	q, problems := parseDashboardQuery(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	view, err := ctrl.dashboard.Build(ctx, q)
	if err != nil {
		log.Info().Err(err).Str("market", view.Query.Market).Str("stock", view.Query.Stock).Msg("dashboard rendered without data")
	}
	view.Warnings = append(problems, view.Warnings...)

	page := dashboardPage{
		View:       view,
		Start:      util.FormatDate(view.Query.Start),
		End:        util.FormatDate(view.Query.End),
		EventTable: chart.EventTable(view),
	}
	if view.HasData {
		page.ChartsUrl = "/charts?" + encodeQuery(view.Query)
		if view.Query.ShowRaw {
			page.RawTable = chart.RawTable(view)
		}
	}

	c.HTML(http.StatusOK, "dashboard.html", page)
}

// charts renders the go-echarts page shown in the dashboard's frame.
func (ctrl *DashboardController) charts(c *gin.Context) {
	q, _ := parseDashboardQuery(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	view, err := ctrl.dashboard.Build(ctx, q)
	if err != nil {
		c.HTML(http.StatusOK, "nodata.html", view)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := chart.RenderCharts(c.Writer, view); err != nil {
		log.Error().Err(err).Str("ticker", view.Stock.Ticker).Msg("chart render failed")
	}
}

// parseDashboardQuery reads the form fields. Blank windows take the default
// lengths; unparseable values fall back the same way and are reported back
// as messages. Parsed values, including out-of-range ones, are kept for
// validation.
func parseDashboardQuery(c *gin.Context) (model.DashboardQuery, []string) {
	var problems []string
	q := model.DashboardQuery{
		Market:  c.Query("market"),
		Stock:   c.Query("stock"),
		ShowRaw: c.Query("raw") == "on" || c.Query("raw") == "true",
	}

	if v, err := util.ParseDate(c.Query("start")); err != nil {
		problems = append(problems, fmt.Sprintf("Start date %q is not YYYY-MM-DD.", c.Query("start")))
	} else {
		q.Start = v
	}
	if v, err := util.ParseDate(c.Query("end")); err != nil {
		problems = append(problems, fmt.Sprintf("End date %q is not YYYY-MM-DD.", c.Query("end")))
	} else {
		q.End = v
	}

	q.ShortWindow, problems = parseWindow(c.Query("short"), "Short", model.DefaultShortWindow, problems)
	q.LongWindow, problems = parseWindow(c.Query("long"), "Long", model.DefaultLongWindow, problems)
	return q, problems
}

func parseWindow(raw, label string, fallback int, problems []string) (int, []string) {
	if raw == "" {
		return fallback, problems
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, append(problems, fmt.Sprintf("%s window %q is not a number.", label, raw))
	}
	return n, problems
}

func encodeQuery(q model.DashboardQuery) string {
	values := url.Values{}
	values.Set("market", q.Market)
	values.Set("stock", q.Stock)
	values.Set("start", util.FormatDate(q.Start))
	values.Set("end", util.FormatDate(q.End))
	values.Set("short", strconv.Itoa(q.ShortWindow))
	values.Set("long", strconv.Itoa(q.LongWindow))
	return values.Encode()
}
