package client

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"stockdash/customerrors"
	"stockdash/middleware"
	"stockdash/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

var footnoteRe = regexp.MustCompile(`\[[^\]]*\]`)

type TableClient struct {
	client *resty.Client
}

func NewTableClient(timeout time.Duration) *TableClient {
	client := resty.New().
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Encoding": "gzip, br",
			"Accept-Language": "en-US,en;q=0.9",
			"User-Agent":      userAgent,
		}).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second)

	client.OnAfterResponse(middleware.DecompressMiddleware)

	return &TableClient{client: client}
}

// LoadTable fetches url and returns its index-th <table> (0-based, document
// order). Any failure yields an empty table and an error wrapping
// ErrSourceTableUnavailable.
func (c *TableClient) LoadTable(ctx context.Context, url string, index int) (model.Table, error) {
	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("table fetch failed")
		return model.Table{}, fmt.Errorf("%w: %v", customerrors.ErrSourceTableUnavailable, err)
	}
	if !resp.IsSuccess() {
		log.Warn().Int("status", resp.StatusCode()).Str("url", url).Msg("table fetch rejected")
		return model.Table{}, fmt.Errorf("%w: status %d", customerrors.ErrSourceTableUnavailable, resp.StatusCode())
	}

	table, err := ParseTable(resp.Body(), index)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Int("table", index).Msg("table parse failed")
		return model.Table{}, err
	}
	return table, nil
}

// ParseTable extracts the index-th table of an HTML document.
func ParseTable(body []byte, index int) (model.Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return model.Table{}, fmt.Errorf("%w: %v", customerrors.ErrSourceTableUnavailable, err)
	}

	tables := doc.Find("table")
	if index < 0 || index >= tables.Length() {
		return model.Table{}, fmt.Errorf("%w: table %d not found (page has %d)",
			customerrors.ErrSourceTableUnavailable, index, tables.Length())
	}

	var table model.Table
	tables.Eq(index).Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Children().Filter("th, td")
		if cells.Length() == 0 {
			return
		}

		if table.Columns == nil {
			if cells.Filter("td").Length() == 0 {
				table.Columns = cellTexts(cells)
			}
			return
		}
		if cells.Filter("td").Length() == 0 {
			return
		}

		values := cellTexts(cells)
		record := make(map[string]string, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(values) {
				record[col] = values[i]
			} else {
				record[col] = ""
			}
		}
		table.Rows = append(table.Rows, record)
	})

	if table.Columns == nil {
		return model.Table{}, fmt.Errorf("%w: table %d has no header row", customerrors.ErrSourceTableUnavailable, index)
	}
	if table.Rows == nil {
		table.Rows = []map[string]string{}
	}
	return table, nil
}

func cellTexts(cells *goquery.Selection) []string {
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		texts = append(texts, cleanCell(cell.Text()))
	})
	return texts
}

func cleanCell(s string) string {
	s = footnoteRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
