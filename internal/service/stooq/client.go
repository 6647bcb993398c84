package stooq

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"QuantDesk/internal/domain/models"
	drepo "QuantDesk/internal/domain/repository"
	"QuantDesk/pkg/cache"
	xhttp "QuantDesk/pkg/http"
	"QuantDesk/pkg/logger"
	"QuantDesk/pkg/metrics"
	"QuantDesk/pkg/util"
)

// Client fetches daily OHLCV history from the Stooq CSV endpoint and
// implements the BarSource contract: any upstream failure degrades to
// an empty result, never an error.
type Client struct {
	httpc    *xhttp.Client
	cache    cache.Service
	log      *logger.Logger
	recorder *metrics.Recorder

	baseURL  string
	suffix   string
	cacheTTL time.Duration
}

var _ drepo.BarSource = (*Client)(nil)

type Config struct {
	BaseURL  string
	Suffix   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

func New(cfg Config, c cache.Service, log *logger.Logger, rec *metrics.Recorder) *Client {
	return &Client{
		httpc:    xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		cache:    c,
		log:      log,
		recorder: rec,
		baseURL:  cfg.BaseURL,
		suffix:   cfg.Suffix,
		cacheTTL: cfg.CacheTTL,
	}
}

// NormalizeSymbol lowercases the ticker and appends the market suffix
// when the ticker carries no exchange qualifier of its own.
func (c *Client) NormalizeSymbol(ticker string) string {
	s := strings.ToLower(strings.TrimSpace(ticker))
	if s == "" {
		return s
	}
	if !strings.Contains(s, ".") {
		s += c.suffix
	}
	return s
}

func (c *Client) DailyBars(ctx context.Context, ticker string, start, end time.Time) []models.Bar {
	sym := c.NormalizeSymbol(ticker)
	if sym == "" {
		return nil
	}

	raw, ok := c.fetchCSV(ctx, sym)
	if !ok {
		return nil
	}

	bars := parseCSV(strings.ToUpper(strings.TrimSpace(ticker)), raw)
	if c.recorder != nil {
		c.recorder.RecordBarsFetched(sym, len(bars))
	}

	start = util.DayUTC(start)
	end = util.DayUTC(end)
	out := bars[:0:0]
	for _, b := range bars {
		if b.Time.Before(start) || b.Time.After(end) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

func (c *Client) LatestPrice(ctx context.Context, ticker string) (float64, bool) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)
	bars := c.DailyBars(ctx, ticker, start, end)
	if len(bars) == 0 {
		return 0, false
	}
	price := bars[len(bars)-1].Close
	if c.recorder != nil {
		c.recorder.RecordLastPrice(c.NormalizeSymbol(ticker), price)
	}
	return price, true
}

// fetchCSV returns the raw daily history CSV for sym, consulting the
// shared cache first.
func (c *Client) fetchCSV(ctx context.Context, sym string) ([]byte, bool) {
	key := cache.Key("stooq", "csv", sym)
	if c.cache != nil {
		var cached []byte
		if err := c.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
			return cached, true
		}
	}

	start := time.Now()
	var body []byte
	err := c.httpc.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL,
		QueryParams: map[string][]string{
			"s": {sym},
			"i": {"d"},
		},
	}, &body)
	if err != nil {
		c.log.Warn("stooq fetch failed",
			logger.String("symbol", sym),
			logger.Error(err),
		)
		if c.recorder != nil {
			c.recorder.RecordError("stooq_fetch")
		}
		return nil, false
	}
	if c.recorder != nil {
		c.recorder.RecordLatency("stooq_fetch", time.Since(start).Seconds())
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, key, body, c.cacheTTL)
	}
	return body, true
}

// parseCSV decodes a Stooq daily CSV payload. A header row is expected
// but not required; short rows, malformed rows and non-positive closes
// are dropped.
func parseCSV(sym string, raw []byte) []models.Bar {
	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1

	var bars []models.Bar
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(rec) < 6 {
			continue
		}
		day, ok := util.ParseDate(rec[0])
		if !ok {
			// header or junk row
			continue
		}

		open, err1 := strconv.ParseFloat(rec[1], 64)
		high, err2 := strconv.ParseFloat(rec[2], 64)
		low, err3 := strconv.ParseFloat(rec[3], 64)
		cls, err4 := strconv.ParseFloat(rec[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		if math.IsNaN(cls) || cls <= 0 {
			continue
		}

		vol, _ := strconv.ParseInt(strings.TrimSpace(rec[5]), 10, 64)

		bars = append(bars, models.Bar{
			Symbol:    sym,
			Time:      day,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     cls,
			Volume:    vol,
			Timeframe: "1d",
		})
	}
	return bars
}
