package sentiment

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"sync"
	"time"

	"QuantDesk/internal/domain/models"
	domsvc "QuantDesk/internal/domain/service"
)

// Provider synthesizes a deterministic sentiment snapshot per ticker.
// The random stream is seeded from the ticker and a coarse time bucket,
// so repeated reads agree within the bucket and drift across buckets.
// Snapshots are memoized per ticker for the configured TTL.
type Provider struct {
	mu    sync.Mutex
	store map[string]cached

	ttl     time.Duration
	bucket  time.Duration
	clock   domsvc.Clock
	randFor func(seed int64) *rand.Rand
}

var _ domsvc.SentimentProvider = (*Provider)(nil)

type cached struct {
	snap models.SentimentSnapshot
	exp  time.Time
}

type Option func(*Provider)

// WithClock replaces the wall clock, pinning both the cache expiry and
// the seed bucket.
func WithClock(c domsvc.Clock) Option {
	return func(p *Provider) { p.clock = c }
}

// WithRand replaces the seeded generator factory.
func WithRand(f func(seed int64) *rand.Rand) Option {
	return func(p *Provider) { p.randFor = f }
}

func New(ttl, bucket time.Duration, opts ...Option) *Provider {
	p := &Provider{
		store:  make(map[string]cached),
		ttl:    ttl,
		bucket: bucket,
		clock:  domsvc.SystemClock(),
		randFor: func(seed int64) *rand.Rand {
			return rand.New(rand.NewSource(seed))
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Snapshot(_ context.Context, ticker string) models.SentimentSnapshot {
	key := strings.ToUpper(strings.TrimSpace(ticker))
	now := p.clock.Now()

	// Single writer per key: the lock covers both the cache check and
	// the regeneration, so concurrent readers see one snapshot.
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.store[key]; ok && now.Before(c.exp) {
		return c.snap
	}

	snap := p.generate(key, now)
	p.store[key] = cached{snap: snap, exp: now.Add(p.ttl)}
	return snap
}

func (p *Provider) seed(ticker string, now time.Time) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(ticker))
	tick := h.Sum64() & (1<<63 - 1)
	bucket := uint64(now.UnixMilli() / p.bucket.Milliseconds())
	return int64(tick ^ bucket)
}

func (p *Provider) generate(ticker string, now time.Time) models.SentimentSnapshot {
	rng := p.randFor(p.seed(ticker, now))

	overall := rng.Float64()*2 - 1
	categories := []models.CategoryScore{
		{Name: "economic", Score: clamp(overall*0.6 + (rng.Float64()*2-1)*0.4)},
		{Name: "geopolitical", Score: clamp(overall*0.4 + (rng.Float64()*2-1)*0.6)},
		{Name: "social", Score: clamp(overall*0.5 + (rng.Float64()*2-1)*0.5)},
	}
	volume := 10 + rng.Intn(40)
	negRatio := clamp01(0.2 + 0.5*rng.Float64())
	headlines := p.headlines(ticker, overall, rng)

	return models.SentimentSnapshot{
		Ticker:            ticker,
		GeneratedAt:       now.UTC(),
		OverallScore:      overall,
		Categories:        categories,
		NewsVolume24h:     volume,
		NegativeNewsRatio: negRatio,
		Headlines:         headlines,
		Summary:           summarize(ticker, overall, categories),
	}
}

var headlineTemplates = []struct {
	title  string
	source string
}{
	{"%s shares react to shifting macro outlook", "MarketWatch"},
	{"Analysts split on %s near-term prospects", "Reuters"},
	{"Institutional flows tilt around %s", "Bloomberg"},
	{"Options market prices uncertainty into %s", "Barron's"},
	{"Retail interest in %s ticks up on social feeds", "Benzinga"},
}

func (p *Provider) headlines(ticker string, overall float64, rng *rand.Rand) []models.Headline {
	out := make([]models.Headline, 0, len(headlineTemplates))
	for _, tpl := range headlineTemplates {
		out = append(out, models.Headline{
			Title:  fmt.Sprintf(tpl.title, ticker),
			Source: tpl.source,
			Score:  clamp(overall + (rng.Float64()*2-1)*0.5),
		})
	}
	return out
}

// summarize labels the overall tone and points at the weakest category.
// Ties keep the earliest category, which is why the slice order matters.
func summarize(ticker string, overall float64, categories []models.CategoryScore) string {
	tone := "neutral"
	if overall > 0.15 {
		tone = "positive"
	} else if overall < -0.15 {
		tone = "negative"
	}

	worst := categories[0]
	for _, c := range categories[1:] {
		if c.Score < worst.Score {
			worst = c
		}
	}

	return fmt.Sprintf("Overall sentiment for %s is %s (%.3f). Weakest category: %s (%.3f).",
		ticker, tone, overall, worst.Name, worst.Score)
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
