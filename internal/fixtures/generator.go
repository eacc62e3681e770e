package fixtures

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"sort"
	"time"

	"github.com/fourohfour/notfound-tracker/internal/models"
)

// Writer is the storage seam for seeding events.
type Writer interface {
	AppendEvent(ctx context.Context, event *models.NotFoundEvent) (int64, error)
}

// Options controls the shape of generated seed data.
type Options struct {
	// Amount is the number of events to generate.
	Amount int
	// Domains to draw from; defaults to a small local set.
	Domains []string
	// UserAgents to draw from; defaults to a browser/bot mix.
	UserAgents []string
	// Days spreads createdAt uniformly over the trailing window.
	Days int
	// Seed fixes the RNG for reproducible runs; 0 seeds from the clock.
	Seed int64
}

// DefaultDomains is the seed domain pool.
var DefaultDomains = []string{"example.com", "shop.local", "test.local"}

// DefaultUserAgents is the seed user-agent pool.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) Gecko/20100101 Firefox/124.0",
	"Googlebot/2.1 (+http://www.google.com/bot.html)",
	"curl/8.0.1",
}

var slugWords = []string{
	"product", "category", "search", "blog", "news", "sale", "clearance", "summer", "winter", "collection",
	"mens", "womens", "kids", "accessories", "shoes", "electronics", "books", "toys", "home", "garden",
}

var queryParams = map[string][]string{
	"utm_source":   {"google", "newsletter", "facebook", "direct"},
	"utm_campaign": {"spring", "summer", "autumn", "winter"},
	"ref":          {"ext", "partner", "email"},
	"q":            {"test", "abc", "shoes", "sale"},
}

// Generator writes randomized not-found events into a store. Roughly 70%
// of events land on a pre-built pool of popular (domain, path) pairs so
// the aggregated views show meaningful duplicates.
type Generator struct {
	store Writer
	opts  Options
	rng   *rand.Rand
}

// NewGenerator builds a generator, filling in option defaults.
func NewGenerator(store Writer, opts Options) *Generator {
	if opts.Amount <= 0 {
		opts.Amount = 500
	}
	if len(opts.Domains) == 0 {
		opts.Domains = DefaultDomains
	}
	if len(opts.UserAgents) == 0 {
		opts.UserAgents = DefaultUserAgents
	}
	if opts.Days <= 0 {
		opts.Days = 31
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		store: store,
		opts:  opts,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Generate writes the configured number of events and returns how many
// were persisted.
func (g *Generator) Generate(ctx context.Context) (int, error) {
	type pair struct {
		domain string
		path   string
	}

	popularCount := g.opts.Amount / 20
	if popularCount < 10 {
		popularCount = 10
	}
	if popularCount > 50 {
		popularCount = 50
	}

	seen := make(map[string]bool)
	popular := make([]pair, 0, popularCount)
	for len(popular) < popularCount {
		p := pair{
			domain: g.opts.Domains[g.rng.Intn(len(g.opts.Domains))],
			path:   g.randomPath(),
		}
		if seen[p.path] {
			continue
		}
		seen[p.path] = true
		popular = append(popular, p)
	}

	now := time.Now().UTC()
	windowStart := now.AddDate(0, 0, -g.opts.Days)

	written := 0
	for i := 0; i < g.opts.Amount; i++ {
		var domain, path string
		if g.rng.Intn(100) < 70 {
			p := popular[g.rng.Intn(len(popular))]
			domain, path = p.domain, p.path
		} else {
			domain = g.opts.Domains[g.rng.Intn(len(g.opts.Domains))]
			path = g.randomPath()
		}

		event := &models.NotFoundEvent{
			URLDomain:   domain,
			URLPath:     path,
			QueryString: g.maybeQueryString(),
			UserAgent:   g.maybeUserAgent(),
			CreatedAt:   g.randomTime(windowStart, now),
		}

		if _, err := g.store.AppendEvent(ctx, event); err != nil {
			return written, fmt.Errorf("seed event %d: %w", i, err)
		}
		written++
	}

	return written, nil
}

func (g *Generator) randomPath() string {
	segments := 1 + g.rng.Intn(4)
	path := ""
	for i := 0; i < segments; i++ {
		word := slugWords[g.rng.Intn(len(slugWords))]
		path += fmt.Sprintf("/%s-%d", word, 1+g.rng.Intn(9999))
	}
	return path
}

func (g *Generator) maybeQueryString() *string {
	if g.rng.Intn(2) == 0 {
		return nil
	}

	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys) // map order would defeat seeded reproducibility
	g.rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	values := url.Values{}
	count := 1 + g.rng.Intn(3)
	for _, k := range keys[:count] {
		options := queryParams[k]
		values.Set(k, options[g.rng.Intn(len(options))])
	}

	qs := values.Encode()
	return &qs
}

func (g *Generator) maybeUserAgent() *string {
	// Some requests carry no User-Agent at all.
	if g.rng.Intn(5) == 0 {
		return nil
	}
	ua := g.opts.UserAgents[g.rng.Intn(len(g.opts.UserAgents))]
	return &ua
}

func (g *Generator) randomTime(start, end time.Time) time.Time {
	delta := end.Unix() - start.Unix()
	if delta <= 0 {
		return end
	}
	return time.Unix(start.Unix()+g.rng.Int63n(delta), 0).UTC()
}
