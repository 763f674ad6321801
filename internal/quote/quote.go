// Package quote provides the motivational quote shown above the board.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/existflow/taskbreeze/internal/logger"
	"github.com/existflow/taskbreeze/internal/model"
)

// DefaultURL is the upstream quote service
const DefaultURL = "https://zenquotes.io/api/random"

// Fallbacks are served whenever the upstream cannot be reached
var Fallbacks = []model.Quote{
	{Text: "The only way to do great work is to love what you do.", Author: "Steve Jobs"},
	{Text: "Done is better than perfect.", Author: "Sheryl Sandberg"},
	{Text: "The secret of getting ahead is getting started.", Author: "Mark Twain"},
}

var ErrEmptyResponse = errors.New("quote service returned no quotes")

// Source produces a quote
type Source interface {
	Quote(ctx context.Context) (model.Quote, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) (model.Quote, error)

func (f SourceFunc) Quote(ctx context.Context) (model.Quote, error) { return f(ctx) }

// Upstream fetches quotes from a zenquotes-compatible endpoint returning [{"q": ..., "a": ...}]
type Upstream struct {
	URL    string
	Client *http.Client
}

// NewUpstream creates an upstream source; an empty url uses DefaultURL
func NewUpstream(url string) *Upstream {
	if url == "" {
		url = DefaultURL
	}
	return &Upstream{URL: url, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (u *Upstream) Quote(ctx context.Context) (model.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.URL, nil)
	if err != nil {
		return model.Quote{}, err
	}
	resp, err := u.Client.Do(req)
	if err != nil {
		return model.Quote{}, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Quote{}, fmt.Errorf("failed to fetch quote: status %d", resp.StatusCode)
	}

	var data []struct {
		Q string `json:"q"`
		A string `json:"a"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return model.Quote{}, fmt.Errorf("decode quote: %w", err)
	}
	if len(data) == 0 || data[0].Q == "" {
		return model.Quote{}, ErrEmptyResponse
	}
	return model.Quote{Text: data[0].Q, Author: data[0].A}, nil
}

// Provider wraps a source and never fails
type Provider struct {
	src  Source
	pick func(n int) int
}

// NewProvider creates a provider over src
func NewProvider(src Source) *Provider {
	return &Provider{src: src, pick: rand.Intn}
}

// Get returns a quote from the source, or a random fallback when it fails
func (p *Provider) Get(ctx context.Context) model.Quote {
	if p.src != nil {
		q, err := p.src.Quote(ctx)
		if err == nil {
			return q
		}
		logger.Debug("Quote source failed, using fallback", logger.Err(err))
	}
	return Fallbacks[p.pick(len(Fallbacks))]
}

// Quote implements Source; it never returns an error
func (p *Provider) Quote(ctx context.Context) (model.Quote, error) {
	return p.Get(ctx), nil
}

// Session keeps one quote for the lifetime of a session
type Session struct {
	provider *Provider

	mu     sync.Mutex
	cached *model.Quote
}

// NewSession creates a session cache over p
func NewSession(p *Provider) *Session {
	return &Session{provider: p}
}

// Get returns the cached quote, fetching it on first use
func (s *Session) Get(ctx context.Context) model.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil {
		q := s.provider.Get(ctx)
		s.cached = &q
	}
	return *s.cached
}

// Refresh replaces the cached quote with a new one
func (s *Session) Refresh(ctx context.Context) model.Quote {
	q := s.provider.Get(ctx)
	s.mu.Lock()
	s.cached = &q
	s.mu.Unlock()
	return q
}
