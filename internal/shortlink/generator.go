// Package shortlink derives opaque short codes for recipes and resolves them
// back to recipe paths.
package shortlink

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sqids/sqids-go"

	"github.com/pageza/foodgram/backend/internal/apperrors"
)

// DefaultMaxAttempts bounds Assign when no option overrides it.
const DefaultMaxAttempts = 5

// ErrCodeTaken is returned by an Assign callback when the code collided with
// an existing one and a fresh code should be tried.
var ErrCodeTaken = errors.New("short code already taken")

type Clock func() time.Time

type Option func(*Generator)

func WithClock(clock Clock) Option {
	return func(g *Generator) {
		g.now = clock
	}
}

func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// Generator encodes [timestamp_ms, author_id, cooking_time] with Sqids. It is
// safe for concurrent use; every call observes a timestamp strictly greater
// than the previous call's.
type Generator struct {
	sqids       *sqids.Sqids
	now         Clock
	maxAttempts int

	mu   sync.Mutex
	last uint64
}

func NewGenerator(opts ...Option) (*Generator, error) {
	s, err := sqids.New()
	if err != nil {
		return nil, errors.Wrap(err, "init sqids")
	}
	g := &Generator{
		sqids:       s,
		now:         time.Now,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Generator) MaxAttempts() int {
	return g.maxAttempts
}

func (g *Generator) Generate(authorID uint64, cookingTime int) (string, error) {
	if cookingTime < 0 {
		return "", errors.Errorf("negative cooking time %d", cookingTime)
	}
	code, err := g.sqids.Encode([]uint64{g.timestamp(), authorID, uint64(cookingTime)})
	if err != nil {
		return "", errors.Wrap(err, "encode short code")
	}
	return code, nil
}

func (g *Generator) timestamp() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := uint64(0)
	if ms := g.now().UnixMilli(); ms > 0 {
		ts = uint64(ms)
	}
	if ts <= g.last {
		ts = g.last + 1
	}
	g.last = ts
	return ts
}

// Assign generates codes and hands each to try until one is accepted. try
// returns ErrCodeTaken (possibly wrapped) to request another attempt; any
// other error stops immediately. After MaxAttempts collisions it fails with
// ShortLinkGenerationFailed.
func (g *Generator) Assign(authorID uint64, cookingTime int, try func(code string) error) (string, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		code, err := g.Generate(authorID, cookingTime)
		if err != nil {
			return "", err
		}
		err = try(code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, ErrCodeTaken) {
			return "", err
		}
	}
	return "", &apperrors.Error{
		Kind:    apperrors.KindInternal,
		Code:    apperrors.CodeShortLinkGenerationFailed,
		Message: fmt.Sprintf("no free short code after %d attempts", g.maxAttempts),
	}
}

// Decode reverses Generate. It returns nil for codes this generator could
// not have produced.
func (g *Generator) Decode(code string) []uint64 {
	numbers := g.sqids.Decode(code)
	if len(numbers) != 3 {
		return nil
	}
	if again, err := g.sqids.Encode(numbers); err != nil || again != code {
		return nil
	}
	return numbers
}
