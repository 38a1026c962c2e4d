package generators

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/ghanse/dlt-workshop/internal/domain"
)

// TextContext is the shared per-worker state for text providers. The fake
// data handle is expensive to build, so it is initialized at most once per
// worker, on first use, and read-only afterwards.
type TextContext struct {
	seed int64
	once sync.Once
	f    *gofakeit.Faker
}

func NewTextContext(seed int64) *TextContext {
	return &TextContext{seed: seed}
}

func (c *TextContext) Faker() *gofakeit.Faker {
	c.once.Do(func() {
		c.f = gofakeit.New(c.seed)
	})
	return c.f
}

// Provider generates one fake text value using the worker's context.
type Provider func(ctx *TextContext) string

var providers = map[string]Provider{
	"company": func(ctx *TextContext) string { return ctx.Faker().Company() },
	"address": func(ctx *TextContext) string {
		addr := ctx.Faker().Address()
		return strings.ReplaceAll(addr.Address, "\n", " ")
	},
	"phone": func(ctx *TextContext) string { return ctx.Faker().PhoneFormatted() },
	"sentence": func(ctx *TextContext) string {
		f := ctx.Faker()
		return f.Sentence(f.Number(4, 10))
	},
}

// ProviderNames lists the registered text providers, for error messages and
// spec validation output.
func ProviderNames() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	return names
}

// TextRule delegates string generation to a named provider.
type TextRule struct{}

func (g *TextRule) Validate(col domain.ColumnSpec) error {
	_, err := lookupProvider(col.Rule.Params)
	return err
}

func (g *TextRule) Generate(rng *rand.Rand, ctx RuleContext) (interface{}, error) {
	provider, err := lookupProvider(ctx.Params)
	if err != nil {
		return nil, err
	}
	if ctx.Text == nil {
		return nil, errors.New("text rule requires a worker text context")
	}
	return provider(ctx.Text), nil
}

func lookupProvider(params map[string]interface{}) (Provider, error) {
	if params == nil {
		return nil, errors.New("text requires 'provider' param")
	}
	nameRaw, ok := params["provider"]
	if !ok {
		return nil, errors.New("text requires 'provider' param")
	}
	name, ok := nameRaw.(string)
	if !ok {
		return nil, errors.New("'provider' must be a string")
	}
	provider, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown text provider: %s", name)
	}
	return provider, nil
}
