package registry

import (
	"fmt"
	"sync"

	"github.com/ghanse/dlt-workshop/internal/domain"
	"github.com/ghanse/dlt-workshop/internal/generators"
)

type RuleRegistry struct {
	mu    sync.RWMutex
	rules map[string]generators.Rule
}

func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{rules: make(map[string]generators.Rule)}
}

func (r *RuleRegistry) Register(name string, rule generators.Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[name] = rule
}

func (r *RuleRegistry) Get(name string) (generators.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[name]
	if !ok {
		return nil, fmt.Errorf("rule not found: %s", name)
	}
	return rule, nil
}

func (r *RuleRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	return names
}

func DefaultRuleRegistry() *RuleRegistry {
	r := NewRuleRegistry()
	r.Register(domain.RuleChoice, &generators.ChoiceRule{})
	r.Register(domain.RuleRangeInt, &generators.RangeIntRule{})
	r.Register(domain.RuleRangeDecimal, &generators.RangeDecimalRule{})
	r.Register(domain.RuleRangeTimestamp, &generators.RangeTimestampRule{})
	r.Register(domain.RuleText, &generators.TextRule{})
	r.Register(domain.RuleExpr, &generators.ExprRule{})
	return r
}
