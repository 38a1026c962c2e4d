package generators

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/ghanse/dlt-workshop/internal/domain"
)

// ExprRule computes a value from columns already generated in the same row.
// Expressions read the pre-null-injection base value of their source, so an
// email can exist for a row whose display name was nulled. That matches the
// upstream datasets and is intentional.
type ExprRule struct{}

const defaultEmailDomain = "example.com"

var nonAlnum = regexp.MustCompile(`[^0-9A-Za-z]`)

func (g *ExprRule) Validate(col domain.ColumnSpec) error {
	_, _, err := exprParams(col.Rule.Params)
	return err
}

func (g *ExprRule) Generate(rng *rand.Rand, ctx RuleContext) (interface{}, error) {
	name, source, err := exprParams(ctx.Params)
	if err != nil {
		return nil, err
	}

	base, ok := ctx.BaseValues[source]
	if !ok {
		return nil, fmt.Errorf("expression source column %q has no value yet", source)
	}

	switch name {
	case "email":
		text, ok := base.(string)
		if !ok {
			return nil, fmt.Errorf("email expression requires a string source, got %T", base)
		}
		emailDomain := defaultEmailDomain
		if d, ok := ctx.Params["domain"].(string); ok && d != "" {
			emailDomain = d
		}
		return emailFromName(text, emailDomain), nil
	default:
		return nil, fmt.Errorf("unknown expression: %s", name)
	}
}

// emailFromName mirrors the SQL expression the datasets were defined with:
// non-alphanumerics become spaces, each word is initcapped, spaces are
// stripped, and the domain is appended.
func emailFromName(name, emailDomain string) string {
	cleaned := nonAlnum.ReplaceAllString(name, " ")
	var b strings.Builder
	for _, word := range strings.Fields(cleaned) {
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(strings.ToLower(word[1:]))
	}
	b.WriteString("@")
	b.WriteString(emailDomain)
	return b.String()
}

func exprParams(params map[string]interface{}) (string, string, error) {
	if params == nil {
		return "", "", errors.New("expr requires 'name' and 'source' params")
	}
	nameRaw, hasName := params["name"]
	sourceRaw, hasSource := params["source"]
	if !hasName || !hasSource {
		return "", "", errors.New("expr requires 'name' and 'source' params")
	}
	name, ok := nameRaw.(string)
	if !ok {
		return "", "", errors.New("'name' must be a string")
	}
	source, ok := sourceRaw.(string)
	if !ok {
		return "", "", errors.New("'source' must be a string")
	}
	if name != "email" {
		return "", "", fmt.Errorf("unknown expression: %s", name)
	}
	return name, source, nil
}
