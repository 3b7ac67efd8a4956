// Package policy decides signer eligibility by evaluating a rego policy.
// The role-equals-slot-name convention lives in the policy text, so a
// deployment can swap in a real ACL without touching the issuance path.
package policy

import (
	"context"
	_ "embed"
	"errors"

	"docflow/internal/domain"

	"github.com/open-policy-agent/opa/rego"
)

const defaultQuery = "data.docflow.signing.allow"

//go:embed signing.rego
var defaultPolicy string

type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine compiles the embedded default eligibility policy.
func NewEngine(ctx context.Context) (*Engine, error) {
	return newEngine(ctx, rego.Module("signing.rego", defaultPolicy))
}

// NewEngineFromDir compiles policies from an operator-provided directory,
// replacing the embedded convention wholesale.
func NewEngineFromDir(ctx context.Context, dir string) (*Engine, error) {
	if dir == "" {
		return nil, errors.New("policy dir is required")
	}
	return newEngine(ctx, rego.Load([]string{dir}, nil))
}

func newEngine(ctx context.Context, source func(*rego.Rego)) (*Engine, error) {
	prepared, err := rego.New(
		rego.Query(defaultQuery),
		rego.StrictBuiltinErrors(true),
		source,
	).PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}
	return &Engine{query: prepared}, nil
}

func (e *Engine) Eligible(ctx context.Context, input domain.EligibilityInput) (bool, error) {
	if e == nil {
		return false, errors.New("policy engine is nil")
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, nil
	}
	allowed, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return false, errors.New("policy result is not a boolean")
	}
	return allowed, nil
}
