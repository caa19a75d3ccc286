package authz

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	userdomain "reactiquiz/backend/internal/user/domain"
)

const policyQuery = "data.reactiquiz.admin.allow"

// Default Rego policy: admin-only actions require the admin flag; everything
// else is decided by the route's own ownership checks, not here.
const defaultRegoPolicy = `package reactiquiz.admin

default allow = false

allow if {
	input.user.is_admin
}
`

// Evaluator decides whether a user may perform privileged actions. Decisions
// are expressed as Rego so the rules can evolve without touching handlers.
type Evaluator struct {
	compiler *ast.Compiler
}

// NewEvaluator compiles the built-in admin policy. It fails only if the
// policy itself does not compile, which indicates a build-time defect.
func NewEvaluator() (*Evaluator, error) {
	compiler, err := ast.CompileModules(map[string]string{"admin.rego": defaultRegoPolicy})
	if err != nil {
		return nil, fmt.Errorf("compile admin policy: %w", err)
	}
	return &Evaluator{compiler: compiler}, nil
}

// Allow evaluates whether user may perform action on resource. A nil user is
// always denied.
func (e *Evaluator) Allow(ctx context.Context, user *userdomain.User, action, resource string) (bool, error) {
	input := map[string]interface{}{
		"user": map[string]interface{}{
			"id":       "",
			"is_admin": false,
		},
		"action":   action,
		"resource": resource,
	}
	if user != nil {
		input["user"] = map[string]interface{}{
			"id":       user.ID,
			"is_admin": user.IsAdmin,
		}
	}

	q := rego.New(
		rego.Query(policyQuery),
		rego.Compiler(e.compiler),
		rego.Input(input),
	)
	rs, err := q.Eval(ctx)
	if err != nil {
		return false, fmt.Errorf("eval admin policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, nil
	}
	allowed, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, nil
	}
	return allowed, nil
}

// HealthCheck verifies the in-process Rego engine can evaluate the compiled
// policy. Returns nil on success.
func (e *Evaluator) HealthCheck(ctx context.Context) error {
	_, err := e.Allow(ctx, nil, "healthz", "healthz")
	return err
}
