package checks

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
)

type celEnv struct {
	env *cel.Env
}

func newEnv() (*celEnv, error) {
	env, err := cel.NewEnv(
		cel.Variable("project", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("page", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("checks: create CEL environment: %w", err)
	}
	return &celEnv{env: env}, nil
}

// condition is a compiled boolean CEL expression. A nil condition always holds.
type condition cel.Program

func (e *celEnv) compile(expr string) (condition, error) {
	if expr == "" {
		return nil, nil
	}
	ast, iss := e.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, iss.Err()
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, err
	}
	return prg, nil
}

func eval(ctx context.Context, c condition, project, page map[string]any) (bool, error) {
	if c == nil {
		return true, nil
	}
	if page == nil {
		page = map[string]any{}
	}
	out, _, err := cel.Program(c).ContextEval(ctx, map[string]any{
		"project": project,
		"page":    page,
	})
	if err != nil {
		return false, err
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("condition returned %s, want bool", out.Type().TypeName())
	}
	return b, nil
}
