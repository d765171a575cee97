// Package filter applies caller-supplied CEL expressions to scored candidates.
//
// Expressions see a single variable, candidate, with the fields:
//
//	id, name                     string
//	skills, missing, matched     list(string)
//	skill_years                  map(string, double)
//	final, semantic, overlap     double
//	experience, lexical, hybrid  double
//	seniority                    string
//	risk_level                   string (empty unless risk was assessed)
//	risk                         double
//
// Example: candidate.final > 0.5 && "go" in candidate.skills
package filter

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/jonathan/candidate-ranker/internal/types"
)

var (
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func env() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("candidate", cel.MapType(cel.StringType, cel.DynType)),
		)
	})
	return celEnv, celEnvErr
}

// Filter is a compiled candidate predicate. It is safe for concurrent use.
type Filter struct {
	expr string
	prg  cel.Program
}

// Compile parses and type-checks an expression. An empty expression yields a nil Filter,
// which accepts every candidate.
func Compile(expr string) (*Filter, error) {
	if expr == "" {
		return nil, nil
	}

	e, err := env()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := e.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, &types.InputError{Field: "filter", Message: fmt.Sprintf("compile error: %v", issues.Err())}
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, &types.InputError{
			Field:   "filter",
			Message: fmt.Sprintf("expression must return bool, got %s", out),
		}
	}

	prg, err := e.Program(ast)
	if err != nil {
		return nil, &types.InputError{Field: "filter", Message: fmt.Sprintf("program error: %v", err)}
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// String returns the source expression
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}

// Match evaluates the filter against a scored candidate
func (f *Filter) Match(rc *types.RankedCandidate) (bool, error) {
	if f == nil {
		return true, nil
	}

	out, _, err := f.prg.Eval(map[string]any{"candidate": Input(rc)})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter %q: %w", f.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter %q must return bool, got %T", f.expr, out.Value())
	}
	return result, nil
}

// Input builds the candidate variable for a scored candidate
func Input(rc *types.RankedCandidate) map[string]any {
	b := rc.Breakdown

	missing := make([]string, len(b.MissingSkills))
	for i, m := range b.MissingSkills {
		missing[i] = m.Skill
	}
	years := make(map[string]float64, len(rc.Candidate.SkillYears))
	for k, v := range rc.Candidate.SkillYears {
		years[k] = v
	}

	in := map[string]any{
		"id":          rc.Candidate.ID,
		"name":        rc.Candidate.Name,
		"skills":      nonNil(rc.Candidate.Skills),
		"matched":     nonNil(b.MatchedSkills),
		"missing":     missing,
		"skill_years": years,
		"final":       b.Final,
		"semantic":    b.Semantic,
		"overlap":     b.SkillOverlap,
		"experience":  b.ExperienceMatch,
		"lexical":     b.Retrieval.LexicalNormalized,
		"hybrid":      b.Retrieval.Hybrid,
		"seniority":   b.Seniority.Level,
		"risk_level":  "",
		"risk":        0.0,
	}
	if rc.Risk != nil {
		in["risk_level"] = string(rc.Risk.Level)
		in["risk"] = rc.Risk.Overall
	}
	return in
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
