// Package cascade holds the declarative side effects between settings fields.
//
// A Rule fires after its trigger field commits with the trigger value and
// forces a list of other fields to fixed values. A Constraint guards a field
// change with an expr-lang predicate over the resulting settings.
package cascade

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/krishiapp/krishi-settings/internal/domain"
	domainerrors "github.com/krishiapp/krishi-settings/internal/errors"
)

// Effect sets Field to Value.
type Effect struct {
	Field domain.Field
	Value any
}

// Rule forces Effects after Trigger commits with value When.
type Rule struct {
	Name    string
	Trigger domain.Field
	When    any
	Effects []Effect
}

// Constraint rejects setting Field to When unless Requires evaluates true
// against the settings the change would produce. Requires sees every field
// by its JSON name, e.g. "masterNotifications == true".
type Constraint struct {
	Field    domain.Field
	When     any
	Requires string
	Message  string

	program *vm.Program
}

// RuleSet is an immutable, validated collection of rules and constraints.
type RuleSet struct {
	rules       []Rule
	constraints []Constraint
}

// New validates rules and compiles constraints.
func New(rules []Rule, constraints []Constraint) (*RuleSet, error) {
	rs := &RuleSet{
		rules:       make([]Rule, 0, len(rules)),
		constraints: make([]Constraint, 0, len(constraints)),
	}

	for _, r := range rules {
		when, err := r.Trigger.Coerce(r.When)
		if err != nil {
			return nil, fmt.Errorf("rule %q trigger: %w", r.Name, err)
		}
		r.When = when

		effects := make([]Effect, 0, len(r.Effects))
		for _, e := range r.Effects {
			v, err := e.Field.Coerce(e.Value)
			if err != nil {
				return nil, fmt.Errorf("rule %q effect: %w", r.Name, err)
			}
			if e.Field == r.Trigger {
				return nil, fmt.Errorf("rule %q: effect on its own trigger %q", r.Name, e.Field)
			}
			effects = append(effects, Effect{Field: e.Field, Value: v})
		}
		r.Effects = effects
		rs.rules = append(rs.rules, r)
	}

	env := domain.DefaultUserSettings().ToMap()
	for _, c := range constraints {
		when, err := c.Field.Coerce(c.When)
		if err != nil {
			return nil, fmt.Errorf("constraint on %q: %w", c.Field, err)
		}
		c.When = when

		program, err := expr.Compile(c.Requires, expr.Env(env), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("constraint on %q: compile %q: %w", c.Field, c.Requires, err)
		}
		c.program = program
		rs.constraints = append(rs.constraints, c)
	}

	return rs, nil
}

// Empty returns a rule set with no rules or constraints.
func Empty() *RuleSet {
	return &RuleSet{}
}

// Rules returns a copy of the rules.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Triggered returns the rules fired by committed, in declaration order.
func (rs *RuleSet) Triggered(committed map[domain.Field]any) []Rule {
	var fired []Rule
	for _, r := range rs.rules {
		if v, ok := committed[r.Trigger]; ok && v == r.When {
			fired = append(fired, r)
		}
	}
	return fired
}

// Effects folds the effects of rules into one batch. Effects apply in
// declared order, so a later effect on the same field wins.
func Effects(rules []Rule) map[domain.Field]any {
	batch := make(map[domain.Field]any)
	for _, r := range rules {
		for _, e := range r.Effects {
			batch[e.Field] = e.Value
		}
	}
	return batch
}

// Check evaluates every constraint touched by changes against candidate,
// the settings the changes would produce. It returns an INVALID_STATE
// domain error for the first violated constraint.
func (rs *RuleSet) Check(candidate domain.UserSettings, changes map[domain.Field]any) error {
	var env map[string]any
	for _, c := range rs.constraints {
		v, ok := changes[c.Field]
		if !ok || v != c.When {
			continue
		}
		if env == nil {
			env = candidate.ToMap()
		}

		out, err := expr.Run(c.program, env)
		if err != nil {
			return domainerrors.Wrapf(err, domainerrors.CodeInternal, "evaluate constraint on %s", c.Field)
		}
		if allowed, _ := out.(bool); !allowed {
			return domainerrors.InvalidState(c.Message).WithDetails(map[string]string{
				string(c.Field): c.Message,
			})
		}
	}
	return nil
}
