package services

import (
	"fmt"
	"math"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
)

const defaultRulePrecision = 2

// RuleEvaluator computes the derived columns of a statistics row from raw
// per-account sums. Columns evaluate strictly left to right, so a rule may
// reference any column computed before it.
type RuleEvaluator struct{}

// NewRuleEvaluator creates a new RuleEvaluator.
func NewRuleEvaluator() *RuleEvaluator {
	return &RuleEvaluator{}
}

// EvaluateRow evaluates every column definition for one year against the
// per-account sums. Missing accounts contribute 0. Each rule folds its
// steps through an accumulator seeded by the first step's result.
func (e *RuleEvaluator) EvaluateRow(year int, defs []domain.ColumnDef, sums map[string]float64) (map[string]any, error) {
	row := make(map[string]any, len(defs))
	computed := make(map[string]float64, len(defs))

	for _, def := range defs {
		switch {
		case def.Year:
			row[def.Key] = year
			computed[def.Key] = float64(year)
		case def.Account != "":
			value := roundTo(sums[def.Account], precisionOf(def))
			row[def.Key] = value
			computed[def.Key] = value
		case len(def.Rule) > 0:
			value, err := e.evaluateRule(def.Rule, computed, sums)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", def.Key, err)
			}
			value = roundTo(value, precisionOf(def))
			row[def.Key] = value
			computed[def.Key] = value
		default:
			return nil, fmt.Errorf("%w: column %q declares neither year, account, nor rule", apperrors.ErrInvalidRule, def.Key)
		}
	}

	return row, nil
}

// evaluateRule folds the steps of a rule. The accumulator starts at 0 and
// carries each step's result into the next via the "prev" reference.
func (e *RuleEvaluator) evaluateRule(steps []domain.RuleStep, computed map[string]float64, sums map[string]float64) (float64, error) {
	var prev float64

	for _, step := range steps {
		args := make([]float64, len(step.Args))
		for i, arg := range step.Args {
			args[i] = resolveArg(arg, prev, computed, sums)
		}

		var result float64
		switch step.Op {
		case domain.OpAdd:
			for _, v := range args {
				result += v
			}
		case domain.OpSub:
			if len(args) == 0 {
				return 0, fmt.Errorf("%w: sub requires at least one argument", apperrors.ErrInvalidRule)
			}
			result = args[0]
			for _, v := range args[1:] {
				result -= v
			}
		case domain.OpMul:
			result = 1
			for _, v := range args {
				result *= v
			}
		case domain.OpDiv:
			if len(args) < 2 {
				return 0, fmt.Errorf("%w: div requires two arguments", apperrors.ErrInvalidRule)
			}
			if args[1] == 0 {
				result = 0
			} else {
				result = args[0] / args[1]
			}
		default:
			return 0, fmt.Errorf("%w: unsupported operation %q", apperrors.ErrInvalidRule, step.Op)
		}

		prev = result
	}

	return prev, nil
}

// resolveArg applies the operand precedence: the running accumulator first,
// then an already-computed column, then an account sum. Unknown references
// resolve to 0 so sparse years still evaluate.
func resolveArg(arg domain.Arg, prev float64, computed map[string]float64, sums map[string]float64) float64 {
	if arg.Prev {
		return prev
	}
	if value, ok := computed[arg.Name]; ok {
		return value
	}
	return sums[arg.Name]
}

func precisionOf(def domain.ColumnDef) int {
	if def.Precision > 0 {
		return def.Precision
	}
	return defaultRulePrecision
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow10(places)
	return math.Round(value*factor) / factor
}
