package services_test

import (
	"testing"

	"github.com/Rello/domus-sub002/internal/apperrors"
	"github.com/Rello/domus-sub002/internal/core/domain"
	"github.com/Rello/domus-sub002/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateRow_UnitRevenueChaining(t *testing.T) {
	evaluator := services.NewRuleEvaluator()

	sums := map[string]float64{
		"1000": 1000,
		"2001": 50,
		"2004": 30,
		"2006": 100,
		"2007": 20,
		"2008": 10,
		"2009": 0.25,
		"3000": 5000,
	}

	row, err := evaluator.EvaluateRow(2024, domain.UnitRevenueColumns(), sums)
	require.NoError(t, err)

	assert.Equal(t, 2024, row["year"])
	assert.Equal(t, 1000.0, row["rent"])
	assert.Equal(t, 80.0, row["hgnu"])
	assert.Equal(t, 100.0, row["zinsen"])
	assert.Equal(t, 820.0, row["gwb"])
	assert.Equal(t, 30.0, row["abschr"])
	assert.Equal(t, 197.5, row["steuer"])
	assert.Equal(t, 622.5, row["gwn"])
	assert.Equal(t, 0.1245, row["netRentab"])
}

func TestEvaluateRow_DivisionByZeroYieldsZero(t *testing.T) {
	evaluator := services.NewRuleEvaluator()

	defs := []domain.ColumnDef{
		{Key: "ratio", Rule: []domain.RuleStep{
			{Op: domain.OpDiv, Args: []domain.Arg{domain.RefArg("1000"), domain.RefArg("3000")}},
		}},
	}

	// account 3000 missing entirely, so the divisor resolves to 0
	row, err := evaluator.EvaluateRow(2024, defs, map[string]float64{"1000": 500})
	require.NoError(t, err)
	assert.Equal(t, 0.0, row["ratio"])
}

func TestEvaluateRow_MissingAccountsResolveToZero(t *testing.T) {
	evaluator := services.NewRuleEvaluator()

	row, err := evaluator.EvaluateRow(2023, domain.UnitCostColumns(), map[string]float64{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, row["saldo"])
}

func TestEvaluateRow_UnsupportedOpFails(t *testing.T) {
	evaluator := services.NewRuleEvaluator()

	defs := []domain.ColumnDef{
		{Key: "bad", Rule: []domain.RuleStep{
			{Op: domain.RuleOp("mod"), Args: []domain.Arg{domain.RefArg("1000")}},
		}},
	}

	_, err := evaluator.EvaluateRow(2024, defs, map[string]float64{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRule)
}

func TestEvaluateRow_PrevReferencesAccumulator(t *testing.T) {
	evaluator := services.NewRuleEvaluator()

	defs := []domain.ColumnDef{
		{Key: "chained", Rule: []domain.RuleStep{
			{Op: domain.OpAdd, Args: []domain.Arg{domain.RefArg("1000"), domain.RefArg("2000")}},
			{Op: domain.OpMul, Args: []domain.Arg{domain.PrevArg(), domain.RefArg("rate")}},
		}},
	}

	row, err := evaluator.EvaluateRow(2024, defs, map[string]float64{"1000": 40, "2000": 60, "rate": 0.5})
	require.NoError(t, err)
	assert.Equal(t, 50.0, row["chained"])
}

func TestEvaluateRow_ColumnReferenceBeatsAccountSum(t *testing.T) {
	evaluator := services.NewRuleEvaluator()

	// "base" exists both as a computed column and as an account sum; the
	// computed column must win.
	defs := []domain.ColumnDef{
		{Key: "base", Account: "1000"},
		{Key: "double", Rule: []domain.RuleStep{
			{Op: domain.OpAdd, Args: []domain.Arg{domain.RefArg("base"), domain.RefArg("base")}},
		}},
	}

	row, err := evaluator.EvaluateRow(2024, defs, map[string]float64{"1000": 10, "base": 99})
	require.NoError(t, err)
	assert.Equal(t, 20.0, row["double"])
}
