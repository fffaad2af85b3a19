package countrytemplate

import (
	"fmt"

	"lexcore-hq/lexcore/pkg/period"
	"lexcore-hq/lexcore/pkg/variable"
)

func registerVariables(registry *variable.Registry) {
	registry.MustRegister(salary())
	registry.MustRegister(basicIncome())
	registry.MustRegister(incomeTax())
	registry.MustRegister(socialSecurityContribution())
	registry.MustRegister(totalTaxes())
	registry.MustRegister(disposableIncome())
	registry.MustRegister(rent())
	registry.MustRegister(housingAllowance())
}

// salary is a pure input: no formula, supplied by the situation.
func salary() *variable.Variable {
	return &variable.Variable{
		Name:             "salary",
		Entity:           "person",
		ValueType:        variable.TypeFloat,
		DefinitionPeriod: period.UnitMonth,
		Default:          0.0,
		Label:            "Salary earned over a month",
	}
}

func basicIncome() *variable.Variable {
	v := &variable.Variable{
		Name:             "basic_income",
		Entity:           "person",
		ValueType:        variable.TypeFloat,
		DefinitionPeriod: period.UnitMonth,
		Default:          0.0,
		Label:            "Universal basic income paid monthly",
		Reference:        "https://law.gov.example/basic-income",
	}
	// Introduced at a flat 500 in December 2015; indexed through the
	// parameter tree from December 2016.
	v.AddFormula(period.NewInstant(2015, 12, 1), func(ctx variable.FormulaContext) (variable.Array, error) {
		return variable.Broadcast(500.0, ctx.Count()), nil
	})
	v.AddFormula(period.NewInstant(2016, 12, 1), func(ctx variable.FormulaContext) (variable.Array, error) {
		amount, err := floatParameter(ctx, "benefits.basic_income")
		if err != nil {
			return nil, err
		}
		return variable.Broadcast(amount, ctx.Count()), nil
	})
	return v
}

func incomeTax() *variable.Variable {
	v := &variable.Variable{
		Name:             "income_tax",
		Entity:           "person",
		ValueType:        variable.TypeFloat,
		DefinitionPeriod: period.UnitMonth,
		Default:          0.0,
		Label:            "Income tax withheld from the monthly salary",
		Reference:        "https://law.gov.example/income-tax",
	}
	v.AddFormula(period.NewInstant(2015, 1, 1), func(ctx variable.FormulaContext) (variable.Array, error) {
		salaries, err := ctx.Compute("salary", ctx.Period())
		if err != nil {
			return nil, err
		}
		rate, err := floatParameter(ctx, "taxes.income_tax_rate")
		if err != nil {
			return nil, err
		}
		out := make(variable.Array, len(salaries))
		for i, s := range variable.Floats(salaries) {
			out[i] = s * rate
		}
		return out, nil
	})
	return v
}

func socialSecurityContribution() *variable.Variable {
	v := &variable.Variable{
		Name:             "social_security_contribution",
		Entity:           "person",
		ValueType:        variable.TypeFloat,
		DefinitionPeriod: period.UnitMonth,
		Default:          0.0,
		Label:            "Social security contribution on the monthly salary",
	}
	v.AddFormula(period.NewInstant(2017, 1, 1), func(ctx variable.FormulaContext) (variable.Array, error) {
		salaries, err := ctx.Compute("salary", ctx.Period())
		if err != nil {
			return nil, err
		}
		scale, err := ctx.Scale("taxes.social_security_contribution")
		if err != nil {
			return nil, err
		}
		out := make(variable.Array, len(salaries))
		for i, s := range variable.Floats(salaries) {
			out[i] = s * scale.RateFor(s)
		}
		return out, nil
	})
	return v
}

func totalTaxes() *variable.Variable {
	v := &variable.Variable{
		Name:             "total_taxes",
		Entity:           "person",
		ValueType:        variable.TypeFloat,
		DefinitionPeriod: period.UnitMonth,
		Default:          0.0,
		Label:            "Sum of the taxes paid by a person over a month",
	}
	v.AddFormula(period.NewInstant(2017, 1, 1), func(ctx variable.FormulaContext) (variable.Array, error) {
		tax, err := ctx.Compute("income_tax", ctx.Period())
		if err != nil {
			return nil, err
		}
		contribution, err := ctx.Compute("social_security_contribution", ctx.Period())
		if err != nil {
			return nil, err
		}
		out := make(variable.Array, len(tax))
		contributions := variable.Floats(contribution)
		for i, t := range variable.Floats(tax) {
			out[i] = t + contributions[i]
		}
		return out, nil
	})
	return v
}

func disposableIncome() *variable.Variable {
	v := &variable.Variable{
		Name:             "disposable_income",
		Entity:           "person",
		ValueType:        variable.TypeFloat,
		DefinitionPeriod: period.UnitMonth,
		Default:          0.0,
		Label:            "Income available after taxes and benefits",
	}
	v.AddFormula(period.NewInstant(2017, 1, 1), func(ctx variable.FormulaContext) (variable.Array, error) {
		salaries, err := ctx.Compute("salary", ctx.Period())
		if err != nil {
			return nil, err
		}
		basic, err := ctx.Compute("basic_income", ctx.Period())
		if err != nil {
			return nil, err
		}
		taxes, err := ctx.Compute("total_taxes", ctx.Period())
		if err != nil {
			return nil, err
		}
		out := make(variable.Array, len(salaries))
		basics := variable.Floats(basic)
		totals := variable.Floats(taxes)
		for i, s := range variable.Floats(salaries) {
			out[i] = s + basics[i] - totals[i]
		}
		return out, nil
	})
	return v
}

// rent is a household-level input.
func rent() *variable.Variable {
	return &variable.Variable{
		Name:             "rent",
		Entity:           "household",
		ValueType:        variable.TypeFloat,
		DefinitionPeriod: period.UnitMonth,
		Default:          0.0,
		Label:            "Rent paid by the household over a month",
	}
}

func housingAllowance() *variable.Variable {
	v := &variable.Variable{
		Name:             "housing_allowance",
		Entity:           "household",
		ValueType:        variable.TypeFloat,
		DefinitionPeriod: period.UnitMonth,
		Default:          0.0,
		Label:            "Housing allowance refunding part of the rent",
		Reference:        "https://law.gov.example/housing-allowance",
	}
	v.AddFormula(period.NewInstant(2010, 1, 1), func(ctx variable.FormulaContext) (variable.Array, error) {
		rents, err := ctx.Compute("rent", ctx.Period())
		if err != nil {
			return nil, err
		}
		rate, err := floatParameter(ctx, "benefits.housing_allowance")
		if err != nil {
			return nil, err
		}
		out := make(variable.Array, len(rents))
		for i, r := range variable.Floats(rents) {
			out[i] = r * rate
		}
		return out, nil
	})
	return v
}

// floatParameter resolves a scalar parameter as a float. YAML integers
// arrive as ints, so both shapes are accepted.
func floatParameter(ctx variable.FormulaContext, path string) (float64, error) {
	value, err := ctx.Parameter(path)
	if err != nil {
		return 0, err
	}
	switch n := value.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("parameter %s is not numeric (%T)", path, value)
	}
}
