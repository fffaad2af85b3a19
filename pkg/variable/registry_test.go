package variable

import (
	"errors"
	"testing"

	"lexcore-hq/lexcore/pkg/entity"
	"lexcore-hq/lexcore/pkg/period"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	person := entity.NewPerson("person", "persons", "Person")
	return NewRegistry([]*entity.Entity{person})
}

// TestRegistry_Register tests registration validation.
func TestRegistry_Register(t *testing.T) {
	r := testRegistry(t)

	salary := &Variable{
		Name:             "salary",
		Entity:           "person",
		ValueType:        TypeFloat,
		DefinitionPeriod: period.UnitMonth,
		Default:          0.0,
	}
	if err := r.Register(salary); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	tests := []struct {
		name string
		v    *Variable
	}{
		{"duplicate name", &Variable{Name: "salary", Entity: "person", ValueType: TypeFloat}},
		{"unknown entity", &Variable{Name: "rent", Entity: "household", ValueType: TypeFloat}},
		{"unknown value type", &Variable{Name: "rent", Entity: "person", ValueType: "decimal"}},
		{"empty name", &Variable{Entity: "person", ValueType: TypeFloat}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.v)
			var defErr *DefinitionError
			if !errors.As(err, &defErr) {
				t.Errorf("Register error = %v, want *DefinitionError", err)
			}
		})
	}
}

// TestRegistry_Get tests lookup and not-found suggestions.
func TestRegistry_Get(t *testing.T) {
	r := testRegistry(t)
	r.MustRegister(&Variable{Name: "income_tax", Entity: "person", ValueType: TypeFloat, Default: 0.0})
	r.MustRegister(&Variable{Name: "salary", Entity: "person", ValueType: TypeFloat, Default: 0.0})

	if _, err := r.Get("salary"); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	_, err := r.Get("income")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Get error = %v, want *NotFoundError", err)
	}
	if len(notFound.Suggestions) == 0 || notFound.Suggestions[0] != "income_tax" {
		t.Errorf("Suggestions = %v, want income_tax first", notFound.Suggestions)
	}
}

// TestVariable_Describe tests the discovery descriptor.
func TestVariable_Describe(t *testing.T) {
	end := period.NewInstant(2030, 12, 31)
	v := &Variable{
		Name:             "income_tax",
		Entity:           "person",
		ValueType:        TypeFloat,
		DefinitionPeriod: period.UnitMonth,
		Default:          0.0,
		Label:            "Income tax",
		End:              &end,
	}
	v.AddFormula(period.NewInstant(2015, 12, 1), func(ctx FormulaContext) (Array, error) {
		return Broadcast(0.0, ctx.Count()), nil
	})

	desc := v.Describe()
	if desc["id"] != "income_tax" || desc["value_type"] != "float" {
		t.Errorf("descriptor = %v", desc)
	}
	formulas, ok := desc["formulas"].([]string)
	if !ok || len(formulas) != 1 || formulas[0] != "2015-12-01" {
		t.Errorf("formula history = %v", desc["formulas"])
	}
	if desc["end"] != "2030-12-31" {
		t.Errorf("end = %v", desc["end"])
	}
}
