package parameter

import (
	"errors"
	"testing"

	"lexcore-hq/lexcore/pkg/period"
)

func testTree(t *testing.T) *Node {
	t.Helper()

	rate := NewLeaf("Flat income tax rate")
	rate.Set(period.NewInstant(2015, 12, 1), 0.08)
	rate.Set(period.NewInstant(2016, 12, 1), 0.10)

	scale := NewScale("Social security contribution")
	scale.Set(period.NewInstant(2017, 1, 1), Brackets{
		{Threshold: 0, Rate: 0.03},
		{Threshold: 12000, Rate: 0.10},
		{Threshold: 48000, Rate: 0.15},
	})

	taxes := NewNode("Tax parameters")
	taxes.Add("income_tax_rate", rate)
	taxes.Add("social_security_contribution", scale)

	root := NewNode("")
	root.Add("taxes", taxes)
	return root
}

// TestNode_Value tests effective-dated leaf resolution.
func TestNode_Value(t *testing.T) {
	root := testTree(t)

	tests := []struct {
		name string
		at   period.Instant
		want float64
	}{
		{"first version in force", period.NewInstant(2016, 1, 1), 0.08},
		{"exactly on effective date", period.NewInstant(2016, 12, 1), 0.10},
		{"latest version", period.NewInstant(2020, 6, 15), 0.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := root.Value("taxes.income_tax_rate", tt.at)
			if err != nil {
				t.Fatalf("Value returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Value = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestNode_Value_NotFound tests resolution failures: missing paths, values
// requested before the first effective date, and kind mismatches.
func TestNode_Value_NotFound(t *testing.T) {
	root := testTree(t)

	tests := []struct {
		name string
		path string
		at   period.Instant
	}{
		{"unknown path", "taxes.wealth_tax_rate", period.NewInstant(2020, 1, 1)},
		{"unknown subtree", "benefits.basic_income", period.NewInstant(2020, 1, 1)},
		{"before first effective date", "taxes.income_tax_rate", period.NewInstant(2010, 1, 1)},
		{"path through a leaf", "taxes.income_tax_rate.extra", period.NewInstant(2020, 1, 1)},
		{"scale resolved as value", "taxes.social_security_contribution", period.NewInstant(2020, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := root.Value(tt.path, tt.at)
			var notFound *NotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("Value error = %v, want *NotFoundError", err)
			}
		})
	}
}

// TestBrackets_RateFor tests bracket rate selection: the rate of the highest
// threshold at or below the amount.
func TestBrackets_RateFor(t *testing.T) {
	root := testTree(t)
	brackets, err := root.ScaleAt("taxes.social_security_contribution", period.NewInstant(2017, 1, 1))
	if err != nil {
		t.Fatalf("ScaleAt returned error: %v", err)
	}

	tests := []struct {
		amount float64
		want   float64
	}{
		{0, 0.03},
		{11999, 0.03},
		{12000, 0.10},
		{20000, 0.10},
		{48000, 0.15},
		{1e6, 0.15},
	}

	for _, tt := range tests {
		if got := brackets.RateFor(tt.amount); got != tt.want {
			t.Errorf("RateFor(%v) = %v, want %v", tt.amount, got, tt.want)
		}
	}

	if _, err := root.ScaleAt("taxes.social_security_contribution", period.NewInstant(2016, 1, 1)); err == nil {
		t.Error("ScaleAt before first effective date should fail")
	}
}

// TestBrackets_MarginalTax tests the piecewise total.
func TestBrackets_MarginalTax(t *testing.T) {
	brackets := Brackets{
		{Threshold: 0, Rate: 0.0},
		{Threshold: 10000, Rate: 0.10},
		{Threshold: 50000, Rate: 0.30},
	}

	tests := []struct {
		amount float64
		want   float64
	}{
		{5000, 0},
		{10000, 0},
		{20000, 1000},
		{50000, 4000},
		{60000, 7000},
	}

	for _, tt := range tests {
		if got := brackets.MarginalTax(tt.amount); got != tt.want {
			t.Errorf("MarginalTax(%v) = %v, want %v", tt.amount, got, tt.want)
		}
	}
}

// TestScale_Versioning tests that scale versions resolve by effective date
// and brackets are sorted ascending regardless of declaration order.
func TestScale_Versioning(t *testing.T) {
	scale := NewScale("test")
	scale.Set(period.NewInstant(2015, 1, 1), Brackets{
		{Threshold: 10000, Rate: 0.05},
		{Threshold: 0, Rate: 0.01},
	})
	scale.Set(period.NewInstant(2020, 1, 1), Brackets{
		{Threshold: 0, Rate: 0.02},
	})

	early, ok := scale.At(period.NewInstant(2016, 1, 1))
	if !ok {
		t.Fatal("no brackets in force in 2016")
	}
	if early[0].Threshold != 0 || early[1].Threshold != 10000 {
		t.Errorf("brackets not sorted ascending: %v", early)
	}

	late, ok := scale.At(period.NewInstant(2021, 1, 1))
	if !ok {
		t.Fatal("no brackets in force in 2021")
	}
	if len(late) != 1 || late[0].Rate != 0.02 {
		t.Errorf("latest version not selected: %v", late)
	}
}
