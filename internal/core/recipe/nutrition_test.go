package recipe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateDefaultGrams(t *testing.T) {
	tests := []struct {
		name string
		want float64
	}{
		{"salt", 3},
		{"olive oil", 12},
		{"garlic", 10},
		{"eggs", 50},
		{"onion", 80},
		{"rice", 75},
		{"chicken breast", 140},
		{"milk", 120},
		{"kale", 60},
		{"", 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateDefaultGrams(tt.name))
		})
	}
}

func TestParseAmountToGrams(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"200g chicken", 200, true},
		{"2 tbsp olive oil", 30, true},
		{"1.5 kg beef", 1500, true},
		{"1 Cup rice", 240, true},
		{"two eggs", 0, false},
		{"0 g salt", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseAmountToGrams(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEstimatePer100FromName(t *testing.T) {
	assert.Equal(t, Macros{165, 31, 0, 3.6}, EstimatePer100FromName("Chicken thigh"))
	assert.Equal(t, Macros{884, 0, 0, 100}, EstimatePer100FromName("olive oil"))
	assert.Equal(t, defaultPer100, EstimatePer100FromName("kale"))
}

func TestFillIngredientMacrosIfMissing(t *testing.T) {
	filled := FillIngredientMacrosIfMissing(Ingredient{ItemName: "chicken", Grams: 200})
	assert.InDelta(t, 330, filled.Calories, 0.001)
	assert.InDelta(t, 62, filled.ProteinG, 0.001)
	assert.InDelta(t, 0, filled.CarbsG, 0.001)
	assert.InDelta(t, 7.2, filled.FatG, 0.001)

	assert.Equal(t, filled, FillIngredientMacrosIfMissing(filled), "idempotent")

	provided := Ingredient{ItemName: "chicken", Grams: 200, ProteinG: 10}
	assert.Equal(t, provided, FillIngredientMacrosIfMissing(provided))

	noGrams := FillIngredientMacrosIfMissing(Ingredient{ItemName: "egg"})
	assert.Equal(t, 50.0, noGrams.Grams)
	assert.Greater(t, noGrams.Calories, 0.0)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, round2(1.005000001))
	assert.Equal(t, 164.25, round2(164.25))
	assert.Equal(t, 0.0, round2(math.NaN()))
}
