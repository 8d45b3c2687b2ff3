package recipe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGuaranteedFallbackRecipe(t *testing.T) {
	got := BuildGuaranteedFallbackRecipe([]string{"chicken", "rice"}, Filters{})

	assert.Equal(t, "Chicken Rice Bowl", got.Name)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, 140.0, got.Ingredients[0].Grams)
	assert.Equal(t, 75.0, got.Ingredients[1].Grams)
	assert.Equal(t, defaultServings, got.Servings)
	assert.InDelta(t, 164.25, got.Calories, 0.01)
	assert.Equal(t, fallbackInstructions, got.Instructions)
	assert.Equal(t, 10, got.PrepTimeMin)
	assert.Equal(t, 18, got.CookTimeMin)
	assert.Equal(t, fallbackAIReason, got.AIReason)
	assertMacroInvariant(t, got)
}

func TestBuildGuaranteedFallbackRecipeCapsPantry(t *testing.T) {
	pantry := make([]string, 12)
	for i := range pantry {
		pantry[i] = fmt.Sprintf("item %d", i)
	}

	got := BuildGuaranteedFallbackRecipe(pantry, Filters{Servings: 4})
	require.Len(t, got.Ingredients, fallbackMaxPantry)
	assert.Equal(t, 4, got.Servings)
	for i, ingredient := range got.Ingredients {
		assert.Equal(t, i, ingredient.SortOrder)
		assert.GreaterOrEqual(t, ingredient.Grams, 3.0)
		assert.LessOrEqual(t, ingredient.Grams, 140.0)
	}
}

func TestBuildGuaranteedFallbackRecipeEmptyPantry(t *testing.T) {
	got := BuildGuaranteedFallbackRecipe(nil, Filters{})
	require.Len(t, got.Ingredients, 3)
	assert.Equal(t, "onion", got.Ingredients[0].ItemName)
	assert.NotEmpty(t, got.Name)
	assert.Greater(t, got.Calories, 0.0)

	// 保底食譜不應修改共用的預設食材
	assert.Zero(t, placeholderIngredients[0].Calories)
}
