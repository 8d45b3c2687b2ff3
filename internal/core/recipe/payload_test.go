package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyOutput(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		kind  PayloadKind
		items int
	}{
		{"recipes key", `{"recipes":[{"name":"A","ingredients":["rice"]},{"name":"B","ingredients":["egg"]}]}`, PayloadRecipeList, 2},
		{"ideas key", `{"ideas":[{"name":"A","ingredients":["rice"]}]}`, PayloadRecipeList, 1},
		{"top-level array", `[{"name":"A","ingredients":["rice"]}]`, PayloadRecipeList, 1},
		{"single object", `{"name":"Recipe","ingredients":["rice"]}`, PayloadSingleRecipe, 1},
		{"fenced block", "Sure!\n```json\n{\"name\":\"Fried Rice\",\"ingredients\":[\"rice\"]}\n```", PayloadSingleRecipe, 1},
		{"free text", "Recipe Name: Toast\nIngredients:\n- bread", PayloadFreeText, 0},
		{"nested recipe key", `{"recipe":{"name":"Chicken Rice","ingredients":["chicken","rice"]}}`, PayloadSingleRecipe, 1},
		{"nested recipe without ingredients", `{"recipe":{"name":"Chicken Rice"}}`, PayloadUnparsable, 0},
		{"empty object", `{}`, PayloadUnparsable, 0},
		{"empty array", `[]`, PayloadUnparsable, 0},
		{"blank", "   ", PayloadUnparsable, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyOutput(tt.raw)
			assert.Equal(t, tt.kind, got.Kind, got.Kind.String())
			assert.Len(t, got.Items, tt.items)
		})
	}
}

func TestPayloadNormalizeRecipes(t *testing.T) {
	raw := `{"recipes":[
		{"name":"Egg Fried Rice","ingredients":[{"item_name":"rice","grams":150},{"item_name":"egg","grams":100}],"instructions":["Fry"],"servings":2},
		"not a recipe",
		{"name":"No Ingredients","ingredients":[]},
		{"title":"Tomato Soup","ingredients":["4 tomatoes","1 onion"],"steps":"Simmer."},
		{"name":"Third","ingredients":["kale"]}
	]}`

	got := ClassifyOutput(raw).NormalizeRecipes(2)
	require.Len(t, got, 2)
	assert.Equal(t, "Egg Fried Rice", got[0].Name)
	assert.Equal(t, "Tomato Soup", got[1].Name)
	assert.Equal(t, "Simmer.", got[1].Instructions)
	for _, recipe := range got {
		assertMacroInvariant(t, recipe)
	}

	assert.Nil(t, ClassifyOutput("plain words").NormalizeRecipes(3))
}

func TestSingleRecipePlaceholderNameIsReplaced(t *testing.T) {
	payload := ClassifyOutput(`{"name":"Recipe","ingredients":["chicken","rice"],"instructions":"Cook."}`)
	require.Equal(t, PayloadSingleRecipe, payload.Kind)

	got := payload.NormalizeRecipes(3)
	require.Len(t, got, 1)
	assert.NotEqual(t, "Recipe", got[0].Name)
	assert.Equal(t, "Chicken Rice Bowl", got[0].Name)
}

func TestNestedRecipeKeyIsNormalized(t *testing.T) {
	got := ClassifyOutput(`{"recipe":{"name":"Chicken Rice","ingredients":[{"item_name":"chicken","grams":150},"1 cup rice"],"instructions":["Cook rice","Sear chicken"]}}`).NormalizeRecipes(3)
	require.Len(t, got, 1)
	assert.Equal(t, "Chicken Rice", got[0].Name)
	require.Len(t, got[0].Ingredients, 2)
	assert.Equal(t, 240.0, got[0].Ingredients[1].Grams)
	assert.Equal(t, "1. Cook rice\n2. Sear chicken", got[0].Instructions)
	assertMacroInvariant(t, got[0])
}
