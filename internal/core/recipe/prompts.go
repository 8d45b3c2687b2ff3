package recipe

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	rerankMaxTokens   = 1200
	generateMaxTokens = 1800
	textMaxTokens     = 1400
)

const rerankSystemPrompt = `
You are a nutrition-aware recipe recommendation assistant.
Given pantry ingredients and candidate recipes, return a JSON object with key "suggestions".
Each suggestion object must have:
- recipe_id (string)
- match_score (integer 0-100)
- missing_ingredients (string array)
- why_this_match (short string)
Only use recipe_id values from provided candidates.
`

const generateSystemPrompt = `
You create practical home-cook recipes from pantry ingredients.
Return strict JSON with a top-level "recipes" array.
Each recipe must include:
- name (string)
- ai_reason (string)
- prep_time_min (integer >= 0)
- cook_time_min (integer >= 0)
- servings (integer > 0)
- calories (number >= 0, per serving)
- protein_g (number >= 0, per serving)
- carbs_g (number >= 0, per serving)
- fat_g (number >= 0, per serving)
- ingredients (array of objects with item_name, grams, calories, protein_g, carbs_g, fat_g, unit)
- instructions (array of concise step strings)
Keep recipes realistic and mostly based on pantry ingredients. Missing ingredients should be minimal.
`

const textSystemPrompt = "You are a helpful cooking assistant that writes complete, practical recipes."

const schemaExampleInstruction = `Return only JSON in this exact shape: {"recipes":[{"name":"...","ai_reason":"...","prep_time_min":10,"cook_time_min":20,"servings":2,"calories":430,"protein_g":28,"carbs_g":38,"fat_g":14,"ingredients":[{"item_name":"...","grams":100,"calories":120,"protein_g":8,"carbs_g":5,"fat_g":6,"unit":"g"}],"instructions":["Step 1","Step 2"]}]}.`

const singleRecipeInstruction = "Create one complete recipe only. Return JSON object with keys: name, ingredients, instructions, prep_time_min, cook_time_min, servings, calories, protein_g, carbs_g, fat_g."

type rerankCandidate struct {
	RecipeID           string   `json:"recipe_id"`
	RecipeName         string   `json:"recipe_name"`
	MatchScore         int      `json:"match_score"`
	MatchedIngredients []string `json:"matched_ingredients"`
	MissingIngredients []string `json:"missing_ingredients"`
	PrepTimeMin        int      `json:"prep_time_min"`
	Calories           float64  `json:"calories"`
	ProteinG           float64  `json:"protein_g"`
}

type rerankPrompt struct {
	PantryIngredients []string          `json:"pantry_ingredients"`
	Filters           Filters           `json:"filters"`
	Candidates        []rerankCandidate `json:"candidates"`
}

type inspiration struct {
	RecipeName         string   `json:"recipe_name"`
	MissingIngredients []string `json:"missing_ingredients"`
	MatchScore         int      `json:"match_score"`
}

type generatePrompt struct {
	PantryIngredients []string      `json:"pantry_ingredients"`
	Filters           Filters       `json:"filters"`
	GenerateCount     int           `json:"generate_count,omitempty"`
	Inspiration       []inspiration `json:"inspiration_from_existing_recipes,omitempty"`
	Instruction       string        `json:"instruction,omitempty"`
}

func buildRerankPrompt(pantry []string, suggestions []Suggestion, filters Filters) string {
	candidates := make([]rerankCandidate, len(suggestions))
	for i, s := range suggestions {
		candidates[i] = rerankCandidate{
			RecipeID:           s.RecipeID,
			RecipeName:         s.RecipeName,
			MatchScore:         s.MatchScore,
			MatchedIngredients: s.MatchedIngredients,
			MissingIngredients: s.MissingIngredients,
			PrepTimeMin:        s.PrepTimeMin,
			Calories:           s.Calories,
			ProteinG:           s.ProteinG,
		}
	}
	return mustJSON(rerankPrompt{PantryIngredients: pantry, Filters: filters, Candidates: candidates})
}

// buildGeneratePrompts 三種結構化提示：參考既有推薦、附 schema 範例、單一食譜
func buildGeneratePrompts(pantry []string, filters Filters, existing []Suggestion, limit int) []string {
	inspirations := make([]inspiration, 0, 4)
	for i, s := range existing {
		if i >= 4 {
			break
		}
		inspirations = append(inspirations, inspiration{
			RecipeName:         s.RecipeName,
			MissingIngredients: s.MissingIngredients,
			MatchScore:         s.MatchScore,
		})
	}

	return []string{
		mustJSON(generatePrompt{PantryIngredients: pantry, Filters: filters, GenerateCount: limit, Inspiration: inspirations}),
		mustJSON(generatePrompt{PantryIngredients: pantry, Filters: filters, GenerateCount: limit, Instruction: schemaExampleInstruction}),
		mustJSON(generatePrompt{PantryIngredients: pantry, Filters: filters, Instruction: singleRecipeInstruction}),
	}
}

func buildTextPrompt(pantry []string, limit int) string {
	return fmt.Sprintf("Use these pantry items to generate %d practical recipes: %s. Include sections: Recipe Name, Ingredients, Instructions. Keep it concise and realistic.",
		limit, strings.Join(pantry, ", "))
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("marshal prompt: %v", err))
	}
	return string(data)
}
