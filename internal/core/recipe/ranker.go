package recipe

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const lowOverlapReason = "Low direct ingredient overlap, but can be adapted with substitutions."

// Rank 依 pantry 重疊程度為候選食譜評分，套用篩選條件後排序並截斷
func Rank(candidates []CandidateRecipe, pantry []string, filters Filters, limit int) []Suggestion {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	cuisine := NormalizeText(filters.Cuisine)

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, candidate := range candidates {
		if !passesFilters(candidate, filters, cuisine) {
			continue
		}
		suggestions = append(suggestions, scoreCandidate(candidate, pantry))
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return lessSuggestion(suggestions[i], suggestions[j])
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// lessSuggestion 分數高者優先，同分時準備時間短者優先
func lessSuggestion(a, b Suggestion) bool {
	if a.MatchScore != b.MatchScore {
		return a.MatchScore > b.MatchScore
	}
	return a.PrepTimeMin < b.PrepTimeMin
}

func passesFilters(candidate CandidateRecipe, filters Filters, cuisine string) bool {
	if filters.MaxPrepTime > 0 && float64(candidate.PrepTimeMin) > filters.MaxPrepTime {
		return false
	}
	if filters.MaxCalories > 0 && candidate.Calories > filters.MaxCalories {
		return false
	}
	if filters.MinProtein > 0 && candidate.ProteinG < filters.MinProtein {
		return false
	}
	if cuisine != "" && !strings.Contains(NormalizeText(candidate.Cuisine), cuisine) {
		return false
	}
	return true
}

func scoreCandidate(candidate CandidateRecipe, pantry []string) Suggestion {
	unique := uniqueNonEmpty(candidate.IngredientNames)

	matched := make([]string, 0, len(unique))
	missing := make([]string, 0, len(unique))
	for _, name := range unique {
		if Matches(name, pantry) {
			matched = append(matched, name)
		} else {
			missing = append(missing, name)
		}
	}

	total := len(unique)
	if total == 0 {
		total = 1
	}

	reason := lowOverlapReason
	if len(matched) > 0 {
		reason = fmt.Sprintf("Matches %d of %d ingredients from your pantry.", len(matched), total)
	}

	return Suggestion{
		RecipeID:           candidate.ID,
		RecipeName:         candidate.Name,
		MatchScore:         int(math.Round(100 * float64(len(matched)) / float64(total))),
		MatchedIngredients: truncate(matched, maxListedIngredients),
		MissingIngredients: truncate(missing, maxListedIngredients),
		PrepTimeMin:        candidate.PrepTimeMin,
		Calories:           candidate.Calories,
		ProteinG:           candidate.ProteinG,
		WhyThisMatch:       reason,
	}
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}

func truncate(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
