package recipe

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	defaultTextSteps    = "1. Prep the ingredients.\n2. Cook in a pan or pot until done.\n3. Season to taste and serve."
	textAIReason        = "Generated from your pantry ingredients."
	textIngredientGrams = 100
	textMaxLines        = 8
)

var (
	lineSplitPattern       = regexp.MustCompile(`\r?\n`)
	markdownTrimPattern    = regexp.MustCompile(`^[#*_\s]+|[*_\s]+$`)
	sectionOnlyPattern     = regexp.MustCompile(`(?i)^(ingredients|instructions|steps|method)[:\s]*$`)
	ingredientsHeader      = regexp.MustCompile(`(?i)^ingredients(?:[:\s]*$|:)`)
	stepsHeader            = regexp.MustCompile(`(?i)^(?:instructions|steps|method|directions)(?:[:\s]*$|:)`)
	titlePrefixPattern     = regexp.MustCompile(`(?i)^recipe(?:\s+name)?\s*\d*[:\-\s]*`)
	bulletLinePattern      = regexp.MustCompile(`^(?:[-•]|\*\s)`)
	numberedLinePattern    = regexp.MustCompile(`^\d+[\).\-\s]`)
	bulletOrNumberedPrefix = regexp.MustCompile(`^(?:[-*•]\s*|\d+[\).\-\s]+)`)
)

// ParseTextRecipe 解析純文字食譜：標題、Ingredients 與 Instructions 區段，找不到區段時改用清單符號判斷
func ParseTextRecipe(rawText, fallbackName string) (GeneratedRecipe, bool) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return GeneratedRecipe{}, false
	}

	lines := make([]string, 0)
	for _, line := range lineSplitPattern.Split(text, -1) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	ingredientStart, stepsStart := -1, -1
	for i, line := range lines {
		header := markdownTrimPattern.ReplaceAllString(line, "")
		if ingredientStart < 0 && ingredientsHeader.MatchString(header) {
			ingredientStart = i
		}
		if stepsStart < 0 && stepsHeader.MatchString(header) {
			stepsStart = i
		}
	}

	var ingredientLines, stepLines []string
	if ingredientStart >= 0 {
		end := len(lines)
		if stepsStart > ingredientStart {
			end = stepsStart
		}
		ingredientLines = lines[ingredientStart+1 : end]
	}
	if stepsStart >= 0 {
		end := len(lines)
		if ingredientStart > stepsStart {
			end = ingredientStart
		}
		stepLines = lines[stepsStart+1 : end]
	}

	if len(ingredientLines) == 0 {
		ingredientLines = firstMatching(lines, bulletLinePattern, textMaxLines)
	}
	if len(stepLines) == 0 {
		stepLines = firstMatching(lines, numberedLinePattern, textMaxLines)
	}

	ingredients := make([]Ingredient, 0, len(ingredientLines))
	for _, line := range ingredientLines {
		name := nameFromLine(strings.ReplaceAll(markdownTrimPattern.ReplaceAllString(line, ""), "**", ""))
		if name == "" {
			continue
		}
		ingredients = append(ingredients, Ingredient{
			ItemName:  name,
			Grams:     textIngredientGrams,
			Quantity:  textIngredientGrams,
			Unit:      "g",
			SortOrder: len(ingredients),
		})
	}
	if len(ingredients) == 0 {
		return GeneratedRecipe{}, false
	}

	steps := make([]string, 0, len(stepLines))
	for _, line := range stepLines {
		step := strings.TrimSpace(bulletOrNumberedPrefix.ReplaceAllString(strings.ReplaceAll(line, "**", ""), ""))
		if step == "" {
			continue
		}
		steps = append(steps, fmt.Sprintf("%d. %s", len(steps)+1, step))
	}
	instructions := strings.Join(steps, "\n")
	if instructions == "" {
		instructions = defaultTextSteps
	}

	name := parseTitle(lines, fallbackName)
	if IsWeakRecipeName(name) {
		name = GenerateRecipeNameFromIngredients(ingredients, fallbackName)
	}

	return FinalizeRecipeMacros(GeneratedRecipe{
		Name:         name,
		Ingredients:  ingredients,
		Instructions: instructions,
		PrepTimeMin:  10,
		CookTimeMin:  20,
		Servings:     defaultServings,
		Visibility:   VisibilityPrivate,
		StatusTag:    StatusToTry,
		AIReason:     textAIReason,
	}), true
}

// parseTitle 第一個不是區段標題的實質行即為食譜名稱
func parseTitle(lines []string, fallbackName string) string {
	for _, line := range lines {
		cleaned := markdownTrimPattern.ReplaceAllString(line, "")
		if len(cleaned) <= 4 || sectionOnlyPattern.MatchString(cleaned) {
			continue
		}
		if ingredientsHeader.MatchString(cleaned) || stepsHeader.MatchString(cleaned) {
			continue
		}
		if bulletLinePattern.MatchString(line) || numberedLinePattern.MatchString(line) {
			continue
		}
		return strings.TrimSpace(titlePrefixPattern.ReplaceAllString(cleaned, ""))
	}
	return fallbackName
}

func firstMatching(lines []string, pattern *regexp.Regexp, max int) []string {
	out := make([]string, 0, max)
	for _, line := range lines {
		if len(out) >= max {
			break
		}
		if pattern.MatchString(line) {
			out = append(out, line)
		}
	}
	return out
}
