package recipe

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"pantry-recipes/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	defaultSuggestionLimit = 6
	defaultGeneratedCount  = 3
	maxGeneratedCount      = 5
	defaultCandidateLimit  = 60
	defaultBroadenLimit    = 90
	defaultBroadenBelow    = 3

	emptyPantryMessage = "Please add at least one ingredient."
	textFallbackName   = "AI Pantry Recipe"
)

// Completer 語言模型補全服務，回傳內容一律視為不可信的原始文字
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
	CompleteText(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// Options 推薦流程的數量設定
type Options struct {
	DefaultLimit   int
	GeneratedCount int
	CandidateLimit int
	BroadenLimit   int
	BroadenBelow   int
}

func (o Options) withDefaults() Options {
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = defaultSuggestionLimit
	}
	if o.GeneratedCount <= 0 {
		o.GeneratedCount = defaultGeneratedCount
	}
	if o.CandidateLimit <= 0 {
		o.CandidateLimit = defaultCandidateLimit
	}
	if o.BroadenLimit <= 0 {
		o.BroadenLimit = defaultBroadenLimit
	}
	if o.BroadenBelow <= 0 {
		o.BroadenBelow = defaultBroadenBelow
	}
	return o
}

// SuggestionService pantry 食譜推薦服務
type SuggestionService struct {
	completer Completer
	source    CandidateSource
	opts      Options
}

// NewSuggestionService 創建新的食譜推薦服務
func NewSuggestionService(completer Completer, source CandidateSource, opts Options) *SuggestionService {
	return &SuggestionService{
		completer: completer,
		source:    source,
		opts:      opts.withDefaults(),
	}
}

// SuggestPantryRecipes 解析 pantry → 取得候選 → 排序（不足時擴大到公開食譜）→ AI 重排 → AI 生成新食譜
func (s *SuggestionService) SuggestPantryRecipes(ctx context.Context, ownerID, pantryText string, filters Filters) (*SuggestResult, error) {
	pantry := ParsePantryText(pantryText)
	if len(pantry) == 0 {
		return nil, common.NewValidationError(emptyPantryMessage)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}

	candidates, err := s.source.FetchCandidates(ctx, CandidateQuery{
		OwnerID:       ownerID,
		IncludePublic: filters.IncludePublic,
		Limit:         s.opts.CandidateLimit,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, common.NewUpstreamDataError("candidate recipes", err)
	}
	ranked := Rank(candidates, pantry, filters, limit)

	if len(ranked) < s.opts.BroadenBelow && !filters.IncludePublic {
		broadened, err := s.source.FetchCandidates(ctx, CandidateQuery{
			OwnerID:       ownerID,
			IncludePublic: true,
			Limit:         s.opts.BroadenLimit,
		})
		if err != nil {
			common.LogWarn("擴大候選食譜失敗，保留原排序",
				zap.Int("initial_count", len(ranked)),
				zap.Error(err),
			)
		} else {
			ranked = Rank(broadened, pantry, filters, limit)
		}
	}

	suggestions, err := s.RerankWithAI(ctx, pantry, ranked, filters)
	if err != nil {
		return nil, err
	}

	generated, err := s.GenerateNewRecipesWithAI(ctx, pantry, filters, suggestions, s.generatedCount(filters))
	if err != nil {
		return nil, err
	}

	common.LogDebug("pantry suggestions ready",
		zap.Int("pantry_items", len(pantry)),
		zap.Int("suggestions", len(suggestions)),
		zap.Int("generated", len(generated)),
	)

	return &SuggestResult{
		PantryItems:      pantry,
		Suggestions:      suggestions,
		GeneratedRecipes: generated,
	}, nil
}

func (s *SuggestionService) generatedCount(filters Filters) int {
	count := filters.GeneratedCount
	if count == 0 {
		count = s.opts.GeneratedCount
	}
	return min(maxGeneratedCount, max(1, count))
}

// RerankWithAI 請模型重新評分既有推薦；只能修正既有候選，不會新增或刪除
func (s *SuggestionService) RerankWithAI(ctx context.Context, pantry []string, suggestions []Suggestion, filters Filters) ([]Suggestion, error) {
	if len(suggestions) == 0 {
		return suggestions, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := s.completer.CompleteJSON(ctx, rerankSystemPrompt, buildRerankPrompt(pantry, suggestions, filters), rerankMaxTokens)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		common.LogWarn("AI rerank 失敗，使用原排序", zap.Error(err))
		return suggestions, nil
	}

	merged := mergeRerank(suggestions, raw)
	if merged == nil {
		common.LogWarn("AI rerank 無可用結果，使用原排序", zap.Int("raw_length", len(raw)))
		return suggestions, nil
	}
	return merged, nil
}

// mergeRerank 將模型的評分套回既有推薦，沒有任何有效項目時回傳 nil
func mergeRerank(base []Suggestion, raw string) []Suggestion {
	parsed, ok := TryParseJSON(raw)
	if !ok {
		return nil
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil
	}
	items, ok := obj["suggestions"].([]any)
	if !ok || len(items) == 0 {
		return nil
	}

	byID := make(map[string]int, len(base))
	for i, suggestion := range base {
		if _, exists := byID[suggestion.RecipeID]; !exists {
			byID[suggestion.RecipeID] = i
		}
	}

	used := make(map[string]bool, len(base))
	merged := make([]Suggestion, 0, len(base))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := strings.TrimSpace(stringOf(m["recipe_id"]))
		index, known := byID[id]
		if !known || used[id] {
			continue
		}
		used[id] = true

		suggestion := base[index]
		if score, ok := numberFrom(m["match_score"]); ok {
			suggestion.MatchScore = clampScore(score)
		}
		if missing, ok := m["missing_ingredients"].([]any); ok {
			suggestion.MissingIngredients = stringList(missing, maxListedIngredients)
		}
		if why := strings.TrimSpace(stringOf(m["why_this_match"])); why != "" {
			suggestion.WhyThisMatch = why
		}
		merged = append(merged, suggestion)
	}
	if len(merged) == 0 {
		return nil
	}

	for _, suggestion := range base {
		if !used[suggestion.RecipeID] {
			used[suggestion.RecipeID] = true
			merged = append(merged, suggestion)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return lessSuggestion(merged[i], merged[j])
	})
	return merged
}

func clampScore(score float64) int {
	return int(math.Max(0, math.Min(100, math.Round(score))))
}

func stringList(values []any, limit int) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if len(out) >= limit {
			break
		}
		if text := strings.TrimSpace(stringOf(value)); text != "" {
			out = append(out, text)
		}
	}
	return out
}

// recipeProducer 生成鏈中的一個階段，回傳零或多筆食譜
type recipeProducer struct {
	name    string
	produce func(ctx context.Context) []GeneratedRecipe
}

// GenerateNewRecipesWithAI 依序嘗試三種 JSON 提示、純文字提示，最後使用本地保底食譜
func (s *SuggestionService) GenerateNewRecipesWithAI(ctx context.Context, pantry []string, filters Filters, existing []Suggestion, limit int) ([]GeneratedRecipe, error) {
	if limit <= 0 {
		limit = defaultGeneratedCount
	}

	producers := make([]recipeProducer, 0, 4)
	for i, prompt := range buildGeneratePrompts(pantry, filters, existing, limit) {
		producers = append(producers, recipeProducer{
			name:    fmt.Sprintf("json_variant_%d", i+1),
			produce: s.jsonProducer(prompt, limit),
		})
	}
	producers = append(producers, recipeProducer{
		name:    "text",
		produce: s.textProducer(pantry, limit),
	})

	recipes, err := runProducers(ctx, producers)
	if err != nil {
		return nil, err
	}
	if len(recipes) > 0 {
		return recipes, nil
	}

	common.LogWarn("AI 生成全部失敗，使用本地保底食譜", zap.Int("pantry_items", len(pantry)))
	return []GeneratedRecipe{BuildGuaranteedFallbackRecipe(pantry, filters)}, nil
}

// runProducers 依序執行，第一個有結果的階段即停止；每個階段開始前檢查 ctx
func runProducers(ctx context.Context, producers []recipeProducer) ([]GeneratedRecipe, error) {
	for _, producer := range producers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if recipes := producer.produce(ctx); len(recipes) > 0 {
			common.LogDebug("recipe tier succeeded",
				zap.String("tier", producer.name),
				zap.Int("count", len(recipes)),
			)
			return recipes, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		common.LogWarn("生成階段無可用食譜", zap.String("tier", producer.name))
	}
	return nil, nil
}

func (s *SuggestionService) jsonProducer(prompt string, limit int) func(ctx context.Context) []GeneratedRecipe {
	return func(ctx context.Context) []GeneratedRecipe {
		raw, err := s.completer.CompleteJSON(ctx, generateSystemPrompt, prompt, generateMaxTokens)
		if err != nil {
			common.LogWarn("AI JSON 生成呼叫失敗", zap.Error(err))
			return nil
		}
		return ClassifyOutput(raw).NormalizeRecipes(limit)
	}
}

func (s *SuggestionService) textProducer(pantry []string, limit int) func(ctx context.Context) []GeneratedRecipe {
	return func(ctx context.Context) []GeneratedRecipe {
		raw, err := s.completer.CompleteText(ctx, textSystemPrompt, buildTextPrompt(pantry, limit), textMaxTokens)
		if err != nil {
			common.LogWarn("AI 文字生成呼叫失敗", zap.Error(err))
			return nil
		}

		payload := ClassifyOutput(raw)
		if payload.Structured() {
			return payload.NormalizeRecipes(limit)
		}
		if payload.Kind != PayloadFreeText {
			return nil
		}
		recipe, ok := ParseTextRecipe(payload.Text, textFallbackName)
		if !ok {
			return nil
		}
		return []GeneratedRecipe{recipe}
	}
}
