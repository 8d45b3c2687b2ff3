package recipe

import (
	"context"
	"sort"
	"sync"
)

// CandidateQuery 候選食譜查詢條件
type CandidateQuery struct {
	OwnerID       string
	IncludePublic bool
	Limit         int
}

// CandidateSource 既有食譜的資料來源，回傳結果依建立時間由新到舊
type CandidateSource interface {
	FetchCandidates(ctx context.Context, query CandidateQuery) ([]CandidateRecipe, error)
}

// MemorySource 記憶體內的候選食譜來源
type MemorySource struct {
	mu      sync.RWMutex
	recipes []CandidateRecipe
}

// NewMemorySource 創建記憶體食譜來源
func NewMemorySource(recipes ...CandidateRecipe) *MemorySource {
	s := &MemorySource{}
	s.Add(recipes...)
	return s
}

// Add 新增食譜
func (s *MemorySource) Add(recipes ...CandidateRecipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = append(s.recipes, recipes...)
}

// FetchCandidates 取得使用者自己的食譜，IncludePublic 時一併包含公開食譜
func (s *MemorySource) FetchCandidates(ctx context.Context, query CandidateQuery) ([]CandidateRecipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]CandidateRecipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if r.OwnerID == query.OwnerID || (query.IncludePublic && r.Visibility == VisibilityPublic) {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out, nil
}

// Ping 記憶體來源永遠可用
func (s *MemorySource) Ping(ctx context.Context) error {
	return ctx.Err()
}
