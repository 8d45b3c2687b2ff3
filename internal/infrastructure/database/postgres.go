package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pantry-recipes/internal/core/recipe"
	"pantry-recipes/internal/infrastructure/config"
	"pantry-recipes/internal/pkg/common"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS recipes (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	name TEXT NOT NULL,
	cuisine TEXT NOT NULL DEFAULT '',
	prep_time_min INTEGER NOT NULL DEFAULT 0,
	calories DOUBLE PRECISION NOT NULL DEFAULT 0,
	protein_g DOUBLE PRECISION NOT NULL DEFAULT 0,
	visibility TEXT NOT NULL DEFAULT 'private',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS recipe_ingredients (
	recipe_id TEXT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
	item_name TEXT NOT NULL,
	sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS recipes_owner_created_idx ON recipes (owner_id, created_at DESC);
CREATE INDEX IF NOT EXISTS recipe_ingredients_recipe_idx ON recipe_ingredients (recipe_id);
`

// candidateRow recipes 與 recipe_ingredients 的彙總結果
type candidateRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Cuisine     string         `db:"cuisine"`
	PrepTimeMin int            `db:"prep_time_min"`
	Calories    float64        `db:"calories"`
	ProteinG    float64        `db:"protein_g"`
	OwnerID     string         `db:"owner_id"`
	Visibility  string         `db:"visibility"`
	CreatedAt   time.Time      `db:"created_at"`
	Ingredients pq.StringArray `db:"ingredients"`
}

func (r candidateRow) toCandidate() recipe.CandidateRecipe {
	return recipe.CandidateRecipe{
		ID:              r.ID,
		Name:            r.Name,
		Cuisine:         r.Cuisine,
		PrepTimeMin:     r.PrepTimeMin,
		Calories:        r.Calories,
		ProteinG:        r.ProteinG,
		IngredientNames: []string(r.Ingredients),
		OwnerID:         r.OwnerID,
		Visibility:      r.Visibility,
		CreatedAt:       r.CreatedAt,
	}
}

// CandidateStore Postgres 候選食譜來源
type CandidateStore struct {
	db *sqlx.DB
}

// NewCandidateStore 連線資料庫並套用連線池設定
func NewCandidateStore(ctx context.Context, cfg config.DatabaseConfig) (*CandidateStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	store := NewCandidateStoreWithDB(db)
	if cfg.EnsureSchema {
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	common.LogInfo("資料庫已連線",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Bool("ensure_schema", cfg.EnsureSchema),
	)
	return store, nil
}

// NewCandidateStoreWithDB 使用既有連線
func NewCandidateStoreWithDB(db *sqlx.DB) *CandidateStore {
	return &CandidateStore{db: db}
}

// EnsureSchema 建立資料表（若不存在）
func (s *CandidateStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create recipe tables: %w", err)
	}
	return nil
}

// candidateQuery 依是否包含公開食譜組出查詢，$1 為 owner，$2 為筆數上限
func candidateQuery(includePublic bool) string {
	where := "r.owner_id = $1"
	if includePublic {
		where = "(r.owner_id = $1 OR r.visibility = 'public')"
	}
	return `
SELECT r.id, r.name, r.cuisine, r.prep_time_min, r.calories, r.protein_g,
	r.owner_id, r.visibility, r.created_at,
	COALESCE(array_agg(i.item_name ORDER BY i.sort_order) FILTER (WHERE i.item_name IS NOT NULL), '{}') AS ingredients
FROM recipes r
LEFT JOIN recipe_ingredients i ON i.recipe_id = r.id
WHERE ` + where + `
GROUP BY r.id
ORDER BY r.created_at DESC
LIMIT $2`
}

// FetchCandidates 取得候選食譜，依建立時間由新到舊
func (s *CandidateStore) FetchCandidates(ctx context.Context, query recipe.CandidateQuery) ([]recipe.CandidateRecipe, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 60
	}

	var rows []candidateRow
	if err := s.db.SelectContext(ctx, &rows, candidateQuery(query.IncludePublic), query.OwnerID, limit); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch candidate recipes: %w", err)
	}

	candidates := make([]recipe.CandidateRecipe, len(rows))
	for i, row := range rows {
		candidates[i] = row.toCandidate()
	}
	return candidates, nil
}

// Ping 檢查資料庫連線
func (s *CandidateStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close 關閉連線池
func (s *CandidateStore) Close() error {
	return s.db.Close()
}
