package seed

import (
	"context"

	repo "app/internal/repository"
)

// デフォルトカテゴリ。
var DefaultCategories = []string{
	"Национальная одежда",
	"Украшения",
	"Аксессуары",
	"Обувь",
	"Домашний декор",
}

// Categories はデフォルトカテゴリを揃える。
// 何度呼んでも結果は同じ（get-or-create）。起動時にmainから明示的に1回呼ぶ。
func Categories(ctx context.Context, categories repo.CategoryRepository) error {
	for _, name := range DefaultCategories {
		if _, err := categories.GetOrCreateByName(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
