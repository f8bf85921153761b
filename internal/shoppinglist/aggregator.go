// Package shoppinglist turns a user's cart into a plain-text shopping list
// with one line per (ingredient name, measurement unit).
package shoppinglist

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// Row is one aggregated (name, unit) total as returned by the database.
type Row struct {
	Name  string
	Unit  string
	Total int64
}

// Item is a shopping list line.
type Item struct {
	Name  string `json:"name"`
	Unit  string `json:"measurement_unit"`
	Total int64  `json:"amount"`
}

type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Build sums ingredient amounts over every recipe in the user's cart,
// grouped by ingredient name and unit rather than ingredient id.
func (a *Aggregator) Build(ctx context.Context, userID uint64) ([]Item, error) {
	query, args, err := squirrel.
		Select("i.name AS name", "i.measurement_unit AS unit", "SUM(ri.amount) AS total").
		From("user_recipe_relations urr").
		Join("recipes r ON r.id = urr.recipe_id").
		Join("recipe_ingredients ri ON ri.recipe_id = r.id").
		Join("ingredients i ON i.id = ri.ingredient_id").
		Where(squirrel.Eq{
			"urr.user_id": userID,
			"urr.kind":    string(models.RelationCart),
		}).
		GroupBy("i.name", "i.measurement_unit").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	rows := make([]Row, 0)
	if err := a.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "scan shopping list")
	}
	return Aggregate(rows), nil
}

// Document renders the user's shopping list. An empty cart yields "".
func (a *Aggregator) Document(ctx context.Context, userID uint64) (string, error) {
	items, err := a.Build(ctx, userID)
	if err != nil {
		return "", err
	}
	return Render(items), nil
}

// Aggregate merges rows that share a name and unit and sorts the result by
// name, then unit, comparing bytes so the order does not depend on the
// database collation.
func Aggregate(rows []Row) []Item {
	type key struct{ name, unit string }
	totals := make(map[key]int64, len(rows))
	order := make([]key, 0, len(rows))
	for _, r := range rows {
		k := key{r.Name, r.Unit}
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] += r.Total
	}

	items := make([]Item, 0, len(order))
	for _, k := range order {
		items = append(items, Item{Name: k.name, Unit: k.unit, Total: totals[k]})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].Unit < items[j].Unit
	})
	return items
}

// Render writes one "<name> — <total> <unit>" line per item, without a
// trailing newline.
func Render(items []Item) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s — %d %s", it.Name, it.Total, it.Unit))
	}
	return strings.Join(lines, "\n")
}
