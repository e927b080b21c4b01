package search

import (
	"gorm.io/gorm"

	"github.com/janil231/research-repository2/model"
)

// Run executes the composed query and returns the page slice plus its
// pagination metadata. The count runs with the exact same predicate as the
// slice so total and items can't disagree.
func Run(db *gorm.DB, p *Params) ([]model.Research, *Pagination, error) {
	conds := conditions(p)

	apply := func() *gorm.DB {
		q := db.Model(&model.Research{})
		for _, c := range conds {
			q = q.Where(c.expr, c.args...)
		}
		return q
	}

	var total int64
	if err := apply().Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page := clampPage(p.Page)
	limit := clampLimit(p.Limit)

	items := []model.Research{}
	err := apply().
		Order(orderClause(p.SortBy)).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).
		Error
	if err != nil {
		return nil, nil, err
	}

	return items, &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
	}, nil
}
