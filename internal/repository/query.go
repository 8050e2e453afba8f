package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/noah-isme/internship-api/internal/models"
)

// orderBy resolves a client supplied sort key against an allow-list.
func orderBy(sortBy, sortOrder string, allowed map[string]string, fallback string) string {
	column, ok := allowed[sortBy]
	if !ok {
		column = fallback
	}
	order := strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	return fmt.Sprintf("%s %s", column, order)
}

func pageClause(page, size int) string {
	page, size = models.NormalizePage(page, size)
	return fmt.Sprintf("LIMIT %d OFFSET %d", size, (page-1)*size)
}

// requireAffected maps a zero row count to sql.ErrNoRows.
func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// uniqueIDs drops duplicates while keeping first-seen order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
