package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/folio-api/internal/utils"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Paginate applies offset/limit. Params are re-clamped, so a zero value
// reads as the first default-sized page.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	params = utils.NewPaginationParams(params.Page, params.Limit)
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// Search matches term as a case-insensitive substring of any of the columns.
// LIKE wildcards in term are matched literally.
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	term = strings.TrimSpace(term)
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(columns) == 0 {
			return db
		}

		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, 0, len(columns)*2)
		for i, column := range columns {
			clauses[i] = "LOWER(" + column + ") LIKE ? ESCAPE ?"
			args = append(args, pattern, `\`)
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}
