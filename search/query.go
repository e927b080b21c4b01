// Package search builds research queries from the optional filter set and
// runs them with consistent pagination. Count and page slice always share the
// same predicate so totals can't drift from the returned items.
package search

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/janil231/research-repository2/model"
)

// Params carries the raw search inputs as received from the client. Numeric
// fields stay strings here, coercion and clamping happen inside the builder
// so garbage input degrades instead of erroring.
type Params struct {
	Keyword    string
	Author     string
	Keywords   string
	Year       string
	Department string
	Semester   string
	Status     string
	QTags      string
	SortBy     string
	Page       string
	Limit      string
}

type condition struct {
	expr string
	args []any
}

// keywordFields are the columns a free-text token is matched against
var keywordFields = []string{"title", "abstract", "keywords", "adviser", "department", "authors", "semester"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so a literal % or _ in a search
// term matches literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// keywordBlock expands one free-text token into an OR across all keyword
// fields, plus an exact year match when the token reads as an integer of at
// least two digits
func keywordBlock(token string) condition {
	pattern := "%" + escapeLike(strings.ToLower(token)) + "%"

	parts := make([]string, 0, len(keywordFields)+1)
	args := make([]any, 0, len(keywordFields)+1)

	for _, f := range keywordFields {
		parts = append(parts, "LOWER("+f+") LIKE ? ESCAPE '\\'")
		args = append(args, pattern)
	}

	// The whole token must be numeric; a mixed token like "2023abc" is not
	// treated as a year, only matched as text
	if year, err := strconv.Atoi(token); err == nil && len(strconv.Itoa(year)) >= 2 {
		parts = append(parts, "year = ?")
		args = append(args, year)
	}

	return condition{"(" + strings.Join(parts, " OR ") + ")", args}
}

var trailingParen = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// departmentCondition matches the department field anchored and
// case-insensitively. A filter without an acronym also matches stored values
// carrying a trailing parenthetical one ("Criminology" finds both
// "Criminology" and "Criminology (BSCRIM)"), while a filter that spells the
// acronym out matches only the exact string.
func departmentCondition(dept string) condition {
	dept = strings.TrimSpace(dept)
	base := strings.TrimSpace(trailingParen.ReplaceAllString(dept, ""))

	if base != dept {
		return condition{"LOWER(department) = ?", []any{strings.ToLower(dept)}}
	}

	esc := escapeLike(strings.ToLower(base))
	return condition{
		"(LOWER(department) = ? OR LOWER(department) LIKE ? ESCAPE '\\' OR LOWER(department) LIKE ? ESCAPE '\\')",
		[]any{strings.ToLower(base), esc + " (%)", esc + "(%)"},
	}
}

// conditions turns the filter set into AND-ed predicates. All keyword blocks
// (keyword plus every qTags token) are OR-ed into a single block first.
func conditions(p *Params) []condition {
	var conds []condition
	var blocks []condition

	if t := strings.TrimSpace(p.Keyword); t != "" {
		blocks = append(blocks, keywordBlock(t))
	}

	for _, t := range strings.Split(p.QTags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			blocks = append(blocks, keywordBlock(t))
		}
	}

	if a := strings.TrimSpace(p.Author); a != "" {
		conds = append(conds, condition{"LOWER(authors) LIKE ? ESCAPE '\\'", []any{"%" + escapeLike(strings.ToLower(a)) + "%"}})
	}

	if k := strings.TrimSpace(p.Keywords); k != "" {
		conds = append(conds, condition{"LOWER(keywords) LIKE ? ESCAPE '\\'", []any{"%" + escapeLike(strings.ToLower(k)) + "%"}})
	}

	if y := strings.TrimSpace(p.Year); y != "" {
		// Non-numeric year filters are ignored, not rejected
		if n, err := strconv.Atoi(y); err == nil {
			conds = append(conds, condition{"year = ?", []any{n}})
		}
	}

	if d := strings.TrimSpace(p.Department); d != "" {
		conds = append(conds, departmentCondition(d))
	}

	if s := strings.TrimSpace(p.Semester); s != "" {
		conds = append(conds, condition{"LOWER(semester) = ?", []any{strings.ToLower(s)}})
	}

	if p.Status != "" {
		conds = append(conds, condition{"status = ?", []any{p.Status}})
	} else {
		// The public default view never shows these
		conds = append(conds, condition{"status NOT IN ?", []any{model.HiddenStatuses}})
	}

	if len(blocks) > 0 {
		exprs := make([]string, len(blocks))
		var args []any
		for i, b := range blocks {
			exprs[i] = b.expr
			args = append(args, b.args...)
		}
		conds = append(conds, condition{"(" + strings.Join(exprs, " OR ") + ")", args})
	}

	return conds
}

// orderClause maps sortBy to an ORDER BY. Unknown values fall back to newest.
// The alpha sort lowercases the title so ordering matches the
// case-insensitive collation used everywhere else.
func orderClause(sortBy string) string {
	switch sortBy {
	case "oldest":
		return "created_at asc"
	case "alpha":
		return "LOWER(title) asc"
	default:
		return "created_at desc"
	}
}
