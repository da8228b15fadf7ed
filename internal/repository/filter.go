package repository

import "strings"

// where accumulates optional WHERE clauses for list queries.
type where struct {
	clauses []string
	args    []any
}

// contains adds a case-insensitive substring match on every column, OR-ed
// together.  Blank values add nothing.
func (w *where) contains(value string, columns ...string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	pattern := "%" + escapeLike(strings.ToLower(value)) + "%"
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(" + col + ") LIKE ?"
		w.args = append(w.args, pattern)
	}
	w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
