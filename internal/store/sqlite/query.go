package sqlite

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/store"
)

// whereBuilder accumulates AND-ed filter clauses and their arguments.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

// search matches term as a case-insensitive substring of any of cols.
func (w *whereBuilder) search(term string, cols ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return
	}
	pattern := likePattern(term)
	ors := make([]string, len(cols))
	for i, c := range cols {
		ors[i] = fmt.Sprintf(`casefold(%s) LIKE ? ESCAPE '\'`, c)
		w.args = append(w.args, pattern)
	}
	w.clauses = append(w.clauses, "("+strings.Join(ors, " OR ")+")")
}

// tagged restricts rows of kind to those carrying tagID. idCol is the
// qualified id column of the outer query.
func (w *whereBuilder) tagged(kind domain.ContentType, idCol, tagID string) {
	if tagID == "" {
		return
	}
	jt := joinTables[kind]
	w.add(fmt.Sprintf("EXISTS (SELECT 1 FROM %s jt WHERE jt.%s = %s AND jt.tag_id = ?)",
		jt.table, jt.column, idCol), tagID)
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// likePattern escapes LIKE metacharacters and folds case to match casefold().
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + cases.Fold().String(r.Replace(term)) + "%"
}

// orderBy renders an ORDER BY clause from a whitelisted sort key, with id
// as the tiebreaker so paging is stable.
func orderBy(columns map[string]string, sortBy, defaultKey string, order, defaultOrder store.SortOrder, idCol string) string {
	col, ok := columns[sortBy]
	if !ok {
		col = columns[defaultKey]
	}
	if order != store.SortAsc && order != store.SortDesc {
		order = defaultOrder
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s ASC", col, strings.ToUpper(string(order)), idCol)
}

// patchBuilder collects SET assignments for a partial update.
type patchBuilder struct {
	sets []string
	args []any
}

func (p *patchBuilder) set(col string, v any) {
	p.sets = append(p.sets, col+" = ?")
	p.args = append(p.args, v)
}

// setIf assigns col only when the caller supplied a value.
func setIf[T any](p *patchBuilder, col string, v *T) {
	if v != nil {
		p.set(col, *v)
	}
}

func (p *patchBuilder) empty() bool {
	return len(p.sets) == 0
}

// exec runs the UPDATE and reports ErrNotFound when no row matched.
func (p *patchBuilder) exec(ctx context.Context, q querier, table, id string) error {
	if p.empty() {
		return nil
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(p.sets, ", "))
	res, err := q.ExecContext(ctx, query, append(p.args, id)...)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

// requireAffected turns a zero-row write into ErrNotFound.
func requireAffected(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// count runs a COUNT(*) query.
func count(ctx context.Context, q querier, query string, args ...any) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
