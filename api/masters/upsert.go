package masters

import (
	"fmt"
	"strings"
)

// updateSet collects the columns an upsert actually provided, so PATCH-like
// requests only touch the fields they name.
type updateSet struct {
	cols []string
	args []interface{}
}

func (u *updateSet) add(col string, val interface{}) {
	u.cols = append(u.cols, col)
	u.args = append(u.args, val)
}

func (u *updateSet) empty() bool {
	return len(u.cols) == 0
}

// updateQuery renders "UPDATE t SET a = $1, b = $2 WHERE key = $3" and the
// matching args with the key appended last.
func (u *updateSet) updateQuery(table, keyCol string, key interface{}) (string, []interface{}) {
	set := make([]string, len(u.cols))
	for i, col := range u.cols {
		set[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		table, strings.Join(set, ", "), keyCol, len(u.cols)+1)
	return query, append(u.args, key)
}

// insertQuery renders "INSERT INTO t (a, b) VALUES ($1, $2) RETURNING key".
func (u *updateSet) insertQuery(table, returning string) (string, []interface{}) {
	ph := make([]string, len(u.cols))
	for i := range u.cols {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table, strings.Join(u.cols, ", "), strings.Join(ph, ", "), returning)
	return query, u.args
}
