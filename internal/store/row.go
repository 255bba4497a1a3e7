package store

import (
	"fmt"
	"strconv"

	"github.com/rentfleet/apiserver/internal/db"
)

func rowInt64(row db.Row, column string) (int64, error) {
	switch v := row[column].(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("column %q: unexpected type %T", column, row[column])
	}
}

func rowString(row db.Row, column string) string {
	switch v := row[column].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
