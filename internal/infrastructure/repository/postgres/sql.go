package postgres

import (
	"database/sql"

	sonic "github.com/bytedance/sonic"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// jsonbColumn marshals a value for a jsonb column; nil and empty collections
// become SQL NULL so reads stay symmetric.
func jsonbColumn(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	raw, err := sonic.Marshal(value)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" || string(raw) == "{}" || string(raw) == "[]" {
		return nil, nil
	}
	return raw, nil
}

func fromJSONBColumn[T any](raw []byte) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, nil
	}
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}
