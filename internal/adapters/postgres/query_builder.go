package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"reconciliation-service/internal/core/domain"
)

// Postgres принимает не больше 65535 параметров в одном запросе.
const maxQueryParams = 65535

// tables - имена таблиц семейства одного типа.
type tables struct {
	data, hash, sourcePhotos, photos, subtypes string
}

func tablesFor(t domain.PropertyType) tables {
	base := "objects_" + string(t)
	return tables{
		data:         base,
		hash:         base + "__othersource_data",
		sourcePhotos: base + "_source_photos",
		photos:       base + "_photos",
		subtypes:     base + "_types",
	}
}

// flatten превращает строки значений в плоский список аргументов запроса.
func flatten(data [][]interface{}) []interface{} {
	if len(data) == 0 {
		return nil
	}
	flat := make([]interface{}, 0, len(data)*len(data[0]))
	for _, row := range data {
		flat = append(flat, row...)
	}
	return flat
}

// buildValuesPlaceholders строит "($1::TEXT, $2::BIGINT), ($3::TEXT, $4::BIGINT)".
// Пустой тип колонки дает плейсхолдер без приведения.
func buildValuesPlaceholders(types []string, rows int) string {
	if rows == 0 || len(types) == 0 {
		return ""
	}
	rowPlaceholders := make([]string, rows)
	paramIndex := 1
	for i := 0; i < rows; i++ {
		colPlaceholders := make([]string, len(types))
		for j, typ := range types {
			if typ == "" {
				colPlaceholders[j] = fmt.Sprintf("$%d", paramIndex)
			} else {
				colPlaceholders[j] = fmt.Sprintf("$%d::%s", paramIndex, typ)
			}
			paramIndex++
		}
		rowPlaceholders[i] = "(" + strings.Join(colPlaceholders, ", ") + ")"
	}
	return strings.Join(rowPlaceholders, ", ")
}

// chunkRows режет строки так, чтобы запрос уложился в лимит параметров.
func chunkRows(data [][]interface{}, columns int) [][][]interface{} {
	if len(data) == 0 || columns == 0 {
		return nil
	}
	per := maxQueryParams / columns
	var out [][][]interface{}
	for len(data) > per {
		out = append(out, data[:per])
		data = data[per:]
	}
	return append(out, data)
}

// pgType - тип приведения плейсхолдера по значению колонки.
func pgType(v interface{}) string {
	switch v.(type) {
	case int, int64:
		return "BIGINT"
	case float64:
		return "DOUBLE PRECISION"
	case string, *string:
		return "TEXT"
	case time.Time, *time.Time:
		return "TIMESTAMP"
	}
	return "TEXT"
}

func columnNames(cols []domain.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func columnValues(cols []domain.Column) []interface{} {
	values := make([]interface{}, len(cols))
	for i, c := range cols {
		values[i] = c.Value
	}
	return values
}

func columnTypes(cols []domain.Column) []string {
	types := make([]string, len(cols))
	for i, c := range cols {
		types[i] = pgType(c.Value)
	}
	return types
}

func quoteIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = pgx.Identifier{n}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}

// setFromValues строит "col = vals.col, ..." для UPDATE ... FROM (VALUES ...).
func setFromValues(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		id := pgx.Identifier{n}.Sanitize()
		parts[i] = fmt.Sprintf("%s = vals.%s", id, id)
	}
	return strings.Join(parts, ", ")
}
