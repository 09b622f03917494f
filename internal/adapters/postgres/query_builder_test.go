package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconciliation-service/internal/core/domain"
)

func TestBuildValuesPlaceholders(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		rows  int
		want  string
	}{
		{"typed", []string{"TEXT", "BIGINT"}, 2, "($1::TEXT, $2::BIGINT), ($3::TEXT, $4::BIGINT)"},
		{"untyped", []string{"", ""}, 1, "($1, $2)"},
		{"mixed", []string{"BIGINT", ""}, 1, "($1::BIGINT, $2)"},
		{"no rows", []string{"TEXT"}, 0, ""},
		{"no columns", nil, 3, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildValuesPlaceholders(tt.types, tt.rows))
		})
	}
}

func TestFlatten(t *testing.T) {
	assert.Nil(t, flatten(nil))
	assert.Equal(t, []interface{}{1, "a", 2, "b"}, flatten([][]interface{}{{1, "a"}, {2, "b"}}))
}

func TestChunkRows(t *testing.T) {
	data := make([][]interface{}, 10)
	for i := range data {
		data[i] = make([]interface{}, 20000)
	}
	chunks := chunkRows(data, 20000)
	require.Len(t, chunks, 4)
	assert.Len(t, chunks[0], 3)
	assert.Len(t, chunks[3], 1)

	assert.Len(t, chunkRows(data[:2], 3), 1)
	assert.Nil(t, chunkRows(nil, 3))
}

func TestPgType(t *testing.T) {
	var deleted *time.Time
	var note *string
	assert.Equal(t, "BIGINT", pgType(5))
	assert.Equal(t, "BIGINT", pgType(int64(5)))
	assert.Equal(t, "DOUBLE PRECISION", pgType(1.5))
	assert.Equal(t, "TEXT", pgType("x"))
	assert.Equal(t, "TEXT", pgType(note))
	assert.Equal(t, "TIMESTAMP", pgType(time.Now()))
	assert.Equal(t, "TIMESTAMP", pgType(deleted))
}

func TestTablesFor(t *testing.T) {
	tb := tablesFor(domain.Commercial)
	assert.Equal(t, "objects_commercial", tb.data)
	assert.Equal(t, "objects_commercial__othersource_data", tb.hash)
	assert.Equal(t, "objects_commercial_source_photos", tb.sourcePhotos)
	assert.Equal(t, "objects_commercial_photos", tb.photos)
	assert.Equal(t, "objects_commercial_types", tb.subtypes)
}

func TestSetFromValues(t *testing.T) {
	assert.Equal(t, `"price" = vals."price", "deal" = vals."deal"`, setFromValues([]string{"price", "deal"}))
	assert.Equal(t, `"price", "deal"`, quoteIdents([]string{"price", "deal"}))
}

func TestDataColumnsSkipAddress(t *testing.T) {
	l := &domain.Listing{PropertyType: domain.Flats, Fields: &domain.FlatFields{}}
	for _, name := range columnNames(l.DataColumns()) {
		assert.False(t, domain.IsAddressColumn(name), name)
	}
	assert.Greater(t, len(l.Columns()), len(l.DataColumns()))
}

func TestCheckContiguous(t *testing.T) {
	assert.NoError(t, checkContiguous([]int64{10, 11, 12}, 3))
	assert.Error(t, checkContiguous([]int64{10, 12, 13}, 3))
	assert.Error(t, checkContiguous([]int64{10, 11}, 3))
}

func TestDedupeHashRows(t *testing.T) {
	rows := dedupeHashRows([]domain.HashRow{
		{ObjectID: 1, DataHash: "a"},
		{ObjectID: 2, DataHash: "b"},
		{ObjectID: 1, DataHash: "c"},
	})
	assert.Equal(t, []domain.HashRow{{ObjectID: 1, DataHash: "c"}, {ObjectID: 2, DataHash: "b"}}, rows)
}
