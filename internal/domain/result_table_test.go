package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewResultTable(t *testing.T) {
	t.Run("zips_rows_in_order", func(t *testing.T) {
		raw := RawResult{
			Columns: []string{"name", "count"},
			Rows: [][]*string{
				{strPtr("name"), strPtr("count")},
				{strPtr("a"), strPtr("1")},
				{strPtr("b"), strPtr("2")},
			},
		}

		table := NewResultTable(raw)

		assert.Equal(t, []string{"name", "count"}, table.Columns)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, 2, table.RowCount)
		assert.Equal(t, "a", *table.Rows[0]["name"])
		assert.Equal(t, "1", *table.Rows[0]["count"])
		assert.Equal(t, "b", *table.Rows[1]["name"])
		assert.Equal(t, "2", *table.Rows[1]["count"])
	})

	t.Run("header_row_never_appears_as_data", func(t *testing.T) {
		raw := RawResult{
			Columns: []string{"producto"},
			Rows:    [][]*string{{strPtr("producto")}},
		}

		table := NewResultTable(raw)

		assert.Empty(t, table.Rows)
		assert.Equal(t, 0, table.RowCount)
	})

	t.Run("null_cells_stay_null", func(t *testing.T) {
		raw := RawResult{
			Columns: []string{"a", "b"},
			Rows: [][]*string{
				{strPtr("a"), strPtr("b")},
				{nil, strPtr("")},
			},
		}

		table := NewResultTable(raw)

		require.Len(t, table.Rows, 1)
		assert.Nil(t, table.Rows[0]["a"])
		require.NotNil(t, table.Rows[0]["b"])
		assert.Equal(t, "", *table.Rows[0]["b"])

		out, err := json.Marshal(table.Rows[0])
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":null,"b":""}`, string(out))
	})

	t.Run("short_and_long_rows_keep_column_key_set", func(t *testing.T) {
		raw := RawResult{
			Columns: []string{"x", "y"},
			Rows: [][]*string{
				{strPtr("x"), strPtr("y")},
				{strPtr("1")},
				{strPtr("2"), strPtr("3"), strPtr("extra")},
			},
		}

		table := NewResultTable(raw)

		require.Len(t, table.Rows, 2)
		for _, rec := range table.Rows {
			assert.Len(t, rec, 2)
			assert.Contains(t, rec, "x")
			assert.Contains(t, rec, "y")
		}
		assert.Nil(t, table.Rows[0]["y"])
		v, ok := table.Value(1, "y")
		assert.True(t, ok)
		assert.Equal(t, "3", v)
	})

	t.Run("empty_result", func(t *testing.T) {
		table := NewResultTable(RawResult{Columns: []string{"a"}})
		assert.NotNil(t, table.Rows)
		assert.Equal(t, 0, table.RowCount)
	})
}
