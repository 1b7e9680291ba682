package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-hub/internal/domain"
)

func TestPrintTable_Basic(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []string{"name", "age"}, [][]string{{"Alice", "30"}, {"Bob", "25"}})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.Len(t, lines, 3, "expected header + 2 data rows")
	assert.Equal(t, "NAME   AGE", lines[0])
	assert.Equal(t, "Alice  30", lines[1])
	assert.Equal(t, "Bob    25", lines[2])
}

func TestPrintTable_EmptyColumns(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []string{}, [][]string{{"a"}})
	assert.Empty(t, buf.String())
}

func TestPrintTable_ShortRowsPadded(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []string{"a", "b"}, [][]string{{"1"}})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[1])
}

func TestFitWidths(t *testing.T) {
	widths := []int{40, 10, 30}
	fitWidths(widths, 60)
	assert.LessOrEqual(t, widths[0]+widths[1]+widths[2]+4, 60)
	assert.Equal(t, 10, widths[1])

	unlimited := []int{40, 10}
	fitWidths(unlimited, 0)
	assert.Equal(t, []int{40, 10}, unlimited)

	floor := []int{20, 20}
	fitWidths(floor, 5)
	assert.Equal(t, []int{minColumnWidth, minColumnWidth}, floor)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "he...", truncate("hello world", 5))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "ñañ...", truncate("ñañañaña", 6))
}

func TestPrintJSON_Indented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]string{"hello": "world"}))

	var parsed map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "world", parsed["hello"])
	assert.Contains(t, buf.String(), "\n  ")
}

func TestPrintYAML_UsesJSONNames(t *testing.T) {
	type row struct {
		Name  string  `json:"nombre"`
		Stock int     `json:"stock_actual"`
		SKU   *string `json:"sku"`
	}
	var buf bytes.Buffer
	require.NoError(t, printYAML(&buf, row{Name: "Laptop", Stock: 3}))
	out := buf.String()
	assert.Contains(t, out, "nombre: Laptop")
	assert.Contains(t, out, "stock_actual: 3")
	assert.Contains(t, out, "sku: null")
}

func TestPrintDetail_Padding(t *testing.T) {
	var buf bytes.Buffer
	printDetail(&buf, [][2]string{{"id", "1"}, {"status", "ok"}})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id:      1", lines[0])
	assert.Equal(t, "status:  ok", lines[1])
}

func TestValidateOutputFormat(t *testing.T) {
	for _, ok := range []string{"", "table", "json", "yaml"} {
		assert.NoError(t, validateOutputFormat(ok))
	}
	assert.Error(t, validateOutputFormat("xml"))
}

func TestPrintResultTable_MarksTruncation(t *testing.T) {
	v := "1"
	table := &domain.ResultTable{Columns: []string{"x"}, Rows: []domain.Record{{"x": &v}}, RowCount: 1}

	var buf bytes.Buffer
	printResultTable(&buf, table)
	assert.Contains(t, buf.String(), "(1 rows)\n")

	table.Truncated = true
	buf.Reset()
	printResultTable(&buf, table)
	assert.Contains(t, buf.String(), "(1 rows, truncated)\n")
}
