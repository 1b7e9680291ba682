package domain

// RawResult is the columnar output of a finished engine job. Rows[0] is
// always the header row; a nil cell is a SQL NULL. Truncated is set when the
// engine stopped reading before the last row.
type RawResult struct {
	Columns   []string
	Rows      [][]*string
	Truncated bool
}

// Record maps every column of a ResultTable to a nullable value.
type Record map[string]*string

// ResultTable is the decoded output of a succeeded query job.
type ResultTable struct {
	JobID          string   `json:"job_id,omitempty"`
	Columns        []string `json:"columns"`
	Rows           []Record `json:"data"`
	RowCount       int      `json:"row_count"`
	ResultLocation string   `json:"result_location,omitempty"`
	DownloadURL    string   `json:"download_url,omitempty"`
	// Truncated means Rows holds only a prefix of the result.
	Truncated bool `json:"truncated,omitempty"`
}

// NewResultTable drops the header row of raw and zips each remaining row
// against the column list. Short rows are padded with nulls and extra cells
// are ignored, so every record has exactly the column key set.
func NewResultTable(raw RawResult) *ResultTable {
	columns := append([]string(nil), raw.Columns...)
	t := &ResultTable{Columns: columns, Rows: make([]Record, 0), Truncated: raw.Truncated}
	if len(raw.Rows) <= 1 {
		return t
	}
	for _, row := range raw.Rows[1:] {
		rec := make(Record, len(columns))
		for i, col := range columns {
			if i < len(row) && row[i] != nil {
				v := *row[i]
				rec[col] = &v
			} else {
				rec[col] = nil
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	t.RowCount = len(t.Rows)
	return t
}

// Value returns the cell for column in row i and whether it is non-null.
func (t *ResultTable) Value(i int, column string) (string, bool) {
	if i < 0 || i >= len(t.Rows) {
		return "", false
	}
	v := t.Rows[i][column]
	if v == nil {
		return "", false
	}
	return *v, true
}
