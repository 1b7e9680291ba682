package query

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-hub/internal/domain"
	"inventory-hub/internal/testutil"
)

type fakeExecutor struct {
	queries []string
	table   *domain.ResultTable
	err     error
}

func (f *fakeExecutor) Execute(_ context.Context, req domain.QueryRequest) (*domain.ResultTable, error) {
	f.queries = append(f.queries, req.Query)
	if f.err != nil {
		return nil, f.err
	}
	return f.table, nil
}

func TestReports_List(t *testing.T) {
	infos := NewReports(&fakeExecutor{}).List()
	require.Len(t, infos, 8)
	for i := 1; i < len(infos); i++ {
		assert.Less(t, infos[i-1].Name, infos[i].Name)
	}
	for _, info := range infos {
		if info.Name == ReportTopProducts {
			assert.Equal(t, map[string]int{"limit": 20}, info.Parameters)
			assert.Equal(t, "Top 20 Productos Más Vendidos", info.Title)
		}
	}
}

func TestReports_Run(t *testing.T) {
	table := domain.NewResultTable(*testutil.Table([]string{"producto"}, []*string{testutil.Str("Laptop")}))

	t.Run("defaults", func(t *testing.T) {
		exec := &fakeExecutor{table: table}
		report, err := NewReports(exec).Run(context.Background(), ReportCriticalStock, nil)
		require.NoError(t, err)
		assert.Equal(t, "Productos con Stock Crítico (< 50 unidades)", report.Title)
		assert.Equal(t, 1, report.RowCount)
		require.Len(t, exec.queries, 1)
		assert.Contains(t, exec.queries[0], "WHERE p.stock < 50")
	})

	t.Run("override", func(t *testing.T) {
		exec := &fakeExecutor{table: table}
		report, err := NewReports(exec).Run(context.Background(), ReportTopCustomers, map[string]int{"limit": 5})
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"limit": 5}, report.Parameters)
		assert.Contains(t, exec.queries[0], "LIMIT 5")
	})

	t.Run("unknown_report", func(t *testing.T) {
		_, err := NewReports(&fakeExecutor{}).Run(context.Background(), "nope", nil)
		var nf *domain.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})

	t.Run("out_of_range", func(t *testing.T) {
		exec := &fakeExecutor{}
		for _, v := range []int{0, -3, 1001} {
			_, err := NewReports(exec).Run(context.Background(), ReportTopProducts, map[string]int{"limit": v})
			var ve *domain.ValidationError
			assert.ErrorAs(t, err, &ve)
		}
		assert.Empty(t, exec.queries)
	})

	t.Run("unknown_param", func(t *testing.T) {
		_, err := NewReports(&fakeExecutor{}).Run(context.Background(), ReportSalesByCategory, map[string]int{"limit": 5})
		var ve *domain.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("engine_error_propagates", func(t *testing.T) {
		exec := &fakeExecutor{err: &domain.QueryTimedOutError{JobID: "j", Attempts: 30}}
		_, err := NewReports(exec).Run(context.Background(), ReportMonthlyTrends, nil)
		assert.Equal(t, domain.KindQueryTimedOut, domain.ErrorKind(err))
	})

	t.Run("not_configured_propagates", func(t *testing.T) {
		exec := &fakeExecutor{err: domain.ErrEngineNotConfigured("no credentials")}
		_, err := NewReports(exec).Run(context.Background(), ReportStockRotation, nil)
		assert.Equal(t, domain.KindEngineNotConfigured, domain.ErrorKind(err))
	})
}

func TestReports_KPIsDegradeWhenNotConfigured(t *testing.T) {
	exec := &fakeExecutor{err: domain.ErrEngineNotConfigured("no credentials")}

	report, err := NewReports(exec).Run(context.Background(), ReportKPIs, nil)
	require.NoError(t, err)
	assert.True(t, report.Degraded)
	assert.Contains(t, report.Reason, "no credentials")
	assert.Nil(t, report.ResultTable)

	out, err := json.Marshal(report)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"data"`)
	assert.Contains(t, string(out), `"degraded":true`)
}

func TestReports_Custom(t *testing.T) {
	exec := &fakeExecutor{table: &domain.ResultTable{}}
	r := NewReports(exec)

	_, err := r.Custom(context.Background(), domain.QueryRequest{Query: ""})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = r.Custom(context.Background(), domain.QueryRequest{Query: "SELECT COUNT(*) FROM productos"})
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT COUNT(*) FROM productos"}, exec.queries)
}
