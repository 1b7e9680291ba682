package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-hub/internal/domain"
)

type fakeAthena struct {
	started   *athena.StartQueryExecutionInput
	startErr  error
	execution *types.QueryExecution
	pages     []*athena.GetQueryResultsOutput
	pageCalls int
	stopped   string
}

func (f *fakeAthena) StartQueryExecution(_ context.Context, in *athena.StartQueryExecutionInput, _ ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error) {
	f.started = in
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &athena.StartQueryExecutionOutput{QueryExecutionId: aws.String("qe-1")}, nil
}

func (f *fakeAthena) GetQueryExecution(_ context.Context, _ *athena.GetQueryExecutionInput, _ ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error) {
	return &athena.GetQueryExecutionOutput{QueryExecution: f.execution}, nil
}

func (f *fakeAthena) GetQueryResults(_ context.Context, _ *athena.GetQueryResultsInput, _ ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error) {
	out := f.pages[f.pageCalls]
	f.pageCalls++
	return out, nil
}

func (f *fakeAthena) StopQueryExecution(_ context.Context, in *athena.StopQueryExecutionInput, _ ...func(*athena.Options)) (*athena.StopQueryExecutionOutput, error) {
	f.stopped = aws.ToString(in.QueryExecutionId)
	return &athena.StopQueryExecutionOutput{}, nil
}

func row(cells ...*string) types.Row {
	data := make([]types.Datum, len(cells))
	for i, c := range cells {
		data[i] = types.Datum{VarCharValue: c}
	}
	return types.Row{Data: data}
}

func TestAthena_Submit(t *testing.T) {
	fake := &fakeAthena{}
	a := newAthena(fake, AthenaOptions{WorkGroup: "primary"})

	id, err := a.Submit(context.Background(), domain.QueryRequest{
		Query:      "SELECT 1",
		Database:   "inventario_db",
		ResultSink: "s3://inventario-athena-results/",
	})
	require.NoError(t, err)
	assert.Equal(t, "qe-1", id)

	in := fake.started
	require.NotNil(t, in)
	assert.Equal(t, "SELECT 1", aws.ToString(in.QueryString))
	assert.Equal(t, "inventario_db", aws.ToString(in.QueryExecutionContext.Database))
	assert.Equal(t, "s3://inventario-athena-results/", aws.ToString(in.ResultConfiguration.OutputLocation))
	assert.Equal(t, "primary", aws.ToString(in.WorkGroup))
	assert.Len(t, aws.ToString(in.ClientRequestToken), 36)
}

func TestAthena_SubmitError(t *testing.T) {
	fake := &fakeAthena{startErr: errors.New("AccessDenied")}
	a := newAthena(fake, AthenaOptions{})

	_, err := a.Submit(context.Background(), domain.QueryRequest{Query: "SELECT 1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestAthena_Status(t *testing.T) {
	tests := []struct {
		state types.QueryExecutionState
		want  domain.QueryJobState
	}{
		{types.QueryExecutionStateQueued, domain.QueryJobSubmitted},
		{types.QueryExecutionStateRunning, domain.QueryJobRunning},
		{types.QueryExecutionStateSucceeded, domain.QueryJobSucceeded},
		{types.QueryExecutionStateFailed, domain.QueryJobFailed},
		{types.QueryExecutionStateCancelled, domain.QueryJobCancelled},
	}
	for _, tc := range tests {
		t.Run(string(tc.state), func(t *testing.T) {
			fake := &fakeAthena{execution: &types.QueryExecution{
				Status: &types.QueryExecutionStatus{
					State:             tc.state,
					StateChangeReason: aws.String("SYNTAX_ERROR: line 1:8: Column 'x' cannot be resolved"),
				},
				ResultConfiguration: &types.ResultConfiguration{OutputLocation: aws.String("s3://b/qe-1.csv")},
			}}
			st, err := newAthena(fake, AthenaOptions{}).Status(context.Background(), "qe-1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, st.State)
			assert.Equal(t, "SYNTAX_ERROR: line 1:8: Column 'x' cannot be resolved", st.Reason)
			assert.Equal(t, "s3://b/qe-1.csv", st.ResultLocation)
		})
	}
}

func TestAthena_Results(t *testing.T) {
	meta := &types.ResultSetMetadata{ColumnInfo: []types.ColumnInfo{
		{Name: aws.String("categoria"), Label: aws.String("categoria")},
		{Name: aws.String("total")},
	}}

	t.Run("pages_and_nulls", func(t *testing.T) {
		fake := &fakeAthena{pages: []*athena.GetQueryResultsOutput{
			{
				ResultSet: &types.ResultSet{
					ResultSetMetadata: meta,
					Rows: []types.Row{
						row(aws.String("categoria"), aws.String("total")),
						row(aws.String("Electronica"), aws.String("10")),
					},
				},
				NextToken: aws.String("t2"),
			},
			{
				ResultSet: &types.ResultSet{
					Rows: []types.Row{row(aws.String("Hogar"), nil)},
				},
			},
		}}

		raw, err := newAthena(fake, AthenaOptions{}).Results(context.Background(), "qe-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"categoria", "total"}, raw.Columns)
		require.Len(t, raw.Rows, 3)
		assert.Equal(t, "categoria", *raw.Rows[0][0])
		assert.Nil(t, raw.Rows[2][1])

		assert.False(t, raw.Truncated)

		table := domain.NewResultTable(*raw)
		assert.Equal(t, 2, table.RowCount)
		assert.False(t, table.Truncated)
	})

	t.Run("bounded_pages", func(t *testing.T) {
		page := func(tok *string) *athena.GetQueryResultsOutput {
			return &athena.GetQueryResultsOutput{
				ResultSet: &types.ResultSet{ResultSetMetadata: meta, Rows: []types.Row{row(aws.String("a"), aws.String("1"))}},
				NextToken: tok,
			}
		}
		fake := &fakeAthena{pages: []*athena.GetQueryResultsOutput{
			page(aws.String("t2")), page(aws.String("t3")), page(nil),
		}}

		raw, err := newAthena(fake, AthenaOptions{MaxResultPages: 2}).Results(context.Background(), "qe-1")
		require.NoError(t, err)
		assert.Len(t, raw.Rows, 2)
		assert.Equal(t, 2, fake.pageCalls)
		assert.True(t, raw.Truncated)
		assert.True(t, domain.NewResultTable(*raw).Truncated)
	})

	t.Run("all_pages_within_bound", func(t *testing.T) {
		fake := &fakeAthena{pages: []*athena.GetQueryResultsOutput{
			{ResultSet: &types.ResultSet{ResultSetMetadata: meta, Rows: []types.Row{row(aws.String("a"), aws.String("1"))}}, NextToken: aws.String("t2")},
			{ResultSet: &types.ResultSet{ResultSetMetadata: meta, Rows: []types.Row{row(aws.String("b"), aws.String("2"))}}},
		}}

		raw, err := newAthena(fake, AthenaOptions{MaxResultPages: 2}).Results(context.Background(), "qe-1")
		require.NoError(t, err)
		assert.Len(t, raw.Rows, 2)
		assert.False(t, raw.Truncated)
	})
}

func TestAthena_Cancel(t *testing.T) {
	fake := &fakeAthena{}
	require.NoError(t, newAthena(fake, AthenaOptions{}).Cancel(context.Background(), "qe-9"))
	assert.Equal(t, "qe-9", fake.stopped)
}
