package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"inventory-hub/internal/domain"
	"inventory-hub/internal/observability"
)

// athenaAPI is the subset of the Athena client the engine uses.
type athenaAPI interface {
	athena.GetQueryResultsAPIClient
	StartQueryExecution(ctx context.Context, in *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, in *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	StopQueryExecution(ctx context.Context, in *athena.StopQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StopQueryExecutionOutput, error)
}

// AthenaOptions configures the Athena engine.
type AthenaOptions struct {
	WorkGroup      string
	MaxResultPages int // bound on GetQueryResults pages per job; 0 means 50
	Logger         *slog.Logger
}

// Athena runs queries on Amazon Athena.
type Athena struct {
	client         athenaAPI
	workGroup      string
	maxResultPages int
	logger         *slog.Logger
}

var _ domain.QueryEngine = (*Athena)(nil)

// NewAthena creates an Athena engine from a loaded AWS config.
func NewAthena(cfg aws.Config, opts AthenaOptions) *Athena {
	return newAthena(athena.NewFromConfig(cfg), opts)
}

func newAthena(client athenaAPI, opts AthenaOptions) *Athena {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pages := opts.MaxResultPages
	if pages <= 0 {
		pages = 50
	}
	return &Athena{
		client:         client,
		workGroup:      opts.WorkGroup,
		maxResultPages: pages,
		logger:         logger,
	}
}

// Name implements domain.QueryEngine.
func (a *Athena) Name() string { return "athena" }

// Ready implements domain.QueryEngine.
func (a *Athena) Ready() error { return nil }

// Submit starts a query execution and returns its execution ID.
func (a *Athena) Submit(ctx context.Context, req domain.QueryRequest) (string, error) {
	ctx, span := observability.StartSpan(ctx, "athena.StartQueryExecution",
		attribute.String("db.name", req.Database))
	defer span.End()

	in := &athena.StartQueryExecutionInput{
		QueryString:        aws.String(req.Query),
		ClientRequestToken: aws.String(uuid.NewString()),
	}
	if req.Database != "" {
		in.QueryExecutionContext = &types.QueryExecutionContext{Database: aws.String(req.Database)}
	}
	if req.ResultSink != "" {
		in.ResultConfiguration = &types.ResultConfiguration{OutputLocation: aws.String(req.ResultSink)}
	}
	if a.workGroup != "" {
		in.WorkGroup = aws.String(a.workGroup)
	}

	out, err := a.client.StartQueryExecution(ctx, in)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("start query execution: %w", err)
	}
	id := aws.ToString(out.QueryExecutionId)
	if id == "" {
		return "", fmt.Errorf("start query execution: empty execution id")
	}
	span.SetAttributes(attribute.String("query.id", id))
	return id, nil
}

// Status reports the execution state. The state change reason is passed
// through verbatim.
func (a *Athena) Status(ctx context.Context, jobID string) (domain.EngineStatus, error) {
	out, err := a.client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
		QueryExecutionId: aws.String(jobID),
	})
	if err != nil {
		return domain.EngineStatus{}, fmt.Errorf("get query execution: %w", err)
	}
	qe := out.QueryExecution
	if qe == nil || qe.Status == nil {
		return domain.EngineStatus{State: domain.QueryJobSubmitted}, nil
	}
	st := domain.EngineStatus{
		State:  mapAthenaState(qe.Status.State),
		Reason: aws.ToString(qe.Status.StateChangeReason),
	}
	if qe.ResultConfiguration != nil {
		st.ResultLocation = aws.ToString(qe.ResultConfiguration.OutputLocation)
	}
	return st, nil
}

func mapAthenaState(s types.QueryExecutionState) domain.QueryJobState {
	switch s {
	case types.QueryExecutionStateRunning:
		return domain.QueryJobRunning
	case types.QueryExecutionStateSucceeded:
		return domain.QueryJobSucceeded
	case types.QueryExecutionStateFailed:
		return domain.QueryJobFailed
	case types.QueryExecutionStateCancelled:
		return domain.QueryJobCancelled
	default:
		return domain.QueryJobSubmitted
	}
}

// Results pages through GetQueryResults. Rows[0] is the header row Athena
// returns for SELECT statements; a nil VarCharValue is a SQL NULL.
func (a *Athena) Results(ctx context.Context, jobID string) (*domain.RawResult, error) {
	ctx, span := observability.StartSpan(ctx, "athena.GetQueryResults",
		attribute.String("query.id", jobID))
	defer span.End()

	p := athena.NewGetQueryResultsPaginator(a.client, &athena.GetQueryResultsInput{
		QueryExecutionId: aws.String(jobID),
		MaxResults:       aws.Int32(1000),
	})

	raw := &domain.RawResult{Rows: make([][]*string, 0)}
	pages := 0
	for p.HasMorePages() {
		if pages >= a.maxResultPages {
			a.logger.WarnContext(ctx, "athena result truncated", "query_id", jobID, "pages", pages)
			raw.Truncated = true
			break
		}
		page, err := p.NextPage(ctx)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("get query results: %w", err)
		}
		pages++
		if page.ResultSet == nil {
			continue
		}
		if raw.Columns == nil && page.ResultSet.ResultSetMetadata != nil {
			raw.Columns = columnLabels(page.ResultSet.ResultSetMetadata.ColumnInfo)
		}
		for _, row := range page.ResultSet.Rows {
			cells := make([]*string, len(row.Data))
			for i, d := range row.Data {
				if d.VarCharValue != nil {
					v := *d.VarCharValue
					cells[i] = &v
				}
			}
			raw.Rows = append(raw.Rows, cells)
		}
	}
	if raw.Columns == nil && len(raw.Rows) > 0 {
		raw.Columns = headerLabels(raw.Rows[0])
	}
	span.SetAttributes(
		attribute.Int("result.pages", pages),
		attribute.Int("result.rows", len(raw.Rows)),
		attribute.Bool("result.truncated", raw.Truncated),
	)
	return raw, nil
}

func columnLabels(info []types.ColumnInfo) []string {
	out := make([]string, len(info))
	for i, c := range info {
		out[i] = aws.ToString(c.Label)
		if out[i] == "" {
			out[i] = aws.ToString(c.Name)
		}
	}
	return out
}

func headerLabels(row []*string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		if c != nil {
			out[i] = *c
		}
	}
	return out
}

// Cancel stops a running execution.
func (a *Athena) Cancel(ctx context.Context, jobID string) error {
	_, err := a.client.StopQueryExecution(ctx, &athena.StopQueryExecutionInput{
		QueryExecutionId: aws.String(jobID),
	})
	if err != nil {
		return fmt.Errorf("stop query execution: %w", err)
	}
	return nil
}
