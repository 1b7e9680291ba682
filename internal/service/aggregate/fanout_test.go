package aggregate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"inventory-hub/internal/domain"
)

func TestGather_KOfNFailures(t *testing.T) {
	const n = 10
	failing := map[int]bool{1: true, 4: true, 7: true}

	tasks := make([]task[int], n)
	for i := range tasks {
		tasks[i] = task[int]{source: domain.SourceProducts, fetch: func(context.Context) (*int, error) {
			if failing[i] {
				return nil, errors.New("boom")
			}
			v := i * i
			return &v, nil
		}}
	}

	results := gather(context.Background(), 4, tasks)

	assert.Len(t, results, n)
	okCount := 0
	for i, res := range results {
		if failing[i] {
			assert.Equal(t, domain.PartialUnavailable, res.Status)
			assert.Nil(t, res.Payload)
			continue
		}
		okCount++
		assert.True(t, res.OK())
		assert.Equal(t, i*i, *res.Payload)
	}
	assert.Equal(t, n-len(failing), okCount)
}

func TestGather_Empty(t *testing.T) {
	assert.Empty(t, gather[int](context.Background(), 8, nil))
}

func TestCapture_NotFound(t *testing.T) {
	res := capture(context.Background(), task[int]{source: domain.SourceOrders, fetch: func(context.Context) (*int, error) {
		return nil, &domain.UpstreamError{Source: domain.SourceOrders, StatusCode: 404}
	}})
	assert.Equal(t, domain.PartialNotFound, res.Status)
	assert.Equal(t, domain.SourceOrders, res.Source)
}
