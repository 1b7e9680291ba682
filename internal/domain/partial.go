package domain

import "errors"

// Source names an upstream data source.
type Source string

// Known upstream sources.
const (
	SourceProducts  Source = "products"
	SourceOrders    Source = "orders"
	SourceSuppliers Source = "suppliers"
)

// PartialStatus is the outcome of one upstream call inside a fan-out.
type PartialStatus string

// Partial result statuses.
const (
	PartialOK          PartialStatus = "OK"
	PartialUnavailable PartialStatus = "UNAVAILABLE"
	PartialNotFound    PartialStatus = "NOT_FOUND"
)

// PartialResult is the outcome of one upstream call within an aggregation.
// Payload is non-nil iff Status is OK.
type PartialResult[T any] struct {
	Source  Source        `json:"source"`
	Status  PartialStatus `json:"status"`
	Payload *T            `json:"payload,omitempty"`
	Err     error         `json:"-"`
}

// OK reports whether the call produced a payload.
func (p PartialResult[T]) OK() bool { return p.Status == PartialOK && p.Payload != nil }

// Succeeded wraps a payload.
func Succeeded[T any](source Source, payload *T) PartialResult[T] {
	if payload == nil {
		return PartialResult[T]{Source: source, Status: PartialNotFound}
	}
	return PartialResult[T]{Source: source, Status: PartialOK, Payload: payload}
}

// Failed classifies err as NOT_FOUND (upstream 404) or UNAVAILABLE.
func Failed[T any](source Source, err error) PartialResult[T] {
	status := PartialUnavailable
	var up *UpstreamError
	if errors.As(err, &up) && up.NotFound() {
		status = PartialNotFound
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		status = PartialNotFound
	}
	return PartialResult[T]{Source: source, Status: status, Err: err}
}
