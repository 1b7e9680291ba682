package engine

import (
	"context"

	"inventory-hub/internal/domain"
)

// Unconfigured is installed when no query engine could be built. Every
// operation fails with *domain.EngineNotConfiguredError.
type Unconfigured struct {
	Reason string
}

var _ domain.QueryEngine = (*Unconfigured)(nil)

// NewUnconfigured returns an engine that refuses all work for reason.
func NewUnconfigured(reason string) *Unconfigured {
	return &Unconfigured{Reason: reason}
}

func (u *Unconfigured) err() error { return &domain.EngineNotConfiguredError{Reason: u.Reason} }

func (u *Unconfigured) Name() string { return "none" }

func (u *Unconfigured) Ready() error { return u.err() }

func (u *Unconfigured) Submit(context.Context, domain.QueryRequest) (string, error) {
	return "", u.err()
}

func (u *Unconfigured) Status(context.Context, string) (domain.EngineStatus, error) {
	return domain.EngineStatus{}, u.err()
}

func (u *Unconfigured) Results(context.Context, string) (*domain.RawResult, error) {
	return nil, u.err()
}

func (u *Unconfigured) Cancel(context.Context, string) error { return u.err() }
