package aggregate

import (
	"context"

	"inventory-hub/internal/domain"
)

// ActiveSuppliers lists suppliers in the ACTIVO state.
func (a *Aggregator) ActiveSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	suppliers, err := a.suppliers.ListSuppliersByStatus(ctx, domain.SupplierActive)
	if err != nil {
		return nil, listError("list active suppliers", err)
	}
	return suppliers, nil
}
