package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/domain"
	"coffeehouse/internal/interfaces"
)

// Per-resource low stock thresholds; anything unlisted alerts below 50.
var lowStockThresholds = map[string]int{
	"coffee_beans": 100,
	"cup":          50,
	"milk":         20,
	"sugar":        10,
}

const defaultThreshold = 50

// Service covers the admin inventory surface: stock overview with low-stock
// alerts, and restocking through the same conditional write the checkout
// workflow uses.
type Service struct {
	inventoryRepo interfaces.InventoryRepository
	logger        logger.Logger
	maxRetries    int
}

func NewService(inventoryRepo interfaces.InventoryRepository, logger logger.Logger, maxRetries int) *Service {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Service{inventoryRepo: inventoryRepo, logger: logger, maxRetries: maxRetries}
}

func (s *Service) Overview(ctx context.Context, branchID string) (*interfaces.InventoryOverview, error) {
	branch, err := s.inventoryRepo.GetBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return overview(branch), nil
}

// Restock adds quantity to one resource. The read-modify-write runs under
// the branch version token and retries on conflict, so concurrent checkouts
// never lose a restock.
func (s *Service) Restock(ctx context.Context, branchID, resource string, quantity int) (*interfaces.InventoryOverview, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		branch, err := s.inventoryRepo.GetBranch(ctx, branchID)
		if err != nil {
			return nil, err
		}

		stock := branch.Stock.Clone()
		stock[resource] += quantity

		err = s.inventoryRepo.UpdateStock(ctx, branchID, stock, branch.Version)
		if errors.Is(err, domain.ErrStockConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.Info("restocked", fmt.Sprintf("Restocked %d units of %s", quantity, resource), "",
			map[string]interface{}{
				"branch_id": branchID,
				"resource":  resource,
				"quantity":  quantity,
			})

		branch.Stock = stock
		return overview(branch), nil
	}

	return nil, domain.ErrStockConflict
}

func overview(branch *domain.Branch) *interfaces.InventoryOverview {
	out := &interfaces.InventoryOverview{
		BranchID:   branch.ID,
		BranchName: branch.Name,
		Stock:      branch.Stock.Clone(),
	}

	resources := make([]string, 0, len(branch.Stock))
	for r := range branch.Stock {
		resources = append(resources, r)
	}
	sort.Strings(resources)

	for _, resource := range resources {
		threshold, ok := lowStockThresholds[resource]
		if !ok {
			threshold = defaultThreshold
		}
		if branch.Stock[resource] < threshold {
			out.LowStock = append(out.LowStock, interfaces.LowStockAlert{
				Resource:  resource,
				Quantity:  branch.Stock[resource],
				Threshold: threshold,
			})
		}
	}
	return out
}
