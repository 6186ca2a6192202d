package reporting

import (
	"context"
	"sort"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/interfaces"
)

// Service aggregates persisted orders into per-branch sales figures:
// revenue, cost, profit, per-item and per-day breakdowns.
type Service struct {
	orderRepo interfaces.OrderRepository
	logger    logger.Logger
}

func NewService(orderRepo interfaces.OrderRepository, logger logger.Logger) *Service {
	return &Service{orderRepo: orderRepo, logger: logger}
}

func (s *Service) SalesSummary(ctx context.Context, branchID string) (*interfaces.SalesSummary, error) {
	orders, err := s.orderRepo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	summary := &interfaces.SalesSummary{BranchID: branchID}
	byItem := make(map[string]*interfaces.ItemSales)
	byDay := make(map[string]*interfaces.DailySales)

	for _, order := range orders {
		summary.Orders++
		summary.Revenue += order.TotalPrice
		summary.Cost += order.TotalCost
		summary.UnitsSold += order.TotalQuantity

		day := order.OrderedAt.Format("2006-01-02")
		daily, ok := byDay[day]
		if !ok {
			daily = &interfaces.DailySales{Day: day}
			byDay[day] = daily
		}
		daily.Orders++
		daily.Revenue += order.TotalPrice

		for _, line := range order.Lines {
			item, ok := byItem[line.Item]
			if !ok {
				item = &interfaces.ItemSales{Item: line.Item}
				byItem[line.Item] = item
			}
			item.Units += line.Quantity
			item.Revenue += line.UnitPrice * float64(line.Quantity)
			item.Cost += line.UnitCost * float64(line.Quantity)
		}
	}

	summary.Profit = summary.Revenue - summary.Cost

	for _, item := range byItem {
		summary.ByItem = append(summary.ByItem, *item)
	}
	sort.Slice(summary.ByItem, func(i, j int) bool {
		if summary.ByItem[i].Revenue != summary.ByItem[j].Revenue {
			return summary.ByItem[i].Revenue > summary.ByItem[j].Revenue
		}
		return summary.ByItem[i].Item < summary.ByItem[j].Item
	})

	for _, daily := range byDay {
		summary.ByDay = append(summary.ByDay, *daily)
	}
	sort.Slice(summary.ByDay, func(i, j int) bool {
		return summary.ByDay[i].Day < summary.ByDay[j].Day
	})

	return summary, nil
}
