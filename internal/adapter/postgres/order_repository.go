package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"coffeehouse/internal/domain"
	"coffeehouse/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (id, branch_id, customer, total_quantity, total_price, total_cost,
		                    ordered_at, prepared_at, prepared_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, query,
		order.ID, order.BranchID, order.Customer, order.TotalQuantity, order.TotalPrice,
		order.TotalCost, order.OrderedAt, order.PreparedAt, order.PreparedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range order.Lines {
		lineQuery := `
			INSERT INTO order_lines (order_id, item, quantity, unit_price, unit_cost)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.Exec(ctx, lineQuery, order.ID, line.Item, line.Quantity, line.UnitPrice, line.UnitCost); err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `
		SELECT id, branch_id, customer, total_quantity, total_price, total_cost,
		       ordered_at, prepared_at, prepared_by
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	err := r.db.QueryRow(ctx, query, orderID).Scan(
		&order.ID, &order.BranchID, &order.Customer, &order.TotalQuantity, &order.TotalPrice,
		&order.TotalCost, &order.OrderedAt, &order.PreparedAt, &order.PreparedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("order %s not found", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := r.loadLines(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customer string) ([]*domain.Order, error) {
	query := `
		SELECT id, branch_id, customer, total_quantity, total_price, total_cost,
		       ordered_at, prepared_at, prepared_by
		FROM orders
		WHERE customer = $1
		ORDER BY ordered_at DESC
	`
	return r.list(ctx, query, customer)
}

func (r *orderRepository) ListByBranch(ctx context.Context, branchID string) ([]*domain.Order, error) {
	query := `
		SELECT id, branch_id, customer, total_quantity, total_price, total_cost,
		       ordered_at, prepared_at, prepared_by
		FROM orders
		WHERE branch_id = $1
		ORDER BY ordered_at ASC
	`
	return r.list(ctx, query, branchID)
}

func (r *orderRepository) ListUnprepared(ctx context.Context, branchID string) ([]*domain.Order, error) {
	query := `
		SELECT id, branch_id, customer, total_quantity, total_price, total_cost,
		       ordered_at, prepared_at, prepared_by
		FROM orders
		WHERE branch_id = $1 AND prepared_at IS NULL
		ORDER BY ordered_at ASC
	`
	return r.list(ctx, query, branchID)
}

// MarkPrepared stamps the preparation time exactly once; a second attempt
// reports domain.ErrAlreadyPrepared instead of overwriting the first stamp.
func (r *orderRepository) MarkPrepared(ctx context.Context, orderID string, at time.Time, by string) error {
	query := `
		UPDATE orders
		SET prepared_at = $2, prepared_by = $3
		WHERE id = $1 AND prepared_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, orderID, at, by)
	if err != nil {
		return fmt.Errorf("failed to mark order prepared: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyPrepared
	}
	return nil
}


func (r *orderRepository) list(ctx context.Context, query string, arg any) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.BranchID, &order.Customer, &order.TotalQuantity, &order.TotalPrice,
			&order.TotalCost, &order.OrderedAt, &order.PreparedAt, &order.PreparedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, &order)
	}
	rows.Close()

	for _, order := range orders {
		if err := r.loadLines(ctx, order); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *orderRepository) loadLines(ctx context.Context, order *domain.Order) error {
	query := `
		SELECT item, quantity, unit_price, unit_cost
		FROM order_lines
		WHERE order_id = $1
	`
	rows, err := r.db.Query(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.Item, &line.Quantity, &line.UnitPrice, &line.UnitCost); err != nil {
			return fmt.Errorf("failed to scan order line: %w", err)
		}
		order.Lines = append(order.Lines, line)
	}

	return nil
}
