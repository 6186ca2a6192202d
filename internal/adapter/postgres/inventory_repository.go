package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"coffeehouse/internal/domain"
	"coffeehouse/internal/interfaces"
)

// The branch inventory is stored as one JSONB document per branch with a
// version column. Every write replaces the whole document conditionally on
// the version read with it, which is what makes checkout's validate+deduct
// safe against concurrent sessions.
type inventoryRepository struct {
	db DB
}

func NewInventoryRepository(db DB) interfaces.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetBranch(ctx context.Context, branchID string) (*domain.Branch, error) {
	query := `
		SELECT id, name, inventory, version
		FROM branches
		WHERE id = $1
	`

	var (
		branch domain.Branch
		raw    []byte
	)
	err := r.db.QueryRow(ctx, query, branchID).Scan(&branch.ID, &branch.Name, &raw, &branch.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBranchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load branch: %w", err)
	}

	if err := json.Unmarshal(raw, &branch.Stock); err != nil {
		return nil, fmt.Errorf("failed to decode inventory document: %w", err)
	}
	if branch.Stock == nil {
		branch.Stock = domain.Stock{}
	}

	return &branch, nil
}

func (r *inventoryRepository) ListBranches(ctx context.Context) ([]*domain.Branch, error) {
	query := `
		SELECT id, name, inventory, version
		FROM branches
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	var branches []*domain.Branch
	for rows.Next() {
		var (
			branch domain.Branch
			raw    []byte
		)
		if err := rows.Scan(&branch.ID, &branch.Name, &raw, &branch.Version); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		if err := json.Unmarshal(raw, &branch.Stock); err != nil {
			return nil, fmt.Errorf("failed to decode inventory document: %w", err)
		}
		branches = append(branches, &branch)
	}

	return branches, nil
}

func (r *inventoryRepository) UpdateStock(ctx context.Context, branchID string, stock domain.Stock, expectedVersion int64) error {
	raw, err := json.Marshal(stock)
	if err != nil {
		return fmt.Errorf("failed to encode inventory document: %w", err)
	}

	query := `
		UPDATE branches
		SET inventory = $2, version = version + 1
		WHERE id = $1 AND version = $3
	`

	tag, err := r.db.Exec(ctx, query, branchID, raw, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the branch vanished or another writer bumped the version.
		if _, err := r.GetBranch(ctx, branchID); err != nil {
			return err
		}
		return domain.ErrStockConflict
	}

	return nil
}
