package postgres

import (
	"context"
	"fmt"
	"time"

	"coffeehouse/internal/domain"
	"coffeehouse/internal/interfaces"
)

type baristaRepository struct {
	db DB
}

func NewBaristaRepository(db DB) interfaces.BaristaRepository {
	return &baristaRepository{db: db}
}

func (r *baristaRepository) Create(ctx context.Context, barista *domain.Barista) error {
	query := `
		INSERT INTO baristas (name, branch_id, status, last_seen, orders_prepared, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		barista.Name, barista.BranchID, barista.Status, barista.LastSeen, barista.OrdersPrepared, barista.CreatedAt,
	).Scan(&barista.ID)
	if err != nil {
		return fmt.Errorf("failed to create barista: %w", err)
	}
	return nil
}

func (r *baristaRepository) FindByName(ctx context.Context, name string) (*domain.Barista, error) {
	query := `
		SELECT id, name, branch_id, status, last_seen, orders_prepared, created_at
		FROM baristas
		WHERE name = $1
	`

	var barista domain.Barista
	err := r.db.QueryRow(ctx, query, name).Scan(
		&barista.ID, &barista.Name, &barista.BranchID, &barista.Status,
		&barista.LastSeen, &barista.OrdersPrepared, &barista.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("barista not found: %w", err)
	}

	return &barista, nil
}

func (r *baristaRepository) Update(ctx context.Context, barista *domain.Barista) error {
	query := `
		UPDATE baristas
		SET branch_id = $1, status = $2, last_seen = $3, orders_prepared = $4
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query,
		barista.BranchID, barista.Status, barista.LastSeen, barista.OrdersPrepared, barista.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update barista: %w", err)
	}
	return nil
}

func (r *baristaRepository) UpdateHeartbeat(ctx context.Context, name string) error {
	query := `
		UPDATE baristas
		SET last_seen = $1, status = $2
		WHERE name = $3
	`
	_, err := r.db.Exec(ctx, query, time.Now(), domain.BaristaStatusOnline, name)
	if err != nil {
		return fmt.Errorf("failed to update heartbeat: %w", err)
	}
	return nil
}

func (r *baristaRepository) ListAll(ctx context.Context) ([]*domain.Barista, error) {
	query := `
		SELECT id, name, branch_id, status, last_seen, orders_prepared, created_at
		FROM baristas
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list baristas: %w", err)
	}
	defer rows.Close()

	var baristas []*domain.Barista
	for rows.Next() {
		var barista domain.Barista
		if err := rows.Scan(
			&barista.ID, &barista.Name, &barista.BranchID, &barista.Status,
			&barista.LastSeen, &barista.OrdersPrepared, &barista.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan barista: %w", err)
		}
		baristas = append(baristas, &barista)
	}

	return baristas, nil
}

func (r *baristaRepository) IncrementOrdersPrepared(ctx context.Context, name string) error {
	query := `
		UPDATE baristas
		SET orders_prepared = orders_prepared + 1
		WHERE name = $1
	`
	_, err := r.db.Exec(ctx, query, name)
	if err != nil {
		return fmt.Errorf("failed to increment orders prepared: %w", err)
	}
	return nil
}
