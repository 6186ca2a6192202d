package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"coffeehouse/internal/domain"
	"coffeehouse/internal/interfaces"
)

type promotionRepository struct {
	db DB
}

func NewPromotionRepository(db DB) interfaces.PromotionRepository {
	return &promotionRepository{db: db}
}

// ListActive deletes instruments past their expiration date, then returns the
// remainder. An instrument stays valid through the whole of its last day, so
// the purge cutoff is UTC midnight of the current day, matching how
// Instrument.Expired judges days.
func (r *promotionRepository) ListActive(ctx context.Context, now time.Time) ([]*domain.Instrument, error) {
	y, m, d := now.UTC().Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	if _, err := r.db.Exec(ctx, `DELETE FROM promotions WHERE expires_at < $1`, cutoff); err != nil {
		return nil, fmt.Errorf("failed to purge expired promotions: %w", err)
	}

	query := `
		SELECT id, type, name, coupon_code, items, discount_percent, expires_at
		FROM promotions
		ORDER BY expires_at ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	defer rows.Close()

	var instruments []*domain.Instrument
	for rows.Next() {
		ins, err := scanInstrument(rows)
		if err != nil {
			return nil, err
		}
		instruments = append(instruments, ins)
	}

	return instruments, nil
}

func (r *promotionRepository) FindCoupon(ctx context.Context, code string) (*domain.Instrument, error) {
	query := `
		SELECT id, type, name, coupon_code, items, discount_percent, expires_at
		FROM promotions
		WHERE type = $1 AND coupon_code = $2
	`
	row := r.db.QueryRow(ctx, query, domain.InstrumentCoupon, code)

	ins, err := scanInstrument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}
	return ins, nil
}

func (r *promotionRepository) Create(ctx context.Context, instrument *domain.Instrument) error {
	items, err := json.Marshal(instrument.Items)
	if err != nil {
		return fmt.Errorf("failed to encode covered items: %w", err)
	}

	query := `
		INSERT INTO promotions (id, type, name, coupon_code, items, discount_percent, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.Exec(ctx, query,
		instrument.ID, instrument.Type, instrument.Name, instrument.CouponCode,
		items, instrument.DiscountPercent, instrument.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert promotion: %w", err)
	}
	return nil
}

func (r *promotionRepository) Delete(ctx context.Context, instrumentID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, instrumentID)
	if err != nil {
		return fmt.Errorf("failed to delete promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPromotionNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInstrument(s scanner) (*domain.Instrument, error) {
	var (
		ins      domain.Instrument
		rawItems []byte
	)
	err := s.Scan(&ins.ID, &ins.Type, &ins.Name, &ins.CouponCode, &rawItems, &ins.DiscountPercent, &ins.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if len(rawItems) > 0 {
		if err := json.Unmarshal(rawItems, &ins.Items); err != nil {
			return nil, fmt.Errorf("failed to decode covered items: %w", err)
		}
	}
	return &ins, nil
}
