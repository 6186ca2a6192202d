package postgres

import (
	"context"
	"fmt"

	"coffeehouse/internal/domain"
	"coffeehouse/internal/interfaces"
)

type feedbackRepository struct {
	db DB
}

func NewFeedbackRepository(db DB) interfaces.FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	query := `
		INSERT INTO feedback (id, order_id, customer, item, coffee_rating, service_rating, review, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		feedback.ID, feedback.OrderID, feedback.Customer, feedback.Item,
		feedback.CoffeeRating, feedback.ServiceRating, feedback.Review, feedback.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

func (r *feedbackRepository) ListByOrder(ctx context.Context, orderID string) ([]*domain.Feedback, error) {
	query := `
		SELECT id, order_id, customer, item, coffee_rating, service_rating, review, submitted_at
		FROM feedback
		WHERE order_id = $1
		ORDER BY submitted_at ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var entries []*domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		if err := rows.Scan(
			&f.ID, &f.OrderID, &f.Customer, &f.Item,
			&f.CoffeeRating, &f.ServiceRating, &f.Review, &f.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		entries = append(entries, &f)
	}

	return entries, nil
}
