package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/interfaces"
)

type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
	}
}

func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte) error {
	var msg interfaces.OrderReadyMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse notification", "", nil, err)
		return err
	}

	h.logger.Debug("notification_received", fmt.Sprintf("Order %s is ready for pickup", msg.OrderID),
		msg.OrderID, map[string]interface{}{
			"order_id":    msg.OrderID,
			"branch_id":   msg.BranchID,
			"prepared_by": msg.PreparedBy,
		})

	fmt.Printf("Order %s for %s is ready for pickup at branch %s (prepared by %s)\n",
		msg.OrderID, msg.Customer, msg.BranchID, msg.PreparedBy)

	return nil
}
