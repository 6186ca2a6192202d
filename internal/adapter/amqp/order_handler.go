package amqp

import (
	"context"
	"encoding/json"

	"coffeehouse/internal/adapter/logger"
	"coffeehouse/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.BaristaService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.BaristaService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderHandler) HandleOrder(ctx context.Context, body []byte) error {
	var msg interfaces.OrderPlacedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse order message", "", nil, err)
		return err
	}

	return h.service.PrepareOrder(ctx, msg)
}
