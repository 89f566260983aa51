package checkout

import (
	"context"
	"log/slog"
	"time"

	"github.com/Kariqs/bistro-api/utils"
)

// KitchenTicket lists the placed lines of receipt for the kitchen email.
func KitchenTicket(receipt *Receipt, placedAt time.Time) utils.OrderEmailData {
	data := utils.OrderEmailData{
		PlacedAt: placedAt,
		Total:    receipt.Total().StringFixed(2),
	}
	for _, res := range receipt.Results {
		if res.Status != StepPlaced {
			continue
		}
		data.Lines = append(data.Lines, utils.OrderEmailLine{
			Name:        res.Name,
			Ingredients: res.Ingredients,
			Quantity:    res.Quantity,
			Total:       res.TotalPrice.StringFixed(2),
		})
	}
	return data
}

// NotifyKitchen returns a placed hook that hands the kitchen ticket to send.
// Send errors are logged; the checkout has already succeeded.
func NotifyKitchen(send func(ctx context.Context, data utils.OrderEmailData) error, logger *slog.Logger) func(context.Context, *Receipt) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, receipt *Receipt) {
		if err := send(ctx, KitchenTicket(receipt, time.Now())); err != nil {
			logger.ErrorContext(ctx, "error sending kitchen email", "orders", receipt.OrderIDs(), "error", err)
		}
	}
}
