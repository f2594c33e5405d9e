package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	domainbooking "stayfinder/internal/domain/booking"
)

// BookingNotifier consumes booking events and records the notification. It
// is the in-process stand-in for a downstream notification service.
type BookingNotifier struct {
	Logger *slog.Logger
}

func (n BookingNotifier) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event domainbooking.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		if n.Logger != nil {
			n.Logger.Warn("discarding malformed booking event", "topic", msg.Topic, "offset", msg.Offset, "err", err)
		}
		return nil
	}
	if n.Logger != nil {
		n.Logger.Info("booking notification",
			"event", event.Name,
			"booking_id", event.BookingID,
			"hotel_id", event.HotelID,
			"check_in", event.CheckIn,
			"check_out", event.CheckOut,
		)
	}
	return nil
}
