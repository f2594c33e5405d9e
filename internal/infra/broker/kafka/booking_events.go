package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	domainbooking "stayfinder/internal/domain/booking"
)

// BookingEventsTopic carries confirmed and cancelled booking notifications.
const BookingEventsTopic = "booking-events"

// BookingEventPublisher serializes booking events to the broker, keyed by
// hotel so per-hotel ordering is preserved across partitions.
type BookingEventPublisher struct {
	Producer    *Producer
	TopicPrefix string
}

func (p *BookingEventPublisher) Publish(ctx context.Context, event domainbooking.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Producer.Publish(ctx, p.TopicPrefix+BookingEventsTopic, string(event.HotelID), payload, map[string]string{
		"event": event.Name,
	})
}

// LogPublisher stands in for the broker when Kafka is not configured.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(ctx context.Context, event domainbooking.Event) error {
	if p.Logger != nil {
		p.Logger.Info("booking event",
			"event", event.Name,
			"booking_id", event.BookingID,
			"hotel_id", event.HotelID,
			"total_cost", event.TotalCost,
		)
	}
	return nil
}
