package events

import (
	"campusroom/config"
	"campusroom/infras/kafka"
	"campusroom/infras/otel"
	nModel "campusroom/internal/domains/notification/model"
	notificationService "campusroom/internal/domains/notification/service"
	"campusroom/shared/constant"
	"context"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// BookingConsumer reads booking lifecycle events from the booking topic and
// turns them into notifications.
type BookingConsumer struct {
	kafka         kafka.Client
	notifications notificationService.Notification
	cfg           *config.Config
	otel          otel.Otel
}

func NewBookingConsumer(
	kafkaClient kafka.Client,
	notifications notificationService.Notification,
	cfg *config.Config,
	otl otel.Otel,
) *BookingConsumer {
	return &BookingConsumer{
		kafka:         kafkaClient,
		notifications: notifications,
		cfg:           cfg,
		otel:          otl,
	}
}

// Start blocks consuming the booking topic until ctx is cancelled.
func (c *BookingConsumer) Start(ctx context.Context) {
	log.Info().Str("topic", c.cfg.Kafka.BookingTopic).Msg("starting booking event consumer")

	c.kafka.Consume(ctx, c.cfg.Kafka.ConsumerGroup, c.cfg.Kafka.BookingTopic, c.handle)
}

func (c *BookingConsumer) handle(message kafkaGo.Message) {
	ctx, scope := c.otel.NewScope(context.Background(), constant.OtelEventScopeName, constant.OtelEventScopeName+".BookingEvent")
	defer scope.End()

	decoded, err := kafka.DecodeKafkaMessage[nModel.BookingEvent](message)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode booking event")

		return
	}

	event, ok := decoded.Value.(nModel.BookingEvent)
	if !ok {
		log.Error().Str("key", decoded.Key).Msg("unexpected booking event payload")

		return
	}

	if err := c.notifications.CreateFromEvent(ctx, event); err != nil {
		scope.TraceIfError(err)
		log.Error().Err(err).Str("eventType", event.Type).Msg("failed to create notifications from booking event")
	}
}
