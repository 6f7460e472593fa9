package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hwstore/order/internal/dal/rabbitmq"
	"github.com/hwstore/order/internal/service/models/order"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
)

// QueueOrderPlaced is the queue order-placed events are delivered to.
const QueueOrderPlaced = "shop.order.placed"

// RabbitMQPublisher publishes order lifecycle events. Publishing is
// best effort: callers route failures through the outbox for retry.
type RabbitMQPublisher struct {
	client *rabbitmq.Client
	queue  amqp.Queue
}

func NewRabbitMQPublisher(client *rabbitmq.Client) *RabbitMQPublisher {
	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       QueueOrderPlaced,
		Durable:    true,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	return &RabbitMQPublisher{
		client: client,
		queue:  queue,
	}
}

func (r *RabbitMQPublisher) PublishOrderPlaced(ctx context.Context, orders []order.Order) error {
	publishCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	g, _ := errgroup.WithContext(publishCtx)
	g.SetLimit(3)

	for _, ord := range orders {
		g.Go(func() error {
			orderData, err := json.Marshal(ord)
			if err != nil {
				return err
			}

			return r.client.Channel().Publish(
				"",
				r.queue.Name,
				false,
				false,
				amqp.Publishing{
					ContentType: "application/json",
					Body:        orderData,
				},
			)
		})
	}

	return g.Wait()
}
