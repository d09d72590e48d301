package config

import (
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer delivers messages from a durable queue to a handler. Failed
// handlers get the message requeued.
type Consumer struct {
	channel *amqp.Channel
	queue   string
	done    chan struct{}
}

// NewConsumer opens a channel and declares the queue
func NewConsumer(queueName string) (*Consumer, error) {
	if RabbitMQ == nil {
		return nil, fmt.Errorf("RabbitMQ connection not initialized")
	}

	ch, err := RabbitMQ.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return &Consumer{
		channel: ch,
		queue:   q.Name,
		done:    make(chan struct{}),
	}, nil
}

// Consume blocks delivering messages to handler until Close is called
// or the channel is torn down.
func (c *Consumer) Consume(handler func([]byte) error) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming from %s: %w", c.queue, err)
	}

	log.Printf("Consumer is running on queue: %s", c.queue)

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := handler(msg.Body); err != nil {
				log.Printf("Handle msg failed: %v", err)
				msg.Nack(false, true) // requeue
			} else {
				msg.Ack(false)
			}
		case <-c.done:
			return nil
		}
	}
}

// Close stops the consume loop and closes the channel
func (c *Consumer) Close() error {
	close(c.done)
	return c.channel.Close()
}
