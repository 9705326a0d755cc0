package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"resume-builder-go/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ 消息队列适配器，只承担简历事件的发布
type RabbitMQ struct {
	conn *amqp.Connection
	cfg  *config.RabbitMQConfig

	mu sync.Mutex
	ch *amqp.Channel
}

// NewRabbitMQ 建立连接并声明事件交换机
func NewRabbitMQ(cfg *config.RabbitMQConfig) (*RabbitMQ, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("RabbitMQ配置不能为空")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("打开RabbitMQ通道失败: %w", err)
	}

	if err := ch.ExchangeDeclare(
		cfg.ResumeEventsExchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("声明事件交换机失败: %w", err)
	}

	return &RabbitMQ{conn: conn, cfg: cfg, ch: ch}, nil
}

// PublishJSON 把事件序列化为JSON后发布到事件交换机
func (r *RabbitMQ) PublishJSON(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	err = r.ch.PublishWithContext(ctx,
		r.cfg.ResumeEventsExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
	if err != nil {
		return fmt.Errorf("发布事件失败: %w", err)
	}
	return nil
}

// Close 关闭通道和连接
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
