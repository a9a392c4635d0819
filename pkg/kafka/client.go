// Package kafka 提供了向消息队列发布用户事件流的功能。
package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"

	"org-synth-go/internal/config"
	"org-synth-go/internal/model"
	"org-synth-go/internal/output"
	"org-synth-go/pkg/log"
)

var producer *kafka.Writer

// InitProducer 初始化 Kafka 生产者。
func InitProducer(cfg config.KafkaConfig) {
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
}

// PublishUserEvents 将用户事件逐条发布到事件主题，键为人员标识，
// 保证同一人物的事件落在同一分区内保持顺序。
func PublishUserEvents(ctx context.Context, events []*model.UserEvent) error {
	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := output.EncodeRecord(event)
		if err != nil {
			return err
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(event.PersonID),
			Value: value,
		})
	}

	if err := producer.WriteMessages(ctx, messages...); err != nil {
		return err
	}
	log.Infof("已发布 %d 条用户事件到 Kafka", len(messages))
	return nil
}

// Close 关闭生产者连接。
func Close() error {
	if producer == nil {
		return nil
	}
	return producer.Close()
}
