package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

type Balancer int

const (
	RoundRobin Balancer = iota
	Hash
)

type RequiredAcks int

const (
	RequireNone RequiredAcks = iota
	RequireLocal
	RequireAll
)

type Producer interface {
	PushMessage(ctx context.Context, key, payload []byte, topic string) (partition int32, offset int64, err error)
	Close() error
}

type producer struct {
	sp sarama.SyncProducer
}

type options struct {
	balancer Balancer
	acks     RequiredAcks
}

type Option func(*options)

func WithBalancer(b Balancer) Option {
	return func(o *options) {
		o.balancer = b
	}
}

func WithRequiredAcks(acks RequiredAcks) Option {
	return func(o *options) {
		o.acks = acks
	}
}

func NewProducer(brokers []string, opts ...Option) (Producer, error) {
	o := &options{
		balancer: RoundRobin,
		acks:     RequireAll,
	}

	for _, opt := range opts {
		opt(o)
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Timeout = 10 * time.Second

	switch o.balancer {
	case Hash:
		cfg.Producer.Partitioner = sarama.NewHashPartitioner
	default:
		cfg.Producer.Partitioner = sarama.NewRoundRobinPartitioner
	}

	switch o.acks {
	case RequireNone:
		cfg.Producer.RequiredAcks = sarama.NoResponse
	case RequireLocal:
		cfg.Producer.RequiredAcks = sarama.WaitForLocal
	default:
		cfg.Producer.RequiredAcks = sarama.WaitForAll
	}

	sp, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync producer: %w", err)
	}

	return &producer{sp: sp}, nil
}

func (p *producer) PushMessage(ctx context.Context, key, payload []byte, topic string) (int32, int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.ByteEncoder(key),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.sp.SendMessage(msg)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to send message: %w", err)
	}

	return partition, offset, nil
}

func (p *producer) Close() error {
	return p.sp.Close()
}
