package rabbitmq_client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/init-pkg/space-summary/domain/app"
	"github.com/init-pkg/space-summary/internal/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
)

const (
	defaultDialTimeout = 2 * time.Second
	defaultMaxBackoff  = time.Minute
	defaultQueueSize   = 64
	minBackoff         = time.Second
	publishTimeout     = 5 * time.Second
)

var (
	ErrQueueFull         = errors.New("summary event queue is full")
	ErrBrokerUnavailable = errors.New("rabbitmq unavailable, waiting before redial")
)

// SummaryPublisher queues summary.updated events and publishes them to a topic exchange
// from a single worker, so callers never wait on the broker. With an empty url it is
// disabled and every publish is a no-op.
type SummaryPublisher struct {
	cfg config.RabbitMQConfig
	log *slog.Logger

	events   chan app.SummaryUpdatedEvent
	done     chan struct{}
	stopped  chan struct{}
	started  atomic.Bool
	stopOnce sync.Once

	// owned by the worker
	conn    *amqp.Connection
	ch      *amqp.Channel
	backoff time.Duration
	retryAt time.Time
}

var _ app.SummaryNotifier = &SummaryPublisher{}

func New(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) *SummaryPublisher {
	p := NewPublisher(cfg.Clients.RabbitMQ, log)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !p.Enabled() {
				log.Info("rabbitmq url not set, summary events disabled")
				return nil
			}
			p.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return p.Stop(ctx)
		},
	})

	return p
}

func NewPublisher(cfg config.RabbitMQConfig, log *slog.Logger) *SummaryPublisher {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}

	return &SummaryPublisher{
		cfg:     cfg,
		log:     log,
		events:  make(chan app.SummaryUpdatedEvent, cfg.QueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (this *SummaryPublisher) Enabled() bool {
	return this.cfg.Url != ""
}

// SummaryUpdated enqueues event without blocking. It fails only when the queue is full.
func (this *SummaryPublisher) SummaryUpdated(ctx context.Context, event app.SummaryUpdatedEvent) error {
	if !this.Enabled() {
		return nil
	}

	select {
	case this.events <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the publishing worker once. Stop must be called to release it.
func (this *SummaryPublisher) Start() {
	if this.started.CompareAndSwap(false, true) {
		go this.run()
	}
}

func (this *SummaryPublisher) run() {
	defer close(this.stopped)
	defer this.closeConn()

	if err := this.connect(); err != nil {
		this.log.Error("rabbitmq connect failed", "error", err)
	}

	for {
		select {
		case <-this.done:
			return
		case event := <-this.events:
			if err := this.publish(event); err != nil {
				this.log.Error("failed to publish summary update", "upload_id", event.UploadID, "error", err)
			}
		}
	}
}

// Stop signals the worker and waits for it to close the connection or for ctx to expire.
// Events still queued are dropped.
func (this *SummaryPublisher) Stop(ctx context.Context) error {
	this.stopOnce.Do(func() {
		close(this.done)
	})
	if !this.started.Load() {
		return nil
	}

	select {
	case <-this.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (this *SummaryPublisher) publish(event app.SummaryUpdatedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal summary event: %w", err)
	}

	if this.ch == nil || this.ch.IsClosed() {
		if err := this.connect(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = this.ch.PublishWithContext(ctx, this.cfg.Exchange, this.cfg.RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.UploadID,
		Timestamp:    event.UpdatedAt,
		Type:         this.cfg.RoutingKey,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish summary event: %w", err)
	}

	this.log.Debug("summary event published", "upload_id", event.UploadID, "exchange", this.cfg.Exchange)
	return nil
}

// connect dials unless a previous failure put it in backoff. Each failure doubles the
// wait, up to MaxBackoff; a success resets it.
func (this *SummaryPublisher) connect() error {
	if now := time.Now(); now.Before(this.retryAt) {
		return fmt.Errorf("%w (retry in %s)", ErrBrokerUnavailable, this.retryAt.Sub(now).Round(time.Millisecond))
	}

	err := this.dial()
	if err != nil {
		this.backoff = min(max(2*this.backoff, minBackoff), this.cfg.MaxBackoff)
		this.retryAt = time.Now().Add(this.backoff)
		return err
	}

	this.backoff, this.retryAt = 0, time.Time{}
	return nil
}

func (this *SummaryPublisher) dial() error {
	this.closeConn()

	conn, err := amqp.DialConfig(this.cfg.Url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(this.cfg.DialTimeout),
	})
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(this.cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("declare exchange %s: %w", this.cfg.Exchange, err)
	}

	this.conn, this.ch = conn, ch
	return nil
}

func (this *SummaryPublisher) closeConn() {
	if this.ch != nil {
		this.ch.Close()
		this.ch = nil
	}
	if this.conn != nil {
		this.conn.Close()
		this.conn = nil
	}
}
