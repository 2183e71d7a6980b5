package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/worker/processors"
	"storefront/internal/worker/processors/validation"

	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

const (
	groupID       = "storefront-worker"
	retryInterval = 100 * time.Millisecond
	maxRetryDelay = 30 * time.Second
)

// MessageReader is the part of kafka.Reader the worker consumes.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Processor handles one decoded event.
type Processor interface {
	Process(ctx context.Context, event events.Event) error
}

type Worker struct {
	logger    *logger.Logger
	reader    MessageReader
	processor Processor

	retryInterval time.Duration
	maxRetryDelay time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg *config.Config, logger *logger.Logger, db *gorm.DB) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		GroupID:        groupID,
		Topic:          cfg.KafkaTopic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return NewWithReader(reader, processors.NewEventProcessor(db, logger), logger)
}

func NewWithReader(reader MessageReader, processor Processor, logger *logger.Logger) *Worker {
	return &Worker{
		logger:        logger,
		reader:        reader,
		processor:     processor,
		retryInterval: retryInterval,
		maxRetryDelay: maxRetryDelay,
	}
}

// Start consumes until ctx is cancelled or Stop is called. Undecodable or
// invalid messages are logged and committed so they are not redelivered.
// Any other failure is retried with backoff and the reader does not move
// past the message until it is stored.
func (w *Worker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	w.mu.Lock()
	w.cancel, w.done = cancel, done
	w.mu.Unlock()
	defer close(done)
	defer cancel()

	w.logger.Info("Worker started, listening for events...")

	for {
		message, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))

		if !w.handleWithRetry(ctx, message) {
			return
		}

		if err := w.reader.CommitMessages(ctx, message); err != nil {
			w.logger.Error("Failed to commit message: %v", err)
		}
	}
}

// handleWithRetry returns false only when ctx ends before the message is
// handled.
func (w *Worker) handleWithRetry(ctx context.Context, message kafka.Message) bool {
	delay := w.retryInterval
	for {
		err := w.handle(ctx, message)
		if err == nil {
			return true
		}
		w.logger.Error("Failed to process event, retrying in %s: %v", delay, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}

		delay *= 2
		if delay > w.maxRetryDelay {
			delay = w.maxRetryDelay
		}
	}
}

func (w *Worker) handle(ctx context.Context, message kafka.Message) error {
	var event events.Event
	if err := json.Unmarshal(message.Value, &event); err != nil {
		w.logger.Error("Failed to parse event: %v", err)
		return nil
	}

	if err := w.processor.Process(ctx, event); err != nil {
		if errors.Is(err, validation.ErrInvalidEvent) {
			w.logger.Error("Skipping invalid event %s: %v", event.ID, err)
			return nil
		}
		return err
	}

	w.logger.Debug("Event %s processed successfully", event.ID)
	return nil
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
	if err := w.reader.Close(); err != nil {
		w.logger.Error("Failed to close reader: %v", err)
	}
}
