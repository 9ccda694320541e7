package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Oddscorp-AI/banking-transfer/logger"
	"github.com/Oddscorp-AI/banking-transfer/model"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// LedgerEntryRecorded is published once per committed ledger entry.
type LedgerEntryRecorded struct {
	EventID       uuid.UUID                `json:"event_id"`
	Reference     uuid.UUID                `json:"reference"`
	AccountNumber string                   `json:"account_number"`
	Type          model.TransactionType    `json:"type"`
	Channel       model.TransactionChannel `json:"channel"`
	Amount        decimal.Decimal          `json:"amount"`
	BalanceAfter  decimal.Decimal          `json:"balance_after"`
	Remark        string                   `json:"remark"`
	OccurredAt    time.Time                `json:"occurred_at"`
}

// NewLedgerEntryRecorded builds the event for a committed entry of the given account.
func NewLedgerEntryRecorded(accountNumber string, tx *model.Transaction) LedgerEntryRecorded {
	return LedgerEntryRecorded{
		EventID:       uuid.New(),
		Reference:     tx.Reference,
		AccountNumber: accountNumber,
		Type:          tx.Type,
		Channel:       tx.Channel,
		Amount:        tx.Amount,
		BalanceAfter:  tx.BalanceAfter,
		Remark:        tx.Remark,
		OccurredAt:    tx.Timestamp,
	}
}

type Publisher interface {
	Publish(ctx context.Context, events ...LedgerEntryRecorded) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by account number, so entries of one
// account stay ordered within a partition.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
			WriteTimeout: 10 * time.Second,
			ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
				logger.Log.Errorf(msg, args...)
			}),
		},
		timeout: 10 * time.Second,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...LedgerEntryRecorded) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal ledger event: %w", err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(e.AccountNumber), Value: value})
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msgs...); err != nil {
		logger.Log.WithError(err).WithField("count", len(msgs)).Error("Failed to publish ledger events")
		return fmt.Errorf("failed to publish ledger events: %w", err)
	}
	logger.Log.WithFields(logrus.Fields{"count": len(msgs)}).Debug("Ledger events published")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...LedgerEntryRecorded) error { return nil }
func (NoopPublisher) Close() error                                          { return nil }
