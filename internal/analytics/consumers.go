package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/brand-audit/internal/messaging"
	"go.uber.org/zap"
)

// Consumers returns one consumer per report topic, all writing into store.
func Consumers(subscriber message.Subscriber, store Store, logger *zap.Logger) []messaging.Runnable {
	return []messaging.Runnable{
		messaging.NewConsumer(subscriber, TopicReportShared, store.SaveReportShared, logger),
		messaging.NewConsumer(subscriber, TopicReportResolved, store.SaveReportResolved, logger),
		messaging.NewConsumer(subscriber, TopicReportsSwept, store.SaveReportsSwept, logger),
	}
}
