package container

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/samber/do"
	"github.com/serroba/brand-audit/internal/analytics"
	analyticsstore "github.com/serroba/brand-audit/internal/analytics/store"
	"github.com/serroba/brand-audit/internal/handlers"
	"github.com/serroba/brand-audit/internal/messaging"
	"go.uber.org/zap"
)

// PublisherGroupPackage provides the report event publishers. Without Redis
// events go to an in-process channel nobody subscribes to.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		wmLogger := messaging.NewZapLogger(logger)

		rdb := do.MustInvoke[*Redis](i)
		if !rdb.Enabled() {
			logger.Info("redis disabled, report events are not delivered")

			return messaging.NewPublisherGroup(gochannel.NewGoChannel(gochannel.Config{}, wmLogger)), nil
		}

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:     rdb.Client,
			Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
		}, wmLogger)
		if err != nil {
			return nil, fmt.Errorf("create event publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (handlers.Events, error) {
		publisher := do.MustInvoke[*messaging.PublisherGroup](i).Publisher()

		return handlers.Events{
			Shared:   messaging.NewPublishFunc[analytics.ReportSharedEvent](publisher, analytics.TopicReportShared),
			Resolved: messaging.NewPublishFunc[analytics.ReportResolvedEvent](publisher, analytics.TopicReportResolved),
			Swept:    messaging.NewPublishFunc[analytics.ReportsSweptEvent](publisher, analytics.TopicReportsSwept),
		}, nil
	})
}

// ConsumerGroupPackage provides the analytics consumers reading report events from Redis Streams.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (analytics.Store, error) {
		return analyticsstore.NewNoop(do.MustInvoke[*zap.Logger](i)), nil
	})

	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		rdb := do.MustInvoke[*Redis](i)
		if !rdb.Enabled() {
			return nil, errors.New("the event consumer needs redis")
		}

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        rdb.Client,
			Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: opts.ConsumerGroup,
		}, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("create event subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(analytics.Consumers(subscriber, do.MustInvoke[analytics.Store](i), logger)...)

		return group, nil
	})
}
