package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rojan6190/shop/internal/models"
	"github.com/Rojan6190/shop/pkg/logging"
)

const (
	TopicCart    = "cart_events"
	TopicOrder   = "order_events"
	TopicOffer   = "offer_events"
	TopicProduct = "product_events"

	publishTimeout = 5 * time.Second
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Indexer keeps an external search index in step with the catalog.
type Indexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

// publish is fire-and-forget from the caller's point of view: failures are logged only.
func publish(ctx context.Context, p Publisher, topic string, key any, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, fmt.Sprint(key), event); err != nil {
		logging.FromContext(ctx).Error("publish_event_error", "topic", topic, "type", event["type"], "error", err)
	}
}

func index(ctx context.Context, ix Indexer, p *models.Product) {
	if ix == nil {
		return
	}
	if err := ix.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("index_product_error", "product_id", p.ID, "error", err)
	}
}

func now(clock func() time.Time) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock().UTC()
}
