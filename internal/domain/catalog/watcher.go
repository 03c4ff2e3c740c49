// internal/domain/catalog/watcher.go
package catalog

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	storemongo "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Watcher subscribes to document store change streams and forwards one
// notification per change to the view. Each watched collection is an
// independent subscription; no ordering is assumed between them.
type Watcher struct {
	client *storemongo.Client
	view   *View
	logger *logrus.Logger
}

// NewWatcher creates a watcher feeding the given view
func NewWatcher(client *storemongo.Client, view *View, logger *logrus.Logger) *Watcher {
	return &Watcher{
		client: client,
		view:   view,
		logger: logger,
	}
}

// Start opens one change stream per projection input collection. Streams are
// torn down when the context is cancelled and reopened after transient
// failures.
func (w *Watcher) Start(ctx context.Context) {
	for _, collection := range []string{storemongo.CollectionProducts, storemongo.CollectionOrders} {
		go w.watch(ctx, collection)
	}
}

func (w *Watcher) watch(ctx context.Context, collection string) {
	for {
		if ctx.Err() != nil {
			return
		}

		stream, err := w.client.Collection(collection).Watch(ctx, mongo.Pipeline{},
			options.ChangeStream().SetFullDocument(options.UpdateLookup))
		if err != nil {
			w.logger.WithError(err).WithField("collection", collection).
				Warn("Failed to open change stream, retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for stream.Next(ctx) {
			w.view.Notify(collection)
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil {
			w.logger.WithError(err).WithField("collection", collection).
				Warn("Change stream interrupted, reopening")
		}
		stream.Close(context.Background())
	}
}
