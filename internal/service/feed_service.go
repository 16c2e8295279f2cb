package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/edushare/edushare-api/internal/models"
	"github.com/edushare/edushare-api/pkg/jobs"
)

// ContentLister produces the visibility-shaped listing a subscriber sees.
type ContentLister interface {
	List(ctx context.Context, privileged bool) ([]models.ContentItem, error)
}

// FeedBroker bridges change notifications across instances. The Redis
// pub/sub channel carries only a nudge; each instance resyncs from its own
// store.
type FeedBroker interface {
	Publish(ctx context.Context, channel, message string) error
	Subscribe(ctx context.Context, channel string) *redis.PubSub
}

// Subscription is one live feed attachment. Batches arrive on C; the first
// batch is the snapshot at subscribe time. Callers must Unsubscribe when
// done.
type Subscription struct {
	ID         string
	Privileged bool
	C          <-chan []models.ContentItem

	updates chan []models.ContentItem
	cancel  func()
	once    sync.Once
}

// Unsubscribe detaches the subscription and closes its channel.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

// FeedService keeps live subscribers in sync with the content collection.
// Each change fans out a fresh visibility-shaped snapshot to every
// subscriber; a failed resync delivers an empty batch instead of an error so
// clients always hold a renderable listing.
type FeedService struct {
	lister        ContentLister
	broker        FeedBroker
	channel       string
	bufferSize    int
	resyncTimeout time.Duration
	logger        *zap.Logger

	queue *jobs.Queue

	mu          sync.RWMutex
	subscribers map[string]*Subscription
}

// NewFeedService wires the feed service. The broker may be nil, in which
// case change fan-out stays instance local.
func NewFeedService(lister ContentLister, broker FeedBroker, channel string, bufferSize int, resyncTimeout time.Duration, logger *zap.Logger) *FeedService {
	if channel == "" {
		channel = "content:changed"
	}
	if bufferSize <= 0 {
		bufferSize = 8
	}
	if resyncTimeout <= 0 {
		resyncTimeout = 5 * time.Second
	}
	s := &FeedService{
		lister:        lister,
		broker:        broker,
		channel:       channel,
		bufferSize:    bufferSize,
		resyncTimeout: resyncTimeout,
		logger:        logger,
		subscribers:   make(map[string]*Subscription),
	}
	s.queue = jobs.NewQueue("feed-broadcast", s.handleBroadcast, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 16,
		MaxRetries: 1,
		Logger:     logger,
	})
	return s
}

// SetLister installs the content lister after construction. The feed and
// content services reference each other, so one side is wired late. Must be
// called before Start.
func (s *FeedService) SetLister(lister ContentLister) {
	s.lister = lister
}

// Start launches the broadcast worker and, when a broker is present, the
// cross-instance listener. Blocks only until workers are up.
func (s *FeedService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	if s.broker == nil {
		return
	}
	pubsub := s.broker.Subscribe(ctx, s.channel)
	if pubsub == nil {
		return
	}
	go func() {
		defer pubsub.Close() //nolint:errcheck
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				s.enqueueBroadcast()
			}
		}
	}()
}

// Stop drains the broadcast worker and detaches all subscribers.
func (s *FeedService) Stop() {
	s.queue.Stop()
	s.mu.Lock()
	subs := make([]*Subscription, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.Unlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// Subscribe attaches a new live listener and delivers its initial snapshot.
func (s *FeedService) Subscribe(ctx context.Context, privileged bool) *Subscription {
	updates := make(chan []models.ContentItem, s.bufferSize)
	sub := &Subscription{
		ID:         uuid.NewString(),
		Privileged: privileged,
		C:          updates,
		updates:    updates,
	}
	sub.cancel = func() {
		s.mu.Lock()
		if _, ok := s.subscribers[sub.ID]; ok {
			delete(s.subscribers, sub.ID)
			close(updates)
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.subscribers[sub.ID] = sub
	s.mu.Unlock()

	s.deliver(ctx, sub)
	s.logger.Debug("feed subscriber attached", zap.String("subscription_id", sub.ID), zap.Bool("privileged", privileged))
	return sub
}

// SubscriberCount reports the number of live attachments.
func (s *FeedService) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

// ContentChanged implements ChangeNotifier. With a broker the nudge goes
// through Redis so every instance, this one included, resyncs on receipt.
func (s *FeedService) ContentChanged(ctx context.Context) {
	if s.broker != nil {
		if err := s.broker.Publish(ctx, s.channel, "changed"); err == nil {
			return
		} else {
			s.logger.Warn("feed publish failed, falling back to local broadcast", zap.Error(err))
		}
	}
	s.enqueueBroadcast()
}

func (s *FeedService) enqueueBroadcast() {
	if err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: "broadcast"}); err != nil {
		s.logger.Warn("feed broadcast dropped", zap.Error(err))
	}
}

func (s *FeedService) handleBroadcast(ctx context.Context, _ jobs.Job) error {
	s.mu.RLock()
	subs := make([]*Subscription, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.RUnlock()

	for _, sub := range subs {
		s.deliver(ctx, sub)
	}
	return nil
}

// deliver resyncs one subscriber. Slow consumers lose the oldest batch
// rather than stalling the fan-out.
func (s *FeedService) deliver(ctx context.Context, sub *Subscription) {
	resyncCtx, cancel := context.WithTimeout(ctx, s.resyncTimeout)
	defer cancel()

	items, err := s.lister.List(resyncCtx, sub.Privileged)
	if err != nil {
		s.logger.Warn("feed resync failed, sending empty batch",
			zap.String("subscription_id", sub.ID), zap.Error(err))
		items = []models.ContentItem{}
	}

	// Holding the read lock keeps Unsubscribe from closing the channel
	// mid-send. The sends below never block, so this cannot deadlock.
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, active := s.subscribers[sub.ID]; !active {
		return
	}

	select {
	case sub.updates <- items:
	default:
		select {
		case <-sub.updates:
		default:
		}
		select {
		case sub.updates <- items:
		default:
		}
	}
}
