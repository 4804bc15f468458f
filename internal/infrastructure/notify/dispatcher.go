package notify

import (
	"context"
	"sync"
	"time"

	"github.com/estatecrm/backend/internal/domain/identity"
	"github.com/estatecrm/backend/internal/domain/notification"
	"github.com/estatecrm/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const deliveryTimeout = 10 * time.Second

// DispatchMetrics counts dispatched notifications. It is implemented by
// telemetry.PipelineMetrics.
type DispatchMetrics interface {
	RecordNotificationDispatched(ctx context.Context, notificationType string)
}

// AsyncDispatcher delivers notifications best-effort: each notification is
// persisted to the recipient's in-app inbox and, when email delivery is
// enabled, forwarded to an SMTP sender from a worker pool. Dispatch never
// blocks the calling operation and never reports failure to it; a full queue
// drops the email leg and only the inbox row remains.
type AsyncDispatcher struct {
	notificationRepo notification.NotificationRepository
	userRepo         identity.UserRepository
	sender           EmailSender
	logger           *zap.Logger

	queue   chan *notification.Notification
	workers int
	metrics DispatchMetrics

	mu      sync.Mutex
	wg      sync.WaitGroup
	started bool
}

// SetMetrics sets the optional dispatch counter
func (d *AsyncDispatcher) SetMetrics(metrics DispatchMetrics) {
	d.metrics = metrics
}

// NewAsyncDispatcher creates a dispatcher with the configured queue and worker pool
func NewAsyncDispatcher(
	notificationRepo notification.NotificationRepository,
	userRepo identity.UserRepository,
	sender EmailSender,
	cfg config.NotifyConfig,
	logger *zap.Logger,
) *AsyncDispatcher {
	return &AsyncDispatcher{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		sender:           sender,
		logger:           logger,
		queue:            make(chan *notification.Notification, cfg.QueueSize),
		workers:          cfg.Workers,
	}
}

// Start launches the delivery workers
func (d *AsyncDispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	d.logger.Info("notification dispatcher started", zap.Int("workers", d.workers))
}

// Stop drains the queue and waits for in-flight deliveries
func (d *AsyncDispatcher) Stop() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	d.started = false
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("notification dispatcher stopped")
}

// Dispatch persists the notifications and queues them for email delivery.
// Failures are logged and swallowed: a notification must never fail the
// operation that produced it.
func (d *AsyncDispatcher) Dispatch(ctx context.Context, notifications ...*notification.Notification) {
	for _, n := range notifications {
		if n == nil {
			continue
		}

		if err := d.notificationRepo.Save(ctx, n); err != nil {
			d.logger.Error("failed to persist notification",
				zap.String("recipient_id", n.RecipientID.String()),
				zap.String("type", string(n.Type)),
				zap.Error(err),
			)
			continue
		}
		if d.metrics != nil {
			d.metrics.RecordNotificationDispatched(ctx, string(n.Type))
		}

		d.mu.Lock()
		if !d.started {
			// dispatcher stopped; the inbox row is persisted, email is skipped
			d.mu.Unlock()
			continue
		}
		select {
		case d.queue <- n:
		default:
			d.logger.Warn("notification queue full, skipping email delivery",
				zap.String("notification_id", n.ID.String()),
			)
		}
		d.mu.Unlock()
	}
}

func (d *AsyncDispatcher) worker() {
	defer d.wg.Done()
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *AsyncDispatcher) deliver(n *notification.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	recipient, err := d.userRepo.FindByID(ctx, n.RecipientID)
	if err != nil {
		d.logger.Warn("cannot resolve notification recipient",
			zap.String("recipient_id", n.RecipientID.String()),
			zap.Error(err),
		)
		return
	}
	if recipient.Email == "" || !recipient.IsActive() {
		return
	}

	if err := d.sender.Send(recipient.Email, n.Title, n.Message); err != nil {
		d.logger.Warn("email delivery failed",
			zap.String("notification_id", n.ID.String()),
			zap.String("recipient_id", n.RecipientID.String()),
			zap.Error(err),
		)
	}
}

var _ notification.Dispatcher = (*AsyncDispatcher)(nil)
