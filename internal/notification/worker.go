package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"car-rental-backend/internal/model"
)

// UpdatedBody is the notification text sent when a vehicle's bookings change.
const UpdatedBody = "Availability has been updated."

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Message is the JSON payload delivered to the browser.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan string
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options, logger *zap.Logger) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size*8),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		logger:  logger,
	}
}

// Start launches the worker goroutines. They exit when ctx is done.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	log := wp.logger.With(zap.Int("worker", id))
	log.Debug("Worker started")
	for {
		select {
		case vehicleID := <-wp.jobs:
			log.Debug("Processing vehicle", zap.String("vehicle_id", vehicleID))
			wp.notifyVehicle(ctx, vehicleID)
		case <-ctx.Done():
			log.Debug("Worker shutting down")
			return
		}
	}
}

// Dispatch queues a vehicle whose availability changed. It gives up and
// returns false if ctx ends first.
func (wp *WorkerPool) Dispatch(ctx context.Context, vehicleID string) bool {
	select {
	case wp.jobs <- vehicleID:
		return true
	case <-ctx.Done():
		wp.logger.Warn("Dropping notification job", zap.String("vehicle_id", vehicleID), zap.Error(ctx.Err()))
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan string {
	return wp.jobs
}

// notifyVehicle fetches the subscriptions watching a vehicle and pushes to each.
func (wp *WorkerPool) notifyVehicle(ctx context.Context, vehicleID string) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_vehicle_mapping svm ON svm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("svm.vehicle_id = ?", vehicleID).
		Find(&subscriptions).Error
	if err != nil {
		wp.logger.Error("Fetching subscriptions failed", zap.String("vehicle_id", vehicleID), zap.Error(err))
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	title := vehicleID
	var vehicle model.Vehicle
	if err := wp.db.WithContext(ctx).
		Select("name").
		Where("id = ?", vehicleID).
		First(&vehicle).Error; err != nil {
		wp.logger.Warn("Fetching vehicle failed, using its ID", zap.String("vehicle_id", vehicleID), zap.Error(err))
	} else if vehicle.Name != "" {
		title = vehicle.Name
	}

	payload, err := json.Marshal(Message{Title: title, Body: UpdatedBody})
	if err != nil {
		wp.logger.Error("Encoding notification failed", zap.Error(err))
		return
	}

	wp.logger.Info("Sending notifications",
		zap.String("vehicle_id", vehicleID), zap.Int("subscriptions", len(subscriptions)))
	for _, sub := range subscriptions {
		wp.send(ctx, sub, payload)
	}
}

func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.logger.Warn("Sending notification failed", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		wp.logger.Info("Subscription expired, deleting", zap.String("endpoint", sub.Endpoint))
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			wp.logger.Error("Deleting expired subscription failed", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}
