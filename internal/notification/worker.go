package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"booking-scheduler-backend/config"
	"booking-scheduler-backend/internal/model"
	"booking-scheduler-backend/internal/store"
)

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

// Options builds webpush options from the push configuration.
func Options(cfg config.PushConfig) *webpush.Options {
	return &webpush.Options{
		Subscriber:      cfg.Subject,
		VAPIDPublicKey:  cfg.PublicKey,
		VAPIDPrivateKey: cfg.PrivateKey,
		TTL:             cfg.TTL,
	}
}

// Payload is the JSON body pushed to a host when a booking is admitted.
type Payload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	BookingID int64  `json:"booking_id"`
	LinkID    string `json:"link_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// WorkerPool notifies hosts about new bookings in the background.
type WorkerPool struct {
	size    int
	jobs    chan int64
	store   store.Store
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool. queueSize bounds how many
// admitted bookings may wait for a worker.
func NewWorkerPool(size, queueSize int, st store.Store, webpushOptions *webpush.Options) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if queueSize < size {
		queueSize = size
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, queueSize),
		store:   st,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case bookingID := <-wp.jobs:
			wp.notifyHost(ctx, bookingID)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// BookingAdmitted queues a notification for the booking's host. It never
// blocks; when the queue is full the notification is dropped.
func (wp *WorkerPool) BookingAdmitted(bookingID int64) {
	select {
	case wp.jobs <- bookingID:
	default:
		log.Printf("Notification queue full, dropping booking %d", bookingID)
	}
}

func (wp *WorkerPool) notifyHost(ctx context.Context, bookingID int64) {
	booking, err := wp.store.GetBooking(ctx, bookingID)
	if err != nil {
		log.Printf("Error fetching booking %d: %v", bookingID, err)
		return
	}

	hostID := booking.BookingLink.HostID
	subscriptions, err := wp.store.ListPushSubscriptions(ctx, hostID)
	if err != nil {
		log.Printf("Error fetching subscriptions for host %d: %v", hostID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(newPayload(booking))
	if err != nil {
		log.Printf("Error encoding notification for booking %d: %v", bookingID, err)
		return
	}

	log.Printf("Sending %d notifications for booking %d", len(subscriptions), bookingID)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func newPayload(b *model.Booking) Payload {
	return Payload{
		Title:     "New booking",
		Body:      fmt.Sprintf("%s booked %s on %s at %s", b.VisitorName, b.BookingLink.Title, b.Date, b.StartTime),
		BookingID: b.ID,
		LinkID:    b.BookingLink.LinkID,
		Date:      b.Date,
		StartTime: b.StartTime.String(),
		EndTime:   b.EndTime.String(),
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.store.ExpirePushSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
