package jobs

import (
	"context"
	"log"
	"time"

	"world-events/internal/services"
)

// EventSweeper periodically reconciles overdue events: active events past
// their expiration are deactivated, pending events past their funding window
// are cancelled and refunded.
type EventSweeper struct {
	eventService *services.EventService
	interval     time.Duration
	stopChan     chan struct{}
}

// NewEventSweeper creates a new event sweeper job
func NewEventSweeper(eventService *services.EventService, interval time.Duration) *EventSweeper {
	return &EventSweeper{
		eventService: eventService,
		interval:     interval,
		stopChan:     make(chan struct{}),
	}
}

// Start begins the sweep loop
func (s *EventSweeper) Start() {
	log.Printf("[EventSweeper] Starting event expiration job (interval: %v)", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			log.Println("[EventSweeper] Stopping event expiration job")
			return
		}
	}
}

// Stop stops the sweep loop
func (s *EventSweeper) Stop() {
	close(s.stopChan)
}

func (s *EventSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.eventService.ProcessExpiredEvents(ctx)
}
