package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	ChannelUserRegistered = "users.registered"
	ChannelVehicleCreated = "cars.created"
)

const defaultPublishTimeout = 5 * time.Second

// Publisher is satisfied by *mq.MQ.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

type userRegisteredEvent struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

type vehicleCreatedEvent struct {
	ID          int64   `json:"id"`
	Category    string  `json:"category"`
	Model       string  `json:"model"`
	NumberPlate string  `json:"number_plate"`
	CurrentCity string  `json:"current_city"`
	RentPerHour float64 `json:"rent_per_hr"`
}

// Events publishes domain events off the request path. A nil *Events drops
// every event.
type Events struct {
	pub     Publisher
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewEvents returns an Events that publishes through pub.
func NewEvents(pub Publisher) *Events {
	return &Events{pub: pub, timeout: defaultPublishTimeout}
}

// Wait blocks until every in-flight publish has finished.
func (e *Events) Wait() {
	if e == nil {
		return
	}
	e.wg.Wait()
}

// publish is best effort: the write it describes has already committed, so a
// failure is logged and otherwise ignored. The send runs in its own goroutine
// on a context detached from the request and bounded by e.timeout.
func (e *Events) publish(ctx context.Context, channel string, payload any) {
	if e == nil || e.pub == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("channel", channel).Msg("failed to encode event")
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()

		if _, err := e.pub.Publish(pubCtx, channel, data, map[string]string{"event": channel}); err != nil {
			zerolog.Ctx(pubCtx).Warn().Err(err).Str("channel", channel).Msg("failed to publish event")
		}
	}()
}
