// Package cache holds the explicit query cache that replaces ad-hoc
// client-side caching of appointment lists. The invalidation contract is
// simple and total: every appointment write calls InvalidateDay for each
// (unit, date) pair it touches, so readers never see a stale day for longer
// than one write round-trip.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/claromed/clinic-api/internal/appointment"
	"github.com/claromed/clinic-api/internal/calendar"
)

type AgendaCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewAgendaCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *AgendaCache {
	return &AgendaCache{
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "agenda-cache").Logger(),
	}
}

func dayKey(unitID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("appointments:%s:%s", unitID.String(), date.Format(calendar.ISODate))
}

// GetDay returns the cached agenda for a unit/day. A cache failure is
// reported as a miss, never as an error: the repository remains the source
// of truth.
func (c *AgendaCache) GetDay(ctx context.Context, unitID uuid.UUID, date time.Time) ([]appointment.Appointment, bool) {
	raw, err := c.client.Get(ctx, dayKey(unitID, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("agenda cache read failed")
		}
		return nil, false
	}

	var appts []appointment.Appointment
	if err := json.Unmarshal(raw, &appts); err != nil {
		c.log.Warn().Err(err).Msg("agenda cache entry corrupt, dropping")
		_ = c.client.Del(ctx, dayKey(unitID, date)).Err()
		return nil, false
	}

	return appts, true
}

func (c *AgendaCache) SetDay(ctx context.Context, unitID uuid.UUID, date time.Time, appts []appointment.Appointment) {
	raw, err := json.Marshal(appts)
	if err != nil {
		c.log.Warn().Err(err).Msg("agenda cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, dayKey(unitID, date), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("agenda cache write failed")
	}
}

func (c *AgendaCache) InvalidateDay(ctx context.Context, unitID uuid.UUID, date time.Time) {
	if err := c.client.Del(ctx, dayKey(unitID, date)).Err(); err != nil {
		c.log.Warn().Err(err).Msg("agenda cache invalidation failed")
	}
}
