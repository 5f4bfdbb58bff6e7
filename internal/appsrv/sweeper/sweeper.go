// Package sweeper periodically finds versions that have been running,
// non-whitelisted, for longer than the configured idle window. The versions
// are reported for the deployment orchestrator to stop; this service only
// owns the metadata.
package sweeper

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/appcloud/appcloud-internal/internal/appsrv/config"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db"
)

type Sweeper struct {
	cron      *cron.Cron
	idleHours int
}

// New creates a sweeper scheduled per the configured sweep schedule.
func New() (*Sweeper, error) {
	s := &Sweeper{
		cron:      cron.New(),
		idleHours: config.Config().IdleVersionHours,
	}
	_, err := s.cron.AddFunc(config.Config().SweepSchedule, s.run)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the sweep schedule. The first sweep runs at the first
// scheduled tick, not immediately.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// run acquires a connection for one pass and releases it afterwards.
func (s *Sweeper) run() {
	ctx, err := db.ConnCtx(context.Background())
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("sweeper: unable to get db connection")
		return
	}
	defer func() {
		if dbm := db.DB(ctx); dbm != nil {
			dbm.Close(context.Background())
		}
	}()
	s.Sweep(ctx)
}

// Sweep runs one pass over the connection carried in ctx.
func (s *Sweeper) Sweep(ctx context.Context) {
	dbm := db.DB(ctx)
	if dbm == nil {
		return
	}

	versions, err := dbm.ListVersionsRunningLongerThan(ctx, s.idleHours)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("sweeper: failed to list idle versions")
		return
	}
	if len(versions) == 0 {
		log.Ctx(ctx).Info().Msg("sweeper: no idle versions")
		return
	}
	for _, v := range versions {
		log.Ctx(ctx).Info().
			Str("tenant_id", string(v.TenantID)).
			Str("hash_id", v.HashID).
			Str("version", v.Name).
			Int("idle_hours", s.idleHours).
			Msg("sweeper: idle running version")
	}
}
