package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// MirrorService periodically re-mirrors every stored player to the cloud.
// Purely best effort: a failed player is logged and skipped, local state is
// always authoritative.
type MirrorService struct {
	players  PlayerRepository
	remote   RemoteSync
	schedule string
	logger   *zap.Logger
}

// NewMirrorService creates a MirrorService. schedule is a cron spec, e.g.
// "@hourly".
func NewMirrorService(players PlayerRepository, remote RemoteSync, schedule string, logger *zap.Logger) *MirrorService {
	return &MirrorService{
		players:  players,
		remote:   remote,
		schedule: schedule,
		logger:   logger,
	}
}

// Start runs the mirror scheduler until ctx is cancelled.
func (s *MirrorService) Start(ctx context.Context) {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.schedule, func() {
		s.mirrorAll(ctx)
	})
	if err != nil {
		s.logger.Error("failed to add mirror cron job", zap.Error(err))
		return
	}

	c.Start()
	s.logger.Info("mirror scheduler started", zap.String("schedule", s.schedule))

	<-ctx.Done()

	c.Stop()
	s.logger.Info("mirror scheduler stopped")
}

// mirrorAll pushes every stored player's progress to the cloud.
func (s *MirrorService) mirrorAll(ctx context.Context) {
	users := s.players.AllUsers(ctx)
	if len(users) == 0 {
		return
	}

	mirrored := 0
	for _, u := range users {
		mctx, cancel := context.WithTimeout(ctx, mirrorTimeout)
		err := s.remote.SavePlayer(mctx, u.Nickname, &u.Progress)
		cancel()

		if err != nil {
			s.logger.Warn("mirror pass: player failed",
				zap.String("nickname", u.Nickname),
				zap.Error(err),
			)
			continue
		}
		mirrored++
	}

	s.logger.Info("mirror pass finished",
		zap.Int("players", len(users)),
		zap.Int("mirrored", mirrored),
	)
}
