package engine

import (
	"context"
	"time"

	"clawtown-server/internal/gateway"
	"clawtown-server/pkg/logger"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/sirupsen/logrus"
)

// Scheduler задает ритм миру: тик, чистка кодов и сохранение.
// Сам он ничего не меняет, только шлет сообщения актору.
type Scheduler struct {
	root    *actor.RootContext
	pid     *actor.PID
	gateway *gateway.Gateway

	tickEvery    time.Duration
	sweepEvery   time.Duration
	persistEvery time.Duration

	log *logrus.Entry
}

func NewScheduler(root *actor.RootContext, pid *actor.PID, gw *gateway.Gateway, cfg Config) *Scheduler {
	return &Scheduler{
		root:         root,
		pid:          pid,
		gateway:      gw,
		tickEvery:    cfg.TickInterval,
		sweepEvery:   cfg.SweepInterval,
		persistEvery: cfg.PersistInterval,
		log:          logger.Component("tick_scheduler"),
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	tick := time.NewTicker(s.tickEvery)
	sweep := time.NewTicker(s.sweepEvery)
	persist := time.NewTicker(s.persistEvery)
	defer tick.Stop()
	defer sweep.Stop()
	defer persist.Stop()

	s.log.WithFields(logrus.Fields{
		"tick":    s.tickEvery.String(),
		"sweep":   s.sweepEvery.String(),
		"persist": s.persistEvery.String(),
	}).Info("Scheduler started.")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Scheduler stopped.")
			return
		case <-tick.C:
			s.root.Send(s.pid, &tickMsg{})
		case <-sweep.C:
			if n := s.gateway.Sweep(); n > 0 {
				s.log.WithField("codes", n).Debug("Expired join codes removed.")
			}
			s.root.Send(s.pid, &sweepMsg{})
		case <-persist.C:
			s.root.Send(s.pid, &persistMsg{})
		}
	}
}
