package models

import (
	"context"
	"time"

	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/miniclay/miniclay-server/pkg/helpers"
	"github.com/miniclay/miniclay-server/pkg/services/registry"
	"github.com/sirupsen/logrus"
)

// JanitorModel evicts idle session records on a fixed interval,
// independent of request traffic.
type JanitorModel struct {
	ctx             context.Context
	cancel          context.CancelFunc
	registry        *registry.SessionRegistry
	webhookNotifier *helpers.WebhookNotifier
	logger          *logrus.Entry

	interval time.Duration
	maxIdle  time.Duration
}

func NewJanitorModel(mainCtx context.Context, reg *registry.SessionRegistry, webhookNotifier *helpers.WebhookNotifier, logger *logrus.Logger) *JanitorModel {
	ctx, cancel := context.WithCancel(mainCtx)

	return &JanitorModel{
		ctx:             ctx,
		cancel:          cancel,
		registry:        reg,
		webhookNotifier: webhookNotifier,
		logger:          logger.WithField("model", "janitor"),

		interval: config.JanitorRunInterval,
		maxIdle:  config.MaxSessionIdleDuration,
	}
}

// StartJanitor runs the eviction loop until Shutdown is called.
func (m *JanitorModel) StartJanitor() {
	m.logger.Infoln("janitor started")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			m.logger.Infoln("janitor shutdown completed")
			return
		case <-ticker.C:
			m.sweepOnce()
		}
	}
}

func (m *JanitorModel) sweepOnce() {
	removed := m.registry.Sweep(m.maxIdle)
	if len(removed) == 0 {
		return
	}

	for _, id := range removed {
		m.webhookNotifier.Notify(helpers.EventSessionEvicted, id)
		m.logger.Infof("cleaned up inactive session %s", id)
	}
	m.logger.Infof("janitor evicted %d idle sessions", len(removed))
}

// Shutdown stops the janitor loop.
func (m *JanitorModel) Shutdown() {
	m.cancel()
}
