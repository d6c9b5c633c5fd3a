package models

import (
	"context"
	"testing"
	"time"

	"github.com/miniclay/miniclay-server/pkg/helpers"
	"github.com/miniclay/miniclay-server/pkg/services/registry"
	"github.com/stretchr/testify/assert"
)

func TestJanitorModel_SweepOnce(t *testing.T) {
	app := newTestAppConfig()
	reg := registry.New()
	notifier := helpers.NewWebhookNotifier(app, app.Logger)

	m := NewJanitorModel(context.Background(), reg, notifier, app.Logger)
	m.maxIdle = 5 * time.Millisecond

	reg.Create("111111111", "", "jwt", "bot")
	reg.Create("222222222", "", "jwt", "bot")

	time.Sleep(10 * time.Millisecond)
	reg.Touch("222222222", "still talking")

	m.sweepOnce()
	assert.Equal(t, 1, reg.Size())

	_, ok := reg.Get("222222222", time.Minute)
	assert.True(t, ok)
}

func TestJanitorModel_StartAndShutdown(t *testing.T) {
	app := newTestAppConfig()
	reg := registry.New()
	notifier := helpers.NewWebhookNotifier(app, app.Logger)

	m := NewJanitorModel(context.Background(), reg, notifier, app.Logger)
	m.interval = time.Millisecond
	m.maxIdle = time.Nanosecond

	reg.Create("111111111", "", "jwt", "bot")

	done := make(chan struct{})
	go func() {
		m.StartJanitor()
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return reg.Size() == 0
	}, time.Second, 5*time.Millisecond)

	m.Shutdown()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after shutdown")
	}
}
