package telegram

import (
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolLifecycle(t *testing.T) {
	b := newTestBot(t, newAPIStub(t))
	wp := NewWorkerPool(b, DefaultWorkerPoolConfig())

	require.NoError(t, wp.Start())
	assert.Error(t, wp.Start(), "double start rejected")

	require.NoError(t, wp.Stop())
	assert.Error(t, wp.Stop(), "double stop rejected")
}

func TestWorkerPoolSubmitBeforeStart(t *testing.T) {
	b := newTestBot(t, newAPIStub(t))
	wp := NewWorkerPool(b, DefaultWorkerPoolConfig())

	msg := testMessage(700, "hello")
	assert.Error(t, wp.SubmitMessage(msg))

	cb := testCallback("cb-early", "cancel", 700)
	assert.Error(t, wp.SubmitCallback(cb))
}

func TestWorkerPoolProcessesMessage(t *testing.T) {
	stub := newAPIStub(t)
	b := newTestBot(t, stub)

	wp := NewWorkerPool(b, WorkerPoolConfig{
		MessageWorkers:    1,
		CallbackWorkers:   1,
		MessageQueueSize:  5,
		CallbackQueueSize: 5,
		MaxConcurrentOps:  2,
	})
	require.NoError(t, wp.Start())

	msg := testMessage(701, "")
	msg.Photo = []tgbotapi.PhotoSize{{FileID: "photo-1"}}
	require.NoError(t, wp.SubmitMessage(msg))

	require.Eventually(t, func() bool {
		return stub.count("sendMessage") == 1
	}, 2*time.Second, 10*time.Millisecond, "queued photo message should produce a menu send")

	require.NoError(t, wp.Stop())
}

func TestWorkerPoolStats(t *testing.T) {
	b := newTestBot(t, newAPIStub(t))
	wp := NewWorkerPool(b, DefaultWorkerPoolConfig())

	stats := wp.GetStats()
	assert.Equal(t, false, stats["started"])
	assert.Equal(t, 8, stats["message_workers"])
	assert.Equal(t, 6, stats["callback_workers"])

	require.NoError(t, wp.Start())
	defer wp.Stop()

	stats = wp.GetStats()
	assert.Equal(t, true, stats["started"])
}
