package service_test

import (
	"sync"
	"testing"

	"github.com/nguyencaoquydieu/TelegramClient/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelator_RecordAndPoll(t *testing.T) {
	c := service.NewCorrelator()

	_, ok := c.Poll("+84111111111")
	assert.False(t, ok)

	c.Record("+84111111111", 42, "pong")

	reply, ok := c.Poll("+84111111111")
	require.True(t, ok)
	assert.Equal(t, int64(42), reply.SenderID)
	assert.Equal(t, "pong", reply.Text)
	assert.False(t, reply.ReceivedAt.IsZero())
}

func TestCorrelator_OverwritesPreviousReply(t *testing.T) {
	c := service.NewCorrelator()

	c.Record("+84111111111", 42, "first")
	c.Record("+84111111111", 43, "second")

	reply, ok := c.Poll("+84111111111")
	require.True(t, ok)
	assert.Equal(t, int64(43), reply.SenderID)
	assert.Equal(t, "second", reply.Text)
}

func TestCorrelator_SlotsAreIndependent(t *testing.T) {
	c := service.NewCorrelator()

	c.Record("+84111111111", 42, "for first account")

	_, ok := c.Poll("+84222222222")
	assert.False(t, ok)
}

func TestCorrelator_Clear(t *testing.T) {
	c := service.NewCorrelator()

	c.Record("+84111111111", 42, "stale")
	c.Clear("+84111111111")

	_, ok := c.Poll("+84111111111")
	assert.False(t, ok)
}

func TestCorrelator_ConcurrentAccess(t *testing.T) {
	c := service.NewCorrelator()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Record("+84111111111", n, "msg")
				c.Poll("+84111111111")
				c.Clear("+84111111111")
			}
		}(int64(i))
	}
	wg.Wait()
}
