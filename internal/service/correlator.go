package service

import (
	"sync"
	"time"
)

// Reply is the last inbound private message observed on an account.
type Reply struct {
	SenderID   int64
	Text       string
	ReceivedAt time.Time
}

// Correlator holds one reply slot per account. Record overwrites the slot
// unconditionally: there is no queue and no history, a fast second message
// replaces the first. Session observers call Record from the client's update
// goroutines while the bridge polls from its own, hence the lock.
type Correlator struct {
	mu    sync.Mutex
	slots map[string]Reply
}

func NewCorrelator() *Correlator {
	return &Correlator{slots: make(map[string]Reply)}
}

func (c *Correlator) Record(phone string, senderID int64, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[phone] = Reply{SenderID: senderID, Text: text, ReceivedAt: time.Now()}
}

// Clear must run after the gate is acquired and before the send, so a reply
// to an earlier request can never satisfy the current one.
func (c *Correlator) Clear(phone string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.slots, phone)
}

func (c *Correlator) Poll(phone string) (Reply, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	reply, ok := c.slots[phone]
	return reply, ok
}
