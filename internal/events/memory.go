package events

import (
	"context"
	"sync"
	"time"
)

const defaultMemoryCapacity = 256

// MemoryPublisher 将事件保存在有界内存缓冲中，超出容量时丢弃最旧的事件。
type MemoryPublisher struct {
	mu       sync.Mutex
	capacity int
	events   []Event
	now      func() time.Time
}

// NewMemoryPublisher 创建内存事件发布器，capacity<=0 时使用默认容量。
func NewMemoryPublisher(capacity int) *MemoryPublisher {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryPublisher{capacity: capacity, now: time.Now}
}

// Publish 实现 Publisher 接口。
func (p *MemoryPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, prepare(event, p.now))
	if overflow := len(p.events) - p.capacity; overflow > 0 {
		p.events = append([]Event(nil), p.events[overflow:]...)
	}
	return nil
}

// Events 返回当前缓冲中事件的快照。
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// Close 实现 Publisher 接口。
func (p *MemoryPublisher) Close() error { return nil }

var _ Publisher = (*MemoryPublisher)(nil)
