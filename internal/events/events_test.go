package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestMemoryPublisherKeepsNewestEvents(t *testing.T) {
	t.Parallel()

	pub := NewMemoryPublisher(2)
	pub.now = func() time.Time { return time.Unix(100, 0) }
	ctx := context.Background()
	for _, itemID := range []string{"a", "b", "c"} {
		if err := pub.Publish(ctx, Event{Type: TypeConceptLearned, ItemID: itemID}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	got := pub.Events()
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].ItemID != "b" || got[1].ItemID != "c" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].ID == "" || got[0].OccurredAt != 100 {
		t.Fatalf("expected id and timestamp to be filled: %+v", got[0])
	}
}

func TestMemoryPublisherHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMemoryPublisher(0).Publish(ctx, Event{Type: TypeToolGenerated}); err == nil {
		t.Fatalf("expected cancelled context to be rejected")
	}
}

func TestRedisPublisherPushesJSON(t *testing.T) {
	srv := miniredis.RunT(t)
	ctx := context.Background()

	pub, err := NewRedisPublisher(ctx, RedisConfig{Address: srv.Addr(), Key: "test:events", MaxLen: 2})
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	defer pub.Close()

	for _, itemID := range []string{"a", "b", "c"} {
		if err := pub.Publish(ctx, Event{Type: TypeCaseStudyAdded, ItemID: itemID, Category: "case-study"}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	values, err := srv.List("test:events")
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("expected list trimmed to 2, got %d", len(values))
	}
	var newest Event
	if err := json.Unmarshal([]byte(values[0]), &newest); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if newest.ItemID != "c" || newest.Type != TypeCaseStudyAdded || newest.Category != "case-study" {
		t.Fatalf("unexpected event: %+v", newest)
	}
}

func TestRedisPublisherRequiresAddress(t *testing.T) {
	t.Parallel()

	if _, err := NewRedisPublisher(context.Background(), RedisConfig{}); err == nil {
		t.Fatalf("expected missing address error")
	}
}

func TestRabbitMQPublisherRequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := NewRabbitMQPublisher(RabbitMQConfig{}); err == nil {
		t.Fatalf("expected missing url error")
	}
	var pub *RabbitMQPublisher
	if err := pub.Publish(context.Background(), Event{}); err == nil {
		t.Fatalf("expected uninitialised publisher error")
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("close nil publisher: %v", err)
	}
}
