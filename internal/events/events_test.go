package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IgorGrieder/shortlinks/internal/processing/links"
	"github.com/segmentio/kafka-go"
)

type captureWriter struct {
	msgs []kafka.Message
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func TestPublishClick(t *testing.T) {
	w := &captureWriter{}
	p := NewKafkaClickPublisher(w)
	p.newID = func() string { return "evt-1" }

	at := time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC)
	if err := p.PublishClick(context.Background(), "promo1", links.Click{Timestamp: at, Referrer: "direct"}); err != nil {
		t.Fatal(err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "promo1" {
		t.Errorf("got key %q, want promo1", msg.Key)
	}

	var ev ClickRecorded
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		t.Fatal(err)
	}
	want := ClickRecorded{EventID: "evt-1", ShortCode: "promo1", Referrer: "direct", OccurredAt: "2025-05-01T08:30:00Z"}
	if ev != want {
		t.Errorf("got %+v, want %+v", ev, want)
	}
}

func TestDecodeClickRecorded(t *testing.T) {
	fallback := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("uses occurredAt", func(t *testing.T) {
		_, at, err := DecodeClickRecorded([]byte(`{"eventId":"e","shortCode":"abc","occurredAt":"2025-05-02T10:00:00Z"}`), fallback)
		if err != nil {
			t.Fatal(err)
		}
		if !at.Equal(time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)) {
			t.Errorf("got %v", at)
		}
	})

	t.Run("bad occurredAt falls back", func(t *testing.T) {
		_, at, err := DecodeClickRecorded([]byte(`{"shortCode":"abc","occurredAt":"yesterday"}`), fallback)
		if err != nil {
			t.Fatal(err)
		}
		if !at.Equal(fallback) {
			t.Errorf("got %v, want fallback", at)
		}
	})

	t.Run("missing short code", func(t *testing.T) {
		if _, _, err := DecodeClickRecorded([]byte(`{"eventId":"e"}`), fallback); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		if _, _, err := DecodeClickRecorded([]byte(`{`), fallback); err == nil {
			t.Error("expected error")
		}
	})
}
