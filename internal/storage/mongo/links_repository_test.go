package mongo

import (
	"testing"
	"time"

	"github.com/IgorGrieder/shortlinks/internal/processing/links"
	"go.mongodb.org/mongo-driver/bson"
)

func TestLinkDocFieldNames(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	doc := toLinkDoc(&links.Link{
		ShortCode: "promo1",
		LongURL:   "https://example.com",
		CreatedAt: created,
		ExpiresAt: created.Add(30 * time.Minute),
	})

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"shortCode", "longUrl", "createdAt", "expiresAt", "clicks"} {
		if _, ok := m[key]; !ok {
			t.Errorf("document is missing %q: %v", key, m)
		}
	}
	if _, ok := m["_id"]; ok {
		t.Error("zero ObjectID should be omitted so the server assigns one")
	}
	if clicks, ok := m["clicks"].(bson.A); !ok || len(clicks) != 0 {
		t.Errorf("new link should start with an empty clicks array, got %#v", m["clicks"])
	}
}

func TestMapLinkDoc(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 5, 0, 0, time.UTC)
	link := mapLinkDoc(linkDoc{
		ShortCode: "abc",
		LongURL:   "https://example.com",
		Clicks: []clickDoc{
			{Timestamp: at, Referrer: "direct"},
			{Timestamp: at.Add(time.Second), Referrer: "https://news.example"},
		},
	})

	if len(link.Clicks) != 2 {
		t.Fatalf("got %d clicks, want 2", len(link.Clicks))
	}
	if link.Clicks[0].Referrer != "direct" || link.Clicks[1].Referrer != "https://news.example" {
		t.Errorf("click order not preserved: %+v", link.Clicks)
	}
}

func TestDateString(t *testing.T) {
	at := time.Date(2025, 12, 31, 23, 30, 0, 0, time.FixedZone("UTC-3", -3*3600))
	if got := dateString(at); got != "2026-01-01" {
		t.Errorf("got %q, want 2026-01-01 (UTC day)", got)
	}
}
