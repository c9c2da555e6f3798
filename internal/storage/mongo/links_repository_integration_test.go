//go:build integration

package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/IgorGrieder/shortlinks/internal/infrastructure/db"
	"github.com/IgorGrieder/shortlinks/internal/processing/links"
	"go.mongodb.org/mongo-driver/bson"
)

// Run with: MONGODB_TEST_URI=mongodb://localhost:27017 go test -tags integration ./internal/storage/mongo/
func newIntegrationRepo(t *testing.T) *LinksRepository {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx := context.Background()
	conn, err := db.ConnectMongo(ctx, uri, fmt.Sprintf("shortlinks_test_%d", time.Now().UnixNano()))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Database.Drop(context.Background())
		_ = conn.Disconnect(context.Background())
	})

	repo, err := NewLinksRepository(conn)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	return repo
}

func newLink(code string) *links.Link {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &links.Link{
		ShortCode: code,
		LongURL:   "https://example.com/" + code,
		CreatedAt: now,
		ExpiresAt: now.Add(30 * time.Minute),
	}
}

func TestLinksRepository_DuplicateCodeIsRejected(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, newLink("promo1")); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, newLink("promo1")); !errors.Is(err, links.ErrCodeTaken) {
		t.Fatalf("second create: got %v, want ErrCodeTaken", err)
	}

	n, err := repo.coll.CountDocuments(ctx, bson.M{"shortCode": "promo1"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("got %d stored links for promo1, want 1", n)
	}
}

func TestLinksRepository_ConcurrentCreateHasOneWinner(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	const racers = 8
	errs := make(chan error, racers)
	var wg sync.WaitGroup
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Create(ctx, newLink("race"))
		}()
	}
	wg.Wait()
	close(errs)

	var ok, taken int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, links.ErrCodeTaken):
			taken++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || taken != racers-1 {
		t.Errorf("got %d created and %d taken, want 1 and %d", ok, taken, racers-1)
	}
}

func TestLinksRepository_FindAndAppendClick(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	if _, err := repo.FindByCode(ctx, "missing"); !errors.Is(err, links.ErrNotFound) {
		t.Fatalf("find unknown: got %v, want ErrNotFound", err)
	}
	click := links.Click{Timestamp: time.Now().UTC(), Referrer: links.DirectReferrer}
	if err := repo.AppendClick(ctx, "missing", click); !errors.Is(err, links.ErrNotFound) {
		t.Fatalf("append to unknown: got %v, want ErrNotFound", err)
	}

	want := newLink("clicky")
	if err := repo.Create(ctx, want); err != nil {
		t.Fatal(err)
	}

	const visits = 20
	var wg sync.WaitGroup
	for i := range visits {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := links.Click{Timestamp: time.Now().UTC(), Referrer: fmt.Sprintf("https://ref%d.example", i)}
			if err := repo.AppendClick(ctx, "clicky", c); err != nil {
				t.Errorf("append: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := repo.FindByCode(ctx, "clicky")
	if err != nil {
		t.Fatal(err)
	}
	if got.LongURL != want.LongURL || !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if len(got.Clicks) != visits {
		t.Errorf("got %d clicks, want %d", len(got.Clicks), visits)
	}
}
