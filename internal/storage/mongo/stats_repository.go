package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/IgorGrieder/shortlinks/internal/infrastructure/db"
	"github.com/IgorGrieder/shortlinks/internal/processing/links"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const clicksDailyCollectionName = "clicks_daily"

// ClickStatsRepository keeps one document per short code and UTC day. It is
// written only by the click consumer; the link document's clicks array stays
// the source of truth.
type ClickStatsRepository struct {
	coll *mongo.Collection
}

type clickDailyDoc struct {
	ShortCode   string    `bson:"shortCode"`
	Date        string    `bson:"date"` // YYYY-MM-DD, UTC
	Count       int64     `bson:"count"`
	LastClickAt time.Time `bson:"lastClickAt"`
}

func NewClickStatsRepository(m *db.Mongo) (*ClickStatsRepository, error) {
	repo := &ClickStatsRepository{coll: m.Collection(clicksDailyCollectionName)}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The unique compound index also serves the range scan in GetDaily.
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "shortCode", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_shortCode_date"),
	})
	if err != nil {
		return nil, fmt.Errorf("create clicks_daily index: %w", err)
	}

	return repo, nil
}

// IncDaily upserts the day's counter. The equality filter fields are copied
// into the document on insert.
func (r *ClickStatsRepository) IncDaily(ctx context.Context, code string, at time.Time) error {
	at = at.UTC()

	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"shortCode": code, "date": dateString(at)},
		bson.M{
			"$inc": bson.M{"count": 1},
			"$max": bson.M{"lastClickAt": at},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("increment daily clicks for %q: %w", code, err)
	}
	return nil
}

// GetDaily returns the stored days in [from, to], oldest first. Days without
// clicks have no document and are absent.
func (r *ClickStatsRepository) GetDaily(ctx context.Context, code string, from, to time.Time) ([]links.DailyCount, error) {
	cur, err := r.coll.Find(
		ctx,
		bson.M{
			"shortCode": code,
			"date":      bson.M{"$gte": dateString(from), "$lte": dateString(to)},
		},
		options.Find().
			SetSort(bson.D{{Key: "date", Value: 1}}).
			SetProjection(bson.M{"_id": 0, "date": 1, "count": 1}),
	)
	if err != nil {
		return nil, err
	}

	var docs []clickDailyDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]links.DailyCount, 0, len(docs))
	for _, doc := range docs {
		out = append(out, links.DailyCount{Date: doc.Date, Count: doc.Count})
	}
	return out, nil
}

func dateString(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
