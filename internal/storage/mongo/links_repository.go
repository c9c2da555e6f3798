package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IgorGrieder/shortlinks/internal/infrastructure/db"
	"github.com/IgorGrieder/shortlinks/internal/processing/links"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const linksCollectionName = "urls"

type LinksRepository struct {
	coll *mongo.Collection
}

type linkDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ShortCode string             `bson:"shortCode"`
	LongURL   string             `bson:"longUrl"`
	CreatedAt time.Time          `bson:"createdAt"`
	ExpiresAt time.Time          `bson:"expiresAt"`
	Clicks    []clickDoc         `bson:"clicks"`
}

type clickDoc struct {
	Timestamp time.Time `bson:"timestamp"`
	Referrer  string    `bson:"referrer"`
}

// NewLinksRepository ensures the unique short code index exists. Create
// relies on it to reject concurrent inserts of the same code.
func NewLinksRepository(m *db.Mongo) (*LinksRepository, error) {
	repo := &LinksRepository{coll: m.Collection(linksCollectionName)}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shortCode", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_shortCode"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create links indexes: %w", err)
	}

	return repo, nil
}

func (r *LinksRepository) Create(ctx context.Context, link *links.Link) error {
	_, err := r.coll.InsertOne(ctx, toLinkDoc(link))
	if err == nil {
		return nil
	}

	if mongo.IsDuplicateKeyError(err) {
		return links.ErrCodeTaken
	}

	return fmt.Errorf("insert link %q: %w", link.ShortCode, err)
}

func (r *LinksRepository) FindByCode(ctx context.Context, code string) (*links.Link, error) {
	var doc linkDoc
	err := r.coll.FindOne(ctx, bson.M{"shortCode": code}).Decode(&doc)
	if err == nil {
		return mapLinkDoc(doc), nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, links.ErrNotFound
	}

	return nil, fmt.Errorf("find link %q: %w", code, err)
}

// AppendClick pushes onto the embedded clicks array in a single update, so
// concurrent visits to the same link each land.
func (r *LinksRepository) AppendClick(ctx context.Context, code string, click links.Click) error {
	res, err := r.coll.UpdateOne(
		ctx,
		bson.M{"shortCode": code},
		bson.M{"$push": bson.M{"clicks": clickDoc{
			Timestamp: click.Timestamp.UTC(),
			Referrer:  click.Referrer,
		}}},
	)
	if err != nil {
		return fmt.Errorf("append click to %q: %w", code, err)
	}
	if res.MatchedCount == 0 {
		return links.ErrNotFound
	}
	return nil
}

func toLinkDoc(link *links.Link) linkDoc {
	clicks := make([]clickDoc, 0, len(link.Clicks))
	for _, c := range link.Clicks {
		clicks = append(clicks, clickDoc{Timestamp: c.Timestamp.UTC(), Referrer: c.Referrer})
	}
	return linkDoc{
		ShortCode: link.ShortCode,
		LongURL:   link.LongURL,
		CreatedAt: link.CreatedAt.UTC(),
		ExpiresAt: link.ExpiresAt.UTC(),
		Clicks:    clicks,
	}
}

func mapLinkDoc(doc linkDoc) *links.Link {
	var clicks []links.Click
	if len(doc.Clicks) > 0 {
		clicks = make([]links.Click, 0, len(doc.Clicks))
		for _, c := range doc.Clicks {
			clicks = append(clicks, links.Click{Timestamp: c.Timestamp, Referrer: c.Referrer})
		}
	}
	return &links.Link{
		ShortCode: doc.ShortCode,
		LongURL:   doc.LongURL,
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
		Clicks:    clicks,
	}
}
