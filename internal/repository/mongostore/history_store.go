// Package mongostore keeps search history in a MongoDB collection.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"intituas-ai-be/internal/constant"
	"intituas-ai-be/internal/entity"
	"intituas-ai-be/internal/repository/contract"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "searchHistory"

type historyDocument struct {
	Id        string    `bson:"_id"`
	UserId    string    `bson:"userId"`
	Question  string    `bson:"question"`
	Answer    string    `bson:"answer"`
	Citations []string  `bson:"citations,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (d *historyDocument) toEntity() *entity.HistoryEntry {
	id, _ := uuid.Parse(d.Id)
	return &entity.HistoryEntry{
		Id:        id,
		UserId:    d.UserId,
		Question:  d.Question,
		Answer:    d.Answer,
		Citations: d.Citations,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

type HistoryStore struct {
	collection *mongo.Collection
	now        func() time.Time
}

var _ contract.HistoryStore = (*HistoryStore)(nil)

// Connect opens a client and pings it so a bad URI fails at startup.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func NewHistoryStore(db *mongo.Database, now func() time.Time) *HistoryStore {
	if now == nil {
		now = time.Now
	}
	return &HistoryStore{collection: db.Collection(CollectionName), now: now}
}

// EnsureIndexes creates the per-user recency index used by every query.
func (s *HistoryStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("userId_createdAt"),
	})
	if err != nil {
		return fmt.Errorf("create history index: %w", err)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, contract.ErrHistoryUnavailable, err)
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// Append inserts the entry and then deletes whatever falls beyond the
// retention size. The two steps are not atomic; a concurrent append may
// briefly leave one extra entry that the next append removes.
func (s *HistoryStore) Append(ctx context.Context, userId, question, answer string, citations []string) (*entity.HistoryEntry, error) {
	doc := &historyDocument{
		Id:        uuid.Must(uuid.NewV7()).String(),
		UserId:    userId,
		Question:  question,
		Answer:    answer,
		Citations: citations,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return nil, unavailable("insert", err)
	}

	cursor, err := s.collection.Find(ctx,
		bson.M{"userId": userId},
		options.Find().
			SetSort(newestFirst).
			SetSkip(int64(constant.HistoryRetention)).
			SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, unavailable("list for retention", err)
	}

	var surplus []struct {
		Id string `bson:"_id"`
	}
	if err := cursor.All(ctx, &surplus); err != nil {
		return nil, unavailable("list for retention", err)
	}

	if len(surplus) > 0 {
		ids := make([]string, len(surplus))
		for i, d := range surplus {
			ids[i] = d.Id
		}
		if _, err := s.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
			return nil, unavailable("trim", err)
		}
	}

	return doc.toEntity(), nil
}

func (s *HistoryStore) ListRecent(ctx context.Context, userId string, limit int) ([]*entity.HistoryEntry, error) {
	if limit <= 0 {
		limit = constant.HistoryRetention
	}

	cursor, err := s.collection.Find(ctx,
		bson.M{"userId": userId},
		options.Find().SetSort(newestFirst).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, unavailable("list", err)
	}

	var docs []*historyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, unavailable("list", err)
	}

	entries := make([]*entity.HistoryEntry, len(docs))
	for i, d := range docs {
		entries[i] = d.toEntity()
	}
	return entries, nil
}
