package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/concert-capstone/internal/models"
)

// MongoStore handles song document CRUD in MongoDB.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("songs")}
}

// EnsureIndexes makes the user-facing song id unique, so duplicate inserts
// fail atomically.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("songs_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("mongo create index: %w", err)
	}
	return nil
}

// Seed inserts songs only when the collection is empty. It returns the
// number of inserted documents.
func (s *MongoStore) Seed(ctx context.Context, songs []models.Song) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 || len(songs) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(songs))
	for i := range songs {
		song := songs[i]
		song.ObjectID = primitive.NilObjectID
		docs = append(docs, song)
	}
	res, err := s.col.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("mongo seed: %w", err)
	}
	return len(res.InsertedIDs), nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo count: %w", err)
	}
	return n, nil
}

func (s *MongoStore) List(ctx context.Context) ([]models.Song, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	var songs []models.Song
	if err := cur.All(ctx, &songs); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	return songs, nil
}

func (s *MongoStore) Get(ctx context.Context, id int64) (*models.Song, error) {
	var song models.Song
	err := s.col.FindOne(ctx, bson.M{"id": id}).Decode(&song)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find one: %w", err)
	}
	return &song, nil
}

// Insert stores a new song and returns the hex of its assigned _id.
func (s *MongoStore) Insert(ctx context.Context, song *models.Song) (string, error) {
	song.ObjectID = primitive.NilObjectID
	res, err := s.col.InsertOne(ctx, song)
	if mongo.IsDuplicateKeyError(err) {
		return "", ErrDuplicate
	}
	if err != nil {
		return "", fmt.Errorf("mongo insert: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	song.ObjectID = oid
	return oid.Hex(), nil
}

// Update sets the given fields and returns the song as it was before and
// after the update.
func (s *MongoStore) Update(ctx context.Context, id int64, fields models.SongFields) (before, after *models.Song, err error) {
	if fields.Empty() {
		song, err := s.Get(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		return song, song, nil
	}

	var prev models.Song
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	err = s.col.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": fields}, opts).Decode(&prev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("mongo update: %w", err)
	}
	next := prev.Apply(fields)
	return &prev, &next, nil
}

func (s *MongoStore) Delete(ctx context.Context, id int64) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
