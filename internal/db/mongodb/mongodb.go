package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/snaptic/go-snaptic/internal/models"
	"github.com/snaptic/go-snaptic/internal/shared"
)

// MongoDB implements the Store interface for MongoDB
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	config   *models.CacheConfig
}

const (
	collNotes        = "notes"
	collTags         = "tags"
	collAccount      = "account"
	collSchedules    = "schedules"
	collSyncRuns     = "sync_runs"
	collCheckRecords = "check_records"
)

// New creates a new MongoDB cache instance
func New(config *models.CacheConfig) (*MongoDB, error) {
	return &MongoDB{
		config: config,
	}, nil
}

// Connect establishes connection to MongoDB
func (m *MongoDB) Connect(ctx context.Context) error {
	clientOptions := options.Client().ApplyURI(m.config.URI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m.client = client
	m.database = client.Database(m.config.Database)

	if err := m.createIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect(ctx context.Context) error {
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}
	return nil
}

// Ping checks the database connection
func (m *MongoDB) Ping(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("not connected to database")
	}
	return m.client.Ping(ctx, nil)
}

// createIndexes creates necessary indexes for query performance
func (m *MongoDB) createIndexes(ctx context.Context) error {
	noteIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "source", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "tags", Value: 1}},
		},
	}

	if _, err := m.database.Collection(collNotes).Indexes().CreateMany(ctx, noteIndexes); err != nil {
		return fmt.Errorf("failed to create note indexes: %w", err)
	}

	checkIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "run_id", Value: 1}, {Key: "started_at", Value: 1}},
		},
	}

	if _, err := m.database.Collection(collCheckRecords).Indexes().CreateMany(ctx, checkIndexes); err != nil {
		return fmt.Errorf("failed to create check record indexes: %w", err)
	}

	return nil
}

// Note operations

// UpsertNote inserts or replaces a cached note
func (m *MongoDB) UpsertNote(ctx context.Context, note *models.Note) error {
	opts := options.Replace().SetUpsert(true)
	_, err := m.database.Collection(collNotes).ReplaceOne(ctx, bson.M{"_id": note.ID}, note, opts)
	return err
}

// UpsertNotes upserts a batch of notes
func (m *MongoDB) UpsertNotes(ctx context.Context, notes []models.Note) (int, error) {
	if len(notes) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, 0, len(notes))
	for i := range notes {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": notes[i].ID}).
			SetReplacement(&notes[i]).
			SetUpsert(true))
	}

	result, err := m.database.Collection(collNotes).BulkWrite(ctx, writes)
	if err != nil {
		return 0, err
	}
	return int(result.UpsertedCount + result.ModifiedCount + result.MatchedCount), nil
}

// GetNote retrieves a cached note by id
func (m *MongoDB) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	var note models.Note
	err := m.database.Collection(collNotes).FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("note not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// ListNotes lists cached notes matching a filter, newest first
func (m *MongoDB) ListNotes(ctx context.Context, filter shared.NoteFilter) ([]*models.Note, error) {
	query := bson.M{}

	if filter.Keyword != "" {
		pattern := primitive.Regex{Pattern: filter.Keyword, Options: "i"}
		query["$or"] = []bson.M{
			{"text": pattern},
			{"summary": pattern},
		}
	}
	if filter.Tag != "" {
		query["tags"] = filter.Tag
	}
	if filter.Source != "" {
		query["source"] = filter.Source
	}
	if filter.HasMedia != nil {
		if *filter.HasMedia {
			query["media.0"] = bson.M{"$exists": true}
		} else {
			query["media.0"] = bson.M{"$exists": false}
		}
	}
	if filter.StartTime != nil || filter.EndTime != nil {
		timeRange := bson.M{}
		if filter.StartTime != nil {
			timeRange["$gte"] = *filter.StartTime
		}
		if filter.EndTime != nil {
			timeRange["$lte"] = *filter.EndTime
		}
		query["created_at"] = timeRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
		if filter.Offset > 0 {
			opts.SetSkip(int64(filter.Offset))
		}
	}

	cursor, err := m.database.Collection(collNotes).Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notes []*models.Note
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// DeleteNote removes a note from the cache
func (m *MongoDB) DeleteNote(ctx context.Context, id int64) error {
	result, err := m.database.Collection(collNotes).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("note not found: %d", id)
	}
	return nil
}

// DeleteAllNotes clears the note cache
func (m *MongoDB) DeleteAllNotes(ctx context.Context) (int, error) {
	result, err := m.database.Collection(collNotes).DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return int(result.DeletedCount), nil
}

// Tag operations

// ReplaceTags replaces the cached account tag list
func (m *MongoDB) ReplaceTags(ctx context.Context, tags []models.Tag) error {
	coll := m.database.Collection(collTags)

	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(tags))
	for _, tag := range tags {
		docs = append(docs, bson.M{"_id": tag.Name, "count": tag.Count})
	}
	_, err := coll.InsertMany(ctx, docs)
	return err
}

// ListTags lists the cached account tags by descending count
func (m *MongoDB) ListTags(ctx context.Context) ([]models.Tag, error) {
	opts := options.Find().SetSort(bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := m.database.Collection(collTags).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tags []models.Tag
	for cursor.Next(ctx) {
		var doc struct {
			Name  string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		tags = append(tags, models.Tag{Name: doc.Name, Count: doc.Count})
	}
	return tags, cursor.Err()
}

// Account profile

// SaveUser stores the account profile (a single document)
func (m *MongoDB) SaveUser(ctx context.Context, user *models.User) error {
	coll := m.database.Collection(collAccount)
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	_, err := coll.InsertOne(ctx, user)
	return err
}

// GetUser retrieves the cached account profile
func (m *MongoDB) GetUser(ctx context.Context) (*models.User, error) {
	var user models.User
	err := m.database.Collection(collAccount).FindOne(ctx, bson.M{}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("no cached user, run a sync first")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Statistics

// CountNotes returns the number of cached notes
func (m *MongoDB) CountNotes(ctx context.Context) (int, error) {
	count, err := m.database.Collection(collNotes).CountDocuments(ctx, bson.M{})
	return int(count), err
}

// CountNotesWithMedia returns the number of cached notes with attachments
func (m *MongoDB) CountNotesWithMedia(ctx context.Context) (int, error) {
	count, err := m.database.Collection(collNotes).CountDocuments(ctx, bson.M{"media.0": bson.M{"$exists": true}})
	return int(count), err
}

// TopTags returns the most used tags, by service-reported note count
func (m *MongoDB) TopTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := m.database.Collection(collTags).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []models.TagCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// NotesBySource groups cached notes by the client that created them
func (m *MongoDB) NotesBySource(ctx context.Context) ([]models.SourceCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$ifNull": []interface{}{"$source", ""}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	cursor, err := m.database.Collection(collNotes).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []models.SourceCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
