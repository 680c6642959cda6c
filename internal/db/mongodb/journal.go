package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/snaptic/go-snaptic/internal/models"
)

// Schedule operations

// CreateSchedule creates a new schedule
func (m *MongoDB) CreateSchedule(ctx context.Context, schedule *models.Schedule) error {
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()

	_, err := m.database.Collection(collSchedules).InsertOne(ctx, schedule)
	return err
}

// GetSchedule retrieves a schedule by ID
func (m *MongoDB) GetSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	var schedule models.Schedule
	err := m.database.Collection(collSchedules).FindOne(ctx, bson.M{"_id": id}).Decode(&schedule)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("schedule not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ListSchedules lists all schedules, optionally filtered by enabled status
func (m *MongoDB) ListSchedules(ctx context.Context, enabled *bool) ([]*models.Schedule, error) {
	filter := bson.M{}
	if enabled != nil {
		filter["enabled"] = *enabled
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.database.Collection(collSchedules).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schedules []*models.Schedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// UpdateSchedule updates an existing schedule
func (m *MongoDB) UpdateSchedule(ctx context.Context, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now()

	result, err := m.database.Collection(collSchedules).ReplaceOne(ctx, bson.M{"_id": schedule.ID}, schedule)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("schedule not found: %s", schedule.ID)
	}
	return nil
}

// DeleteSchedule deletes a schedule
func (m *MongoDB) DeleteSchedule(ctx context.Context, id string) error {
	result, err := m.database.Collection(collSchedules).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("schedule not found: %s", id)
	}
	return nil
}

// Sync run history

// CreateSyncRun records a completed cache sync
func (m *MongoDB) CreateSyncRun(ctx context.Context, run *models.SyncRun) error {
	_, err := m.database.Collection(collSyncRuns).InsertOne(ctx, run)
	return err
}

// LastSyncRun returns the most recent sync run, or nil when none exist
func (m *MongoDB) LastSyncRun(ctx context.Context) (*models.SyncRun, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}})

	var run models.SyncRun
	err := m.database.Collection(collSyncRuns).FindOne(ctx, bson.M{}, opts).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Check run history

// CreateCheckRecords stores the outcome of a suite run
func (m *MongoDB) CreateCheckRecords(ctx context.Context, records []models.CheckRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(records))
	for i := range records {
		docs = append(docs, &records[i])
	}
	_, err := m.database.Collection(collCheckRecords).InsertMany(ctx, docs)
	return err
}

// ListCheckRecords lists the check outcomes for a run id
func (m *MongoDB) ListCheckRecords(ctx context.Context, runID string) ([]models.CheckRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: 1}})
	cursor, err := m.database.Collection(collCheckRecords).Find(ctx, bson.M{"run_id": runID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.CheckRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
