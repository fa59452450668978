package repository

import (
	"context"
	"fmt"
	"time"

	"eduhub/pkg/logger"
	"eduhub/pkg/metrics"
	"eduhub/visitlog-service/internal/app/visitlog/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serviceName = "visitlog-service"

type visitLogRepository struct {
	collection *mongo.Collection
}

// NewVisitLogRepository создает репозиторий журнала посещений.
// Автоматически создает индексы по created_at и user_id.
func NewVisitLogRepository(db *mongo.Database) VisitLogRepository {
	collection := db.Collection("visit_logs")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_idx"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_id_idx"),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Индексы могут уже существовать - не прерываем работу
		logger.Warn().Err(err).Msg("Failed to create visit_logs indexes")
	}

	return &visitLogRepository{
		collection: collection,
	}
}

// Insert добавляет запись в журнал посещений
func (r *visitLogRepository) Insert(ctx context.Context, log *entity.VisitLog) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "visit_logs")
	defer timer.ObserveDuration()

	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to insert visit log: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		log.ID = oid
	}

	return nil
}

// List возвращает страницу журнала, новые записи первыми.
// Фильтр по пользователю применяется, если filter.UserID задан.
func (r *visitLogRepository) List(ctx context.Context, filter VisitFilter) ([]entity.VisitLog, int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "visit_logs")
	defer timer.ObserveDuration()

	query := bson.M{}
	if filter.UserID != nil {
		query["user_id"] = filter.UserID.String()
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, 0, fmt.Errorf("failed to count visit logs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.PerPage)).
		SetLimit(int64(filter.PerPage))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, 0, fmt.Errorf("failed to find visit logs: %w", err)
	}
	defer cursor.Close(ctx)

	logs := []entity.VisitLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode visit logs: %w", err)
	}

	return logs, total, nil
}

// CountByPage считает посещения по страницам, самые посещаемые первыми
func (r *visitLogRepository) CountByPage(ctx context.Context) ([]entity.PageVisits, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "visit_logs")
	defer timer.ObserveDuration()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$path"},
			{Key: "visit_count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "visit_count", Value: -1},
			{Key: "_id", Value: 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to aggregate visits by page: %w", err)
	}
	defer cursor.Close(ctx)

	rows := []entity.PageVisits{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode pages report: %w", err)
	}

	return rows, nil
}

// CountByUser считает посещения по пользователям, самые активные первыми.
// Анонимные посещения собираются в одну строку с пустым _id.
func (r *visitLogRepository) CountByUser(ctx context.Context) ([]entity.UserVisits, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "visit_logs")
	defer timer.ObserveDuration()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$user_id", ""}}}},
			{Key: "user_name", Value: bson.D{{Key: "$last", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$user_name", ""}}}}}},
			{Key: "visit_count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "visit_count", Value: -1},
			{Key: "_id", Value: 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to aggregate visits by user: %w", err)
	}
	defer cursor.Close(ctx)

	rows := []entity.UserVisits{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode users report: %w", err)
	}

	return rows, nil
}
