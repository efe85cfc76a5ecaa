package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/exp/slog"

	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/remote"
)

// Коды ошибок сервера MongoDB, которые влияют на классификацию.
const (
	mongoCodeUnauthorized         = 13
	mongoCodeAuthenticationFailed = 18
	mongoCodeDocumentValidation   = 121
)

// MongoStore адаптер удаленного хранилища, работающий напрямую с MongoDB.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	log    *slog.Logger
}

func NewMongoStore(ctx context.Context, uri, database string, log *slog.Logger) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(database),
		log:    log.With("component", "mongo_store"),
	}, nil
}

// HealthCheck проверяет доступность сервера MongoDB.
func (m *MongoStore) HealthCheck(ctx context.Context) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return classifyMongo("ping", err)
	}
	return nil
}

func (m *MongoStore) Create(ctx context.Context, coll remote.Collection, fields remote.Fields) (string, error) {
	if err := coll.Validate(); err != nil {
		return "", err
	}

	result, err := m.db.Collection(coll.String()).InsertOne(ctx, bson.M(fields))
	if err != nil {
		return "", classifyMongo("insert", err)
	}

	switch id := result.InsertedID.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	case string:
		return id, nil
	}
	return fmt.Sprint(result.InsertedID), nil
}

func (m *MongoStore) Patch(ctx context.Context, coll remote.Collection, id entity.RemoteID, fields remote.Fields) error {
	if err := coll.Validate(); err != nil {
		return err
	}

	result, err := m.db.Collection(coll.String()).UpdateOne(ctx, idFilter(id), bson.M{"$set": bson.M(fields)})
	if err != nil {
		return classifyMongo("update", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s/%s", remote.ErrNotFound, coll, id)
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, coll remote.Collection, id entity.RemoteID) error {
	if err := coll.Validate(); err != nil {
		return err
	}

	result, err := m.db.Collection(coll.String()).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return classifyMongo("delete", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s/%s", remote.ErrNotFound, coll, id)
	}
	return nil
}

func (m *MongoStore) QueryByField(ctx context.Context, coll remote.Collection, field string, value any) ([]remote.Document, error) {
	if err := coll.Validate(); err != nil {
		return nil, err
	}

	cursor, err := m.db.Collection(coll.String()).Find(ctx, bson.M{field: value})
	if err != nil {
		return nil, classifyMongo("find", err)
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, classifyMongo("decode", err)
	}

	docs := make([]remote.Document, 0, len(raw))
	for _, r := range raw {
		docs = append(docs, documentFromBSON(r))
	}
	return docs, nil
}

// Close отключает клиента MongoDB.
func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func idFilter(id entity.RemoteID) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id.String()); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id.String()}
}

func documentFromBSON(r bson.M) remote.Document {
	doc := remote.Document{Fields: make(remote.Fields, len(r))}
	for k, v := range r {
		if k == "_id" {
			switch id := v.(type) {
			case primitive.ObjectID:
				doc.ID = id.Hex()
			default:
				doc.ID = fmt.Sprint(id)
			}
			continue
		}
		doc.Fields[k] = normalizeBSON(v)
	}
	return doc
}

// normalizeBSON приводит типы драйвера к обычным типам Go.
func normalizeBSON(v any) any {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.ObjectID:
		return val.Hex()
	case bson.M:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = normalizeBSON(inner)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = normalizeBSON(inner)
		}
		return out
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case time.Time:
		return val.UTC()
	}
	return v
}

// classifyMongo переводит ошибку драйвера в вид ошибки удаленного хранилища.
func classifyMongo(op string, err error) error {
	var se mongo.ServerError
	switch {
	case mongo.IsNetworkError(err), mongo.IsTimeout(err),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%w: %s: %v", remote.ErrUnavailable, op, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %s: %v", remote.ErrRejected, op, err)
	case errors.As(err, &se):
		switch {
		case se.HasErrorCode(mongoCodeUnauthorized), se.HasErrorCode(mongoCodeAuthenticationFailed):
			return fmt.Errorf("%w: %s: %v", remote.ErrPermissionDenied, op, err)
		case se.HasErrorCode(mongoCodeDocumentValidation):
			return fmt.Errorf("%w: %s: %v", remote.ErrRejected, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", remote.ErrUnavailable, op, err)
}
