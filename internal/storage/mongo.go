package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoBackend is the remote store implementation backed by a MongoDB
// deployment. It is used for both the primary and the backup target;
// the Client decides which one is live.
type mongoBackend struct {
	client *mongo.Client
	db     *mongo.Database
}

// MongoDialer returns the production Dialer. The server selection
// timeout bounds the initial probe so a dead target fails fast.
func MongoDialer(probeTimeout time.Duration) Dialer {
	return func(ctx context.Context, uri, database string) (Backend, error) {
		opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(probeTimeout)
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", redactURI(uri), err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("liveness probe failed for %s: %w", redactURI(uri), err)
		}

		return &mongoBackend{client: client, db: client.Database(database)}, nil
	}
}

func (m *mongoBackend) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *mongoBackend) Collection(name string) Collection {
	return &mongoCollection{coll: m.db.Collection(name)}
}

// DataSize runs dbStats and returns the reported dataSize. This is the
// same crude estimator the hosted free tier exposes; the quota policy
// interprets it.
func (m *mongoBackend) DataSize(ctx context.Context) (int64, error) {
	var stats struct {
		DataSize int64 `bson:"dataSize"`
	}
	if err := m.db.RunCommand(ctx, bson.D{{Key: "dbStats", Value: 1}}).Decode(&stats); err != nil {
		return 0, fmt.Errorf("dbStats failed: %w", err)
	}
	return stats.DataSize, nil
}

func (m *mongoBackend) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc Doc) (string, error) {
	res, err := c.coll.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return "", err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter Filter, set Doc) (bool, error) {
	res, err := c.coll.UpdateOne(ctx, filterToBSON(filter), bson.M{"$set": bson.M(set)})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (c *mongoCollection) FindOne(ctx context.Context, filter Filter) (Doc, error) {
	var raw bson.M
	err := c.coll.FindOne(ctx, filterToBSON(filter)).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return normalizeDoc(raw), nil
}

func (c *mongoCollection) Find(ctx context.Context, filter Filter, opts *FindOptions) ([]Doc, error) {
	findOpts := options.Find()
	if opts != nil {
		if opts.SortField != "" {
			order := 1
			if opts.SortDesc {
				order = -1
			}
			findOpts.SetSort(bson.D{{Key: opts.SortField, Value: order}})
		}
		if opts.Limit > 0 {
			findOpts.SetLimit(opts.Limit)
		}
	}

	cur, err := c.coll.Find(ctx, filterToBSON(filter), findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Doc
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, normalizeDoc(raw))
	}
	return out, cur.Err()
}

func (c *mongoCollection) CountDocuments(ctx context.Context, filter Filter) (int64, error) {
	return c.coll.CountDocuments(ctx, filterToBSON(filter))
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter Filter) (bool, error) {
	res, err := c.coll.DeleteOne(ctx, filterToBSON(filter))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// filterToBSON lowers the operator union into the driver's query
// representation. Eq lowers to a bare value match.
func filterToBSON(f Filter) bson.M {
	out := bson.M{}
	for field, conds := range f {
		if len(conds) == 1 && conds[0].Op == Eq {
			out[field] = conds[0].Value
			continue
		}
		clause := bson.M{}
		for _, c := range conds {
			clause[c.Op.String()] = c.Value
		}
		out[field] = clause
	}
	return out
}

// normalizeDoc folds driver-specific value types into the closed set
// the rest of the tier works with.
func normalizeDoc(raw bson.M) Doc {
	out := make(Doc, len(raw))
	for k, v := range raw {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC()
	case bson.M:
		return map[string]any(normalizeDoc(val))
	case bson.A:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return val
	}
}

// redactURI trims credentials from a connection string for logging.
func redactURI(uri string) string {
	if len(uri) <= 20 {
		return uri
	}
	return uri[:20] + "..."
}
