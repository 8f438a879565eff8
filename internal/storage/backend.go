package storage

import (
	"context"
)

// Collection is the operation set the bot needs from a document
// collection. Both backends implement it; higher-level helpers on
// Client are built from these primitives.
type Collection interface {
	// InsertOne stores a document, assigning a synthetic unique id if
	// the document has none, and returns the id.
	InsertOne(ctx context.Context, doc Doc) (string, error)

	// UpdateOne applies a field-level overwrite to the first document
	// matching the filter. Reports whether a document was updated.
	UpdateOne(ctx context.Context, filter Filter, set Doc) (bool, error)

	// FindOne returns the first matching document, or nil with no error
	// if nothing matches.
	FindOne(ctx context.Context, filter Filter) (Doc, error)

	// Find returns all matching documents, honoring sort and limit.
	Find(ctx context.Context, filter Filter, opts *FindOptions) ([]Doc, error)

	// CountDocuments counts matching documents.
	CountDocuments(ctx context.Context, filter Filter) (int64, error)

	// DeleteOne removes the first matching document. Reports whether a
	// document was removed.
	DeleteOne(ctx context.Context, filter Filter) (bool, error)
}

// Backend is one backing mode of the storage tier: a connected remote
// store or the in-process simulation. Exactly one backend is live at a
// time; the Client owns selection and failover.
type Backend interface {
	// Ping is the lightweight liveness probe used during connection
	// resolution.
	Ping(ctx context.Context) error

	// Collection returns a handle for the named collection, creating it
	// on first use.
	Collection(name string) Collection

	// DataSize estimates the stored dataset size in bytes. Only
	// meaningful for remote backends; the memory backend reports zero.
	DataSize(ctx context.Context) (int64, error)

	// Close releases the backend's resources.
	Close(ctx context.Context) error
}

// Dialer opens a Backend for a remote store URI. The production dialer
// connects to MongoDB; tests substitute stubs to drive the connection
// resolution and failover paths.
type Dialer func(ctx context.Context, uri, database string) (Backend, error)
