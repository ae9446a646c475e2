// internal/data/models.go
package data

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Models is a top-level container that groups all collection model types together.
// It is passed around the application via applicationDependencies so every handler
// has access to the database without importing the mongo driver directly.
type Models struct {
	Books    BookModel    // Handles all operations on the "books" collection
	Readers  ReaderModel  // Handles all operations on the "readers" collection
	Users    UserModel    // Handles all operations on the "users" collection
	Lendings LendingModel // Coordinates lendings with books and readers
}

// NewModels constructs a Models value wired up to the given database handle.
// Call this once during application startup and store the result in applicationDependencies.
func NewModels(db *mongo.Database) Models {
	books := db.Collection("books")
	readers := db.Collection("readers")
	users := db.Collection("users")
	lendings := db.Collection("lendings")

	return Models{
		Books:   BookModel{collection: books},
		Readers: ReaderModel{collection: readers},
		Users:   UserModel{collection: users},
		// The lending model is the only one that spans collections: a lend or
		// return touches both a lending document and its book, and joined views
		// resolve book and reader display fields.
		Lendings: LendingModel{lendings: lendings, books: books, readers: readers},
	}
}

// EnsureIndexes creates the unique indexes the uniqueness rules rely on:
// books.isbn, readers.email and users.email. Safe to call on every startup;
// creating an index that already exists is a no-op.
func (m Models) EnsureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	if _, err := m.Books.collection.Indexes().CreateOne(ctx, unique("isbn")); err != nil {
		return err
	}
	if _, err := m.Readers.collection.Indexes().CreateOne(ctx, unique("email")); err != nil {
		return err
	}
	if _, err := m.Users.collection.Indexes().CreateOne(ctx, unique("email")); err != nil {
		return err
	}
	return nil
}

// Sentinel errors returned by the model layer. Handlers switch on these to
// pick the right HTTP status and message.
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateISBN   = errors.New("duplicate isbn")
	ErrDuplicateEmail  = errors.New("duplicate email")
	ErrNoCopies        = errors.New("no available copies to lend")
	ErrAlreadyReturned = errors.New("book already returned")
)

// queryTimeout caps a single store round-trip. Every model method derives its
// context from this value so a slow database cannot hold a handler forever.
const queryTimeout = 3 * time.Second

func queryContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), queryTimeout)
}
