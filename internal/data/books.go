// Package data provides the data models and MongoDB interaction logic
// for the book-club library service.
package data

import (
	"errors"

	"github.com/bookclubhq/library-api/internal/validator"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Book represents a single book record stored in the "books" collection.
// Available is a derived value: it is recomputed as quantity > 0 on every
// write that touches quantity, never set independently.
type Book struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Author        string             `bson:"author" json:"author"`
	ISBN          string             `bson:"isbn" json:"isbn"`
	PublishedDate string             `bson:"publishedDate" json:"publishedDate"`
	Genre         string             `bson:"genre" json:"genre"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	Available     bool               `bson:"available" json:"available"`
}

// ValidateBook runs all field-level validation rules for a book and records
// any failures on v.
func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) >= 2, "title", "must be at least 2 characters")
	v.Check(book.Author != "", "author", "must be provided")
	v.Check(len(book.Author) >= 3, "author", "must be at least 3 characters")
	v.Check(book.ISBN != "", "isbn", "must be provided")
	v.Check(validator.Matches(book.ISBN, validator.ISBNRX), "isbn", "must be a valid ISBN number")
	v.Check(book.PublishedDate != "", "publishedDate", "must be provided")
	v.Check(book.Genre != "", "genre", "must be provided")
	v.Check(len(book.Genre) >= 3, "genre", "must be at least 3 characters")
	v.Check(book.Quantity >= 0, "quantity", "must not be negative")
}

// BookModel wraps the "books" collection and provides methods for creating,
// reading, updating, and deleting book records.
type BookModel struct {
	collection *mongo.Collection
}

// Insert adds a new book record to the collection. The database-assigned ID is
// written back into the book struct. Returns ErrDuplicateISBN if a book with
// the same ISBN already exists.
func (m BookModel) Insert(book *Book) error {
	ctx, cancel := queryContext()
	defer cancel()

	book.Available = book.Quantity > 0

	result, err := m.collection.InsertOne(ctx, book)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateISBN
		}
		return err
	}

	book.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// Get retrieves a single book by its ID.
// Returns ErrRecordNotFound if no book with the given id exists.
func (m BookModel) Get(id primitive.ObjectID) (*Book, error) {
	ctx, cancel := queryContext()
	defer cancel()

	var book Book
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &book, nil
}

// GetAll retrieves every book in the collection.
func (m BookModel) GetAll() ([]*Book, error) {
	ctx, cancel := queryContext()
	defer cancel()

	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	books := []*Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Update replaces the stored document for book.ID with the given struct,
// recomputing the derived available flag first.
// Returns ErrRecordNotFound if the book no longer exists.
func (m BookModel) Update(book *Book) error {
	ctx, cancel := queryContext()
	defer cancel()

	book.Available = book.Quantity > 0

	result, err := m.collection.ReplaceOne(ctx, bson.M{"_id": book.ID}, book)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateISBN
		}
		return err
	}
	if result.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete removes the book with the given id from the collection.
// Returns ErrRecordNotFound if no matching record exists.
func (m BookModel) Delete(id primitive.ObjectID) error {
	ctx, cancel := queryContext()
	defer cancel()

	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Count returns a fast cardinality estimate for the "books" collection,
// used by the dashboard. The estimate comes from collection metadata and
// avoids a full scan.
func (m BookModel) Count() (int64, error) {
	ctx, cancel := queryContext()
	defer cancel()

	return m.collection.EstimatedDocumentCount(ctx)
}
