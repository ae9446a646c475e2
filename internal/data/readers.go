// internal/data/readers.go
package data

import (
	"errors"

	"github.com/bookclubhq/library-api/internal/validator"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Reader represents a club member who borrows books. Readers are referenced
// by lending records but never own them; deleting a reader leaves its
// lendings in place.
type Reader struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Phone    string             `bson:"phone" json:"phone"`
	Address  string             `bson:"address" json:"address"`
	DOB      string             `bson:"dob" json:"dob"`
	JoinDate string             `bson:"joinDate" json:"joinDate"`
}

// ValidateReader runs all field-level validation rules for a reader and
// records any failures on v.
func ValidateReader(v *validator.Validator, reader *Reader) {
	v.Check(reader.Name != "", "name", "must be provided")
	v.Check(len(reader.Name) >= 3, "name", "must be at least 3 characters")
	v.Check(reader.Email != "", "email", "must be provided")
	v.Check(validator.Matches(reader.Email, validator.EmailRX), "email", "must be a valid email address")
	v.Check(reader.Phone != "", "phone", "must be provided")
	v.Check(len(reader.Phone) >= 10, "phone", "must be at least 10 characters")
	v.Check(reader.Address != "", "address", "must be provided")
	v.Check(len(reader.Address) >= 5, "address", "must be at least 5 characters")
	v.Check(reader.DOB != "", "dob", "must be provided")
	v.Check(reader.JoinDate != "", "joinDate", "must be provided")
}

// ReaderModel wraps the "readers" collection.
type ReaderModel struct {
	collection *mongo.Collection
}

// Insert adds a new reader record. The database-assigned ID is written back
// into the reader struct. Returns ErrDuplicateEmail if the email is taken.
func (m ReaderModel) Insert(reader *Reader) error {
	ctx, cancel := queryContext()
	defer cancel()

	result, err := m.collection.InsertOne(ctx, reader)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	reader.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// Get retrieves a single reader by ID, or ErrRecordNotFound.
func (m ReaderModel) Get(id primitive.ObjectID) (*Reader, error) {
	ctx, cancel := queryContext()
	defer cancel()

	var reader Reader
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reader)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &reader, nil
}

// GetAll retrieves every reader in the collection.
func (m ReaderModel) GetAll() ([]*Reader, error) {
	ctx, cancel := queryContext()
	defer cancel()

	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	readers := []*Reader{}
	if err := cursor.All(ctx, &readers); err != nil {
		return nil, err
	}
	return readers, nil
}

// GetByIDs retrieves the readers whose IDs appear in ids. IDs with no
// matching document are simply absent from the result.
func (m ReaderModel) GetByIDs(ids []primitive.ObjectID) ([]*Reader, error) {
	if len(ids) == 0 {
		return []*Reader{}, nil
	}

	ctx, cancel := queryContext()
	defer cancel()

	cursor, err := m.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	readers := []*Reader{}
	if err := cursor.All(ctx, &readers); err != nil {
		return nil, err
	}
	return readers, nil
}

// Update replaces the stored document for reader.ID with the given struct.
// Returns ErrRecordNotFound if the reader no longer exists, or
// ErrDuplicateEmail if the new email collides with another reader.
func (m ReaderModel) Update(reader *Reader) error {
	ctx, cancel := queryContext()
	defer cancel()

	result, err := m.collection.ReplaceOne(ctx, bson.M{"_id": reader.ID}, reader)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if result.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete removes the reader with the given id, or returns ErrRecordNotFound.
func (m ReaderModel) Delete(id primitive.ObjectID) error {
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

// Count returns a fast cardinality estimate for the "readers" collection.
func (m ReaderModel) Count() (int64, error) {
	ctx, cancel := queryContext()
	defer cancel()

	return m.collection.EstimatedDocumentCount(ctx)
}
