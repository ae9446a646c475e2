// internal/data/lendings.go
// The lending model owns the lend/return workflow. It is the only model that
// coordinates two collections in one logical operation: creating or closing a
// lending also adjusts the referenced book's quantity and availability.
package data

import (
	"context"
	"errors"
	"time"

	"github.com/bookclubhq/library-api/internal/validator"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Lending records one book copy lent to one reader. BookID and ReaderID are
// weak references; display fields are resolved on demand into a LendingDetail.
// A lending is overdue when returned is false and dueDate is in the past —
// derived at query time, never stored.
type Lending struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookID     primitive.ObjectID `bson:"bookId" json:"bookId"`
	ReaderID   primitive.ObjectID `bson:"readerId" json:"readerId"`
	LendDate   time.Time          `bson:"lendDate" json:"lendDate"`
	DueDate    time.Time          `bson:"dueDate" json:"dueDate"`
	ReturnDate *time.Time         `bson:"returnDate,omitempty" json:"returnDate,omitempty"`
	Returned   bool               `bson:"returned" json:"returned"`
}

// LendingDetail is a lending joined with its book and reader display records.
// Either pointer may be nil when the referenced document has been deleted.
type LendingDetail struct {
	Lending
	Book   *Book   `json:"book,omitempty"`
	Reader *Reader `json:"reader,omitempty"`
}

// Activity is one row of the dashboard's recent-activity feed.
type Activity struct {
	BookTitle  string    `json:"bookTitle"`
	ReaderName string    `json:"readerName"`
	LendDate   time.Time `json:"lendDate"`
	DueDate    time.Time `json:"dueDate"`
}

// ValidateLending checks the client-supplied fields of a new lending.
func ValidateLending(v *validator.Validator, lending *Lending) {
	v.Check(!lending.BookID.IsZero(), "bookId", "must be provided")
	v.Check(!lending.ReaderID.IsZero(), "readerId", "must be provided")
	v.Check(!lending.DueDate.IsZero(), "dueDate", "must be provided")
}

// overdueFilter builds the query predicate that defines "overdue":
// not yet returned and due strictly before now.
func overdueFilter(now time.Time) bson.M {
	return bson.M{
		"returned": false,
		"dueDate":  bson.M{"$lt": now},
	}
}

// adjustQuantity is the pipeline update applied to a book document when a
// copy is lent out or returned. The second $set stage sees the adjusted
// quantity, so available is always recomputed as quantity > 0 rather than
// being written unconditionally.
func adjustQuantity(delta int) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"quantity": bson.M{"$add": bson.A{"$quantity", delta}},
		}}},
		bson.D{{Key: "$set", Value: bson.M{
			"available": bson.M{"$gt": bson.A{"$quantity", 0}},
		}}},
	}
}

// LendingModel wraps the "lendings" collection plus handles to the books and
// readers collections it joins against.
type LendingModel struct {
	lendings *mongo.Collection
	books    *mongo.Collection
	readers  *mongo.Collection
}

// Lend creates a lending for one copy of the given book. The availability
// check and the decrement are a single conditional update (filter on
// quantity > 0), so two concurrent lends of the last copy cannot both
// succeed. Returns ErrRecordNotFound if the book does not exist and
// ErrNoCopies if its quantity is already zero.
func (m LendingModel) Lend(bookID, readerID primitive.ObjectID, dueDate time.Time) (*Lending, error) {
	ctx, cancel := queryContext()
	defer cancel()

	filter := bson.M{"_id": bookID, "quantity": bson.M{"$gt": 0}}
	err := m.books.FindOneAndUpdate(ctx, filter, adjustQuantity(-1)).Err()
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		// No match: either the book is missing or it is out of copies.
		err = m.books.FindOne(ctx, bson.M{"_id": bookID}).Err()
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrRecordNotFound
		case err != nil:
			return nil, err
		default:
			return nil, ErrNoCopies
		}
	}

	lending := &Lending{
		BookID:   bookID,
		ReaderID: readerID,
		LendDate: time.Now().UTC(),
		DueDate:  dueDate,
		Returned: false,
	}

	result, err := m.lendings.InsertOne(ctx, lending)
	if err != nil {
		// The copy was already taken out of stock; put it back so the book
		// does not drift. Best effort only, there is no transaction here.
		_, _ = m.books.UpdateByID(ctx, bookID, adjustQuantity(1))
		return nil, err
	}

	lending.ID = result.InsertedID.(primitive.ObjectID)
	return lending, nil
}

// Return closes an open lending: sets returnDate and returned on the lending,
// then restocks the referenced book. Returns ErrRecordNotFound if the lending
// does not exist and ErrAlreadyReturned if it was already closed. The
// returned flag is part of the update filter, so a double return can never
// restock the same copy twice.
func (m LendingModel) Return(id primitive.ObjectID) (*Lending, error) {
	ctx, cancel := queryContext()
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"_id": id, "returned": false}
	update := bson.M{"$set": bson.M{"returned": true, "returnDate": now}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var lending Lending
	err := m.lendings.FindOneAndUpdate(ctx, filter, update, opts).Decode(&lending)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		err = m.lendings.FindOne(ctx, bson.M{"_id": id}).Err()
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrRecordNotFound
		case err != nil:
			return nil, err
		default:
			return nil, ErrAlreadyReturned
		}
	}

	if _, err := m.books.UpdateByID(ctx, lending.BookID, adjustQuantity(1)); err != nil {
		return nil, err
	}
	return &lending, nil
}

// GetAll retrieves every lending, most recent first, with book and reader
// display fields resolved.
func (m LendingModel) GetAll() ([]*LendingDetail, error) {
	ctx, cancel := queryContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "lendDate", Value: -1}})
	return m.findDetailed(ctx, bson.M{}, opts)
}

// GetOverdue retrieves all currently overdue lendings, joined with book and
// reader display fields. Pure read, no mutation.
func (m LendingModel) GetOverdue() ([]*LendingDetail, error) {
	ctx, cancel := queryContext()
	defer cancel()

	return m.findDetailed(ctx, overdueFilter(time.Now().UTC()), nil)
}

// GetOverdueByReader retrieves the overdue lendings for one reader.
func (m LendingModel) GetOverdueByReader(readerID primitive.ObjectID) ([]*LendingDetail, error) {
	ctx, cancel := queryContext()
	defer cancel()

	filter := overdueFilter(time.Now().UTC())
	filter["readerId"] = readerID
	return m.findDetailed(ctx, filter, nil)
}

// GetByReader retrieves a reader's full lending history.
func (m LendingModel) GetByReader(readerID primitive.ObjectID) ([]*LendingDetail, error) {
	ctx, cancel := queryContext()
	defer cancel()

	return m.findDetailed(ctx, bson.M{"readerId": readerID}, nil)
}

// GetByBook retrieves a book's full lending history.
func (m LendingModel) GetByBook(bookID primitive.ObjectID) ([]*LendingDetail, error) {
	ctx, cancel := queryContext()
	defer cancel()

	return m.findDetailed(ctx, bson.M{"bookId": bookID}, nil)
}

// OverdueReaderIDs returns the distinct set of reader IDs that currently have
// at least one overdue lending.
func (m LendingModel) OverdueReaderIDs() ([]primitive.ObjectID, error) {
	ctx, cancel := queryContext()
	defer cancel()

	values, err := m.lendings.Distinct(ctx, "readerId", overdueFilter(time.Now().UTC()))
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// RecentActivity returns the limit most recently created lendings shaped for
// the dashboard feed. Broken references render as "Unknown" rather than
// failing the whole view.
func (m LendingModel) RecentActivity(limit int64) ([]Activity, error) {
	ctx, cancel := queryContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "lendDate", Value: -1}}).SetLimit(limit)
	details, err := m.findDetailed(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	activity := make([]Activity, 0, len(details))
	for _, detail := range details {
		activity = append(activity, activityFrom(detail))
	}
	return activity, nil
}

// Count returns a fast cardinality estimate for the "lendings" collection.
func (m LendingModel) Count() (int64, error) {
	ctx, cancel := queryContext()
	defer cancel()

	return m.lendings.EstimatedDocumentCount(ctx)
}

// activityFrom shapes one joined lending into a dashboard activity row,
// substituting "Unknown" for missing joins.
func activityFrom(detail *LendingDetail) Activity {
	activity := Activity{
		BookTitle:  "Unknown",
		ReaderName: "Unknown",
		LendDate:   detail.LendDate,
		DueDate:    detail.DueDate,
	}
	if detail.Book != nil {
		activity.BookTitle = detail.Book.Title
	}
	if detail.Reader != nil {
		activity.ReaderName = detail.Reader.Name
	}
	return activity
}

// findDetailed runs a find on the lendings collection and resolves the book
// and reader references with two batched $in lookups. References that no
// longer resolve are left nil on the detail.
func (m LendingModel) findDetailed(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*LendingDetail, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = m.lendings.Find(ctx, filter, opts)
	} else {
		cursor, err = m.lendings.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	lendings := []*Lending{}
	if err := cursor.All(ctx, &lendings); err != nil {
		return nil, err
	}
	if len(lendings) == 0 {
		return []*LendingDetail{}, nil
	}

	bookIDs := make([]primitive.ObjectID, 0, len(lendings))
	readerIDs := make([]primitive.ObjectID, 0, len(lendings))
	for _, l := range lendings {
		bookIDs = append(bookIDs, l.BookID)
		readerIDs = append(readerIDs, l.ReaderID)
	}

	books, err := m.booksByID(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	readers, err := m.readersByID(ctx, readerIDs)
	if err != nil {
		return nil, err
	}

	details := make([]*LendingDetail, 0, len(lendings))
	for _, l := range lendings {
		details = append(details, &LendingDetail{
			Lending: *l,
			Book:    books[l.BookID],
			Reader:  readers[l.ReaderID],
		})
	}
	return details, nil
}

func (m LendingModel) booksByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*Book, error) {
	cursor, err := m.books.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	books := []*Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]*Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	return byID, nil
}

func (m LendingModel) readersByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*Reader, error) {
	cursor, err := m.readers.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	readers := []*Reader{}
	if err := cursor.All(ctx, &readers); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]*Reader, len(readers))
	for _, r := range readers {
		byID[r.ID] = r
	}
	return byID, nil
}
