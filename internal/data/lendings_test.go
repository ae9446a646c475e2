package data

import (
	"testing"
	"time"

	"github.com/bookclubhq/library-api/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateLending(t *testing.T) {
	base := func() *Lending {
		return &Lending{
			BookID:   primitive.NewObjectID(),
			ReaderID: primitive.NewObjectID(),
			DueDate:  time.Now().Add(14 * 24 * time.Hour),
		}
	}

	t.Run("valid lending", func(t *testing.T) {
		v := validator.New()
		ValidateLending(v, base())
		assert.True(t, v.Valid())
	})

	t.Run("missing book id", func(t *testing.T) {
		lending := base()
		lending.BookID = primitive.NilObjectID

		v := validator.New()
		ValidateLending(v, lending)
		assert.Contains(t, v.Errors, "bookId")
	})

	t.Run("missing reader id", func(t *testing.T) {
		lending := base()
		lending.ReaderID = primitive.NilObjectID

		v := validator.New()
		ValidateLending(v, lending)
		assert.Contains(t, v.Errors, "readerId")
	})

	t.Run("missing due date", func(t *testing.T) {
		lending := base()
		lending.DueDate = time.Time{}

		v := validator.New()
		ValidateLending(v, lending)
		assert.Contains(t, v.Errors, "dueDate")
	})
}

func TestOverdueFilter(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	filter := overdueFilter(now)

	// The predicate is exactly {returned: false, dueDate < now}: a future due
	// date and a returned lending must both fall outside it.
	require.Equal(t, false, filter["returned"])
	require.Equal(t, bson.M{"$lt": now}, filter["dueDate"])
	assert.Len(t, filter, 2)
}

func TestAdjustQuantityRecomputesAvailability(t *testing.T) {
	pipeline := adjustQuantity(-1)
	require.Len(t, pipeline, 2)

	// First stage adjusts the counter.
	first := pipeline[0][0]
	require.Equal(t, "$set", first.Key)
	setDoc, ok := first.Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, bson.M{"$add": bson.A{"$quantity", -1}}, setDoc["quantity"])

	// Second stage derives available from the adjusted quantity instead of
	// writing a constant.
	second := pipeline[1][0]
	require.Equal(t, "$set", second.Key)
	setDoc, ok = second.Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, bson.M{"$gt": bson.A{"$quantity", 0}}, setDoc["available"])
}

func TestActivityFrom(t *testing.T) {
	lendDate := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	dueDate := lendDate.Add(14 * 24 * time.Hour)

	lending := Lending{
		ID:       primitive.NewObjectID(),
		BookID:   primitive.NewObjectID(),
		ReaderID: primitive.NewObjectID(),
		LendDate: lendDate,
		DueDate:  dueDate,
	}

	t.Run("resolved joins", func(t *testing.T) {
		detail := &LendingDetail{
			Lending: lending,
			Book:    &Book{Title: "Dune"},
			Reader:  &Reader{Name: "Jamie Reyes"},
		}

		activity := activityFrom(detail)
		assert.Equal(t, "Dune", activity.BookTitle)
		assert.Equal(t, "Jamie Reyes", activity.ReaderName)
		assert.Equal(t, lendDate, activity.LendDate)
		assert.Equal(t, dueDate, activity.DueDate)
	})

	t.Run("broken joins fall back to Unknown", func(t *testing.T) {
		detail := &LendingDetail{Lending: lending}

		activity := activityFrom(detail)
		assert.Equal(t, "Unknown", activity.BookTitle)
		assert.Equal(t, "Unknown", activity.ReaderName)
	})
}
