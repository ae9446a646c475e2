// internal/data/users.go
package data

import (
	"errors"
	"strings"

	"github.com/bookclubhq/library-api/internal/validator"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor used when hashing passwords.
const bcryptCost = 10

// User is a librarian account used to sign in to the application. Only the
// bcrypt hash is stored; the json:"-" tag guarantees the hash never appears
// in a response body.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash []byte             `bson:"password" json:"-"`
}

// SetPassword hashes the plaintext password with bcrypt and stores the hash
// on the user.
func (u *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// PasswordMatches reports whether the plaintext password matches the stored
// hash. A mismatch is not an error; any other bcrypt failure is.
func (u *User) PasswordMatches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ValidatePasswordPlaintext checks the plaintext password before it is hashed.
func ValidatePasswordPlaintext(v *validator.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 5, "password", "must be at least 5 characters")
}

// ValidateUser runs the field-level validation rules for a user account.
// The plaintext password is validated separately with ValidatePasswordPlaintext
// because it is not carried on the struct.
func ValidateUser(v *validator.Validator, user *User) {
	v.Check(user.Name != "", "name", "must be provided")
	v.Check(len(user.Name) >= 3, "name", "must be at least 3 characters")
	v.Check(user.Email != "", "email", "must be provided")
	v.Check(validator.Matches(user.Email, validator.EmailRX), "email", "must be a valid email address")
}

// UserModel wraps the "users" collection.
type UserModel struct {
	collection *mongo.Collection
}

// Insert adds a new user account. Emails are stored lowercased so the unique
// index is effectively case-insensitive. Returns ErrDuplicateEmail if an
// account with the email already exists.
func (m UserModel) Insert(user *User) error {
	ctx, cancel := queryContext()
	defer cancel()

	user.Email = strings.ToLower(user.Email)

	result, err := m.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// Get retrieves a single user by ID, or ErrRecordNotFound.
func (m UserModel) Get(id primitive.ObjectID) (*User, error) {
	ctx, cancel := queryContext()
	defer cancel()

	var user User
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves the user with the given email, or ErrRecordNotFound.
// Lookup is by the lowercased form, matching what Insert stores.
func (m UserModel) GetByEmail(email string) (*User, error) {
	ctx, cancel := queryContext()
	defer cancel()

	var user User
	err := m.collection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetAll retrieves every user account. Password hashes stay out of responses
// via the json:"-" tag on the struct field.
func (m UserModel) GetAll() ([]*User, error) {
	ctx, cancel := queryContext()
	defer cancel()

	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	users := []*User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
