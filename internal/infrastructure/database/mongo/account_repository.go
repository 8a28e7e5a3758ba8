package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dog-grooming-booking/internal/domain/account"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type accountRepository struct {
	collection *mongo.Collection
	kind       account.Kind
}

// NewAccountRepository stores customers and staff in separate collections.
func NewAccountRepository(db *DB, kind account.Kind) account.Repository {
	name := CustomersCollection
	if kind == account.KindStaff {
		name = StaffCollection
	}
	return &accountRepository{collection: db.Collection(name), kind: kind}
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	doc := newAccountDocument(a)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return account.ErrEmailTaken
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	a.ID = doc.ID.Hex()
	a.Kind = r.kind
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.findOne(ctx, bson.M{"email": email}, options.FindOne().SetCollation(emailCollation))
}

func (r *accountRepository) GetByVerificationToken(ctx context.Context, token string, now time.Time) (*account.Account, error) {
	if token == "" {
		return nil, account.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{
		"verification_token":            token,
		"verification_token_expires_at": bson.M{"$gt": now},
	})
}

func (r *accountRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*account.Account, error) {
	if token == "" {
		return nil, account.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{
		"reset_password_token":      token,
		"reset_password_expires_at": bson.M{"$gt": now},
	})
}

// Update replaces the stored document so cleared tokens are removed too.
func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	oid, ok := objectID(a.ID)
	if !ok {
		return account.ErrAccountNotFound
	}

	a.UpdatedAt = time.Now().UTC()
	doc := newAccountDocument(a)

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return account.ErrEmailTaken
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	if result.MatchedCount == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) GetSummaries(ctx context.Context, ids []string) (map[string]*account.Summary, error) {
	out := make(map[string]*account.Summary, len(ids))

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := objectID(id); ok {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return out, nil
	}

	projection := bson.M{"first_name": 1, "last_name": 1, "phone_number": 1, "email": 1}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("failed to load account summaries: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc accountDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode account summary: %w", err)
		}
		out[doc.ID.Hex()] = doc.toEntity(r.kind).Summary()
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account summaries: %w", err)
	}

	return out, nil
}

func (r *accountRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*account.Account, error) {
	var doc accountDocument
	if err := r.collection.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, account.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return doc.toEntity(r.kind), nil
}
