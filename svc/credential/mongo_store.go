package credential

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongokit "github.com/dmitrymomot/expensekit/pkg/mongo"
)

const AccountsCollection = "accounts"

// MongoStore keeps accounts in the "accounts" collection. Account ids are stored as
// strings; email carries a unique index that backs the duplicate check.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		coll: db.Collection(AccountsCollection),
		now:  time.Now,
	}
}

// EnsureIndexes creates the unique email index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	return mongokit.EnsureIndexes(ctx, s.coll, mongokit.UniqueIndex("email"))
}

type accountDocument struct {
	ID                string        `bson:"_id"`
	Email             string        `bson:"email"`
	DisplayName       string        `bson:"display_name"`
	AvatarURL         string        `bson:"avatar_url,omitempty"`
	CredentialHash    []byte        `bson:"credential_hash"`
	Verified          bool          `bson:"verified"`
	AuthMethod        string        `bson:"auth_method"`
	EmailVerification *PendingToken `bson:"email_verification,omitempty"`
	PasswordReset     *PendingToken `bson:"password_reset,omitempty"`
	CreatedAt         time.Time     `bson:"created_at"`
	UpdatedAt         time.Time     `bson:"updated_at"`
}

func toDocument(a *Account) accountDocument {
	return accountDocument{
		ID:                a.ID.String(),
		Email:             a.Email,
		DisplayName:       a.DisplayName,
		AvatarURL:         a.AvatarURL,
		CredentialHash:    a.CredentialHash,
		Verified:          a.Verified,
		AuthMethod:        string(a.AuthMethod),
		EmailVerification: a.EmailVerification,
		PasswordReset:     a.PasswordReset,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func (d accountDocument) toAccount() (*Account, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &Account{
		ID:                id,
		Email:             d.Email,
		DisplayName:       d.DisplayName,
		AvatarURL:         d.AvatarURL,
		CredentialHash:    d.CredentialHash,
		Verified:          d.Verified,
		AuthMethod:        AuthMethod(d.AuthMethod),
		EmailVerification: d.EmailVerification,
		PasswordReset:     d.PasswordReset,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}, nil
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoStore) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.findOne(ctx, bson.M{"_id": id.String()})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*Account, error) {
	var doc accountDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if mongokit.IsNoDocuments(err) {
			return nil, ErrNotFound
		}
		return nil, storeError(err)
	}
	return doc.toAccount()
}

func (s *MongoStore) CreateAccount(ctx context.Context, acc *Account) error {
	now := s.now()
	acc.CreatedAt, acc.UpdatedAt = now, now

	if _, err := s.coll.InsertOne(ctx, toDocument(acc)); err != nil {
		if mongokit.IsDuplicateKey(err) {
			return ErrDuplicateAccount
		}
		return storeError(err)
	}
	return nil
}

func (s *MongoStore) SetPendingToken(ctx context.Context, id uuid.UUID, purpose TokenPurpose, token PendingToken) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{
			string(purpose): token,
			"updated_at":    s.now(),
		}},
	)
	if err != nil {
		return storeError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ClearPendingToken(ctx context.Context, id uuid.UUID, purpose TokenPurpose, digest string) error {
	filter, update := clearTokenQuery(id, purpose, digest, s.now())
	_, err := s.coll.UpdateOne(ctx, filter, update)
	return storeError(err)
}

func (s *MongoStore) ConsumePendingToken(ctx context.Context, email string, purpose TokenPurpose, digest string, now time.Time, change Change) (*Account, error) {
	filter, update := consumeTokenQuery(email, purpose, digest, now, change)

	var doc accountDocument
	err := s.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if mongokit.IsNoDocuments(err) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, storeError(err)
	}
	return doc.toAccount()
}

func (s *MongoStore) MergeFederated(ctx context.Context, id uuid.UUID, displayName, avatarURL string) (*Account, error) {
	var doc accountDocument
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		mergeFederatedUpdate(displayName, avatarURL, s.now()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if mongokit.IsNoDocuments(err) {
			return nil, ErrNotFound
		}
		return nil, storeError(err)
	}
	return doc.toAccount()
}

func (s *MongoStore) UpdateProfile(ctx context.Context, id uuid.UUID, change ProfileChange) (*Account, error) {
	filter, update := profileUpdateQuery(id, change, s.now())

	var doc accountDocument
	err := s.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toAccount()
	}
	if !mongokit.IsNoDocuments(err) {
		return nil, storeError(err)
	}
	if len(change.CredentialHash) == 0 {
		return nil, ErrNotFound
	}
	// The hash guard failed or the account is gone; tell the two apart.
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrConflict
}

func clearTokenQuery(id uuid.UUID, purpose TokenPurpose, digest string, now time.Time) (filter, update bson.M) {
	field := string(purpose)
	filter = bson.M{"_id": id.String(), field + ".digest": digest}
	update = bson.M{
		"$unset": bson.M{field: ""},
		"$set":   bson.M{"updated_at": now},
	}
	return filter, update
}

// consumeTokenQuery matches the account only while its token for purpose has digest and
// has not expired, and clears the token in the same update.
func consumeTokenQuery(email string, purpose TokenPurpose, digest string, now time.Time, change Change) (filter, update bson.M) {
	field := string(purpose)

	set := bson.M{"updated_at": now}
	if change.Verified {
		set["verified"] = true
	}
	if len(change.CredentialHash) > 0 {
		set["credential_hash"] = change.CredentialHash
	}

	filter = bson.M{
		"email":               email,
		field + ".digest":     digest,
		field + ".expires_at": bson.M{"$gt": now},
	}
	update = bson.M{
		"$set":   set,
		"$unset": bson.M{field: ""},
	}
	return filter, update
}

// mergeFederatedUpdate is a pipeline update so that the empty checks run against the
// stored document rather than a copy read earlier.
func mergeFederatedUpdate(displayName, avatarURL string, now time.Time) mongo.Pipeline {
	set := bson.D{
		{Key: "verified", Value: true},
		{Key: "updated_at", Value: now},
	}
	if displayName != "" {
		set = append(set, bson.E{Key: "display_name", Value: fillIfEmpty("display_name", displayName)})
	}
	if avatarURL != "" {
		set = append(set, bson.E{Key: "avatar_url", Value: fillIfEmpty("avatar_url", avatarURL)})
	}
	return mongo.Pipeline{{{Key: "$set", Value: set}}}
}

// fillIfEmpty yields value when field is missing or "", and the stored field otherwise.
func fillIfEmpty(field, value string) bson.M {
	ref := "$" + field
	return bson.M{"$cond": bson.A{
		bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{ref, ""}}, ""}},
		bson.M{"$literal": value},
		ref,
	}}
}

func profileUpdateQuery(id uuid.UUID, change ProfileChange, now time.Time) (filter, update bson.M) {
	filter = bson.M{"_id": id.String()}
	set := bson.M{"updated_at": now}
	if change.DisplayName != "" {
		set["display_name"] = change.DisplayName
	}
	if change.AvatarURL != "" {
		set["avatar_url"] = change.AvatarURL
	}
	if len(change.CredentialHash) > 0 {
		filter["credential_hash"] = change.ExpectedHash
		set["credential_hash"] = change.CredentialHash
	}
	return filter, bson.M{"$set": set}
}

func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case mongokit.IsTimeout(err):
		return errors.Join(ErrTimeout, err)
	default:
		return errors.Join(ErrStoreUnavailable, err)
	}
}

var _ AccountStore = (*MongoStore)(nil)
