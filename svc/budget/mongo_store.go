package budget

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

const (
	BudgetsCollection  = "budgets"
	ExpensesCollection = "expenses"
)

// MongoStore keeps budgets in the "budgets" collection with a unique index on
// (account_id, category, month, year).
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		coll: db.Collection(BudgetsCollection),
		now:  time.Now,
	}
}

func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	return mongokit.EnsureIndexes(ctx, s.coll,
		mongokit.UniqueIndex("account_id", "category", "month", "year"),
		mongokit.Index("account_id", "month", "year"),
	)
}

type budgetDocument struct {
	ID               string     `bson:"_id"`
	AccountID        string     `bson:"account_id"`
	Category         string     `bson:"category"`
	Month            int        `bson:"month"`
	Year             int        `bson:"year"`
	Amount           float64    `bson:"amount"`
	ThresholdPercent float64    `bson:"threshold_percent"`
	LastAlertStatus  string     `bson:"last_alert_status"`
	LastAlertAt      *time.Time `bson:"last_alert_at"`
	CreatedAt        time.Time  `bson:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at"`
}

func toDocument(b *Budget) budgetDocument {
	return budgetDocument{
		ID:               b.ID.String(),
		AccountID:        b.AccountID.String(),
		Category:         b.Category,
		Month:            b.Month,
		Year:             b.Year,
		Amount:           b.Amount,
		ThresholdPercent: b.ThresholdPercent,
		LastAlertStatus:  string(b.LastAlertStatus),
		LastAlertAt:      b.LastAlertAt,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func (d budgetDocument) toBudget() (*Budget, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	accountID, err := uuid.Parse(d.AccountID)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &Budget{
		ID:               id,
		AccountID:        accountID,
		Category:         d.Category,
		Month:            d.Month,
		Year:             d.Year,
		Amount:           d.Amount,
		ThresholdPercent: d.ThresholdPercent,
		LastAlertStatus:  AlertStatus(d.LastAlertStatus),
		LastAlertAt:      d.LastAlertAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}, nil
}

func (s *MongoStore) Create(ctx context.Context, b *Budget) error {
	now := s.now()
	b.CreatedAt, b.UpdatedAt = now, now

	if _, err := s.coll.InsertOne(ctx, toDocument(b)); err != nil {
		if mongokit.IsDuplicateKey(err) {
			return ErrBudgetExists
		}
		return storeError(err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, accountID, id uuid.UUID) (*Budget, error) {
	var doc budgetDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String(), "account_id": accountID.String()}).Decode(&doc)
	if err != nil {
		if mongokit.IsNoDocuments(err) {
			return nil, ErrBudgetNotFound
		}
		return nil, storeError(err)
	}
	return doc.toBudget()
}

func (s *MongoStore) List(ctx context.Context, accountID uuid.UUID, month, year int) ([]*Budget, error) {
	cur, err := s.coll.Find(ctx,
		bson.M{"account_id": accountID.String(), "month": month, "year": year},
		options.Find().SetSort(bson.D{{Key: "category", Value: 1}}),
	)
	if err != nil {
		return nil, storeError(err)
	}

	var docs []budgetDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeError(err)
	}

	out := make([]*Budget, 0, len(docs))
	for _, d := range docs {
		b, err := d.toBudget()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *MongoStore) Update(ctx context.Context, b *Budget) error {
	now := s.now()
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": b.ID.String(), "account_id": b.AccountID.String()},
		bson.M{"$set": bson.M{
			"amount":            b.Amount,
			"threshold_percent": b.ThresholdPercent,
			"updated_at":        now,
		}},
	)
	if err != nil {
		return storeError(err)
	}
	if res.MatchedCount == 0 {
		return ErrBudgetNotFound
	}
	b.UpdatedAt = now
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String(), "account_id": accountID.String()})
	if err != nil {
		return storeError(err)
	}
	if res.DeletedCount == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

func (s *MongoStore) AdvanceAlertStatus(ctx context.Context, id uuid.UUID, from, to AlertStatus, at time.Time) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		advanceStatusFilter(id, from),
		bson.M{"$set": bson.M{
			"last_alert_status": string(to),
			"last_alert_at":     at,
			"updated_at":        at,
		}},
	)
	if err != nil {
		return false, storeError(err)
	}
	return res.ModifiedCount == 1, nil
}

// advanceStatusFilter matches the budget only while it still holds from. An empty from
// also matches documents written without the field.
func advanceStatusFilter(id uuid.UUID, from AlertStatus) bson.M {
	if from == "" {
		return bson.M{"_id": id.String(), "last_alert_status": bson.M{"$in": bson.A{"", nil}}}
	}
	return bson.M{"_id": id.String(), "last_alert_status": string(from)}
}

// MongoSpendSource aggregates the "expenses" collection. Expense documents carry
// account_id, category, amount and date.
type MongoSpendSource struct {
	coll *mongo.Collection
}

func NewMongoSpendSource(db *mongo.Database) *MongoSpendSource {
	return &MongoSpendSource{coll: db.Collection(ExpensesCollection)}
}

func (s *MongoSpendSource) EnsureIndexes(ctx context.Context) error {
	return mongokit.EnsureIndexes(ctx, s.coll, mongokit.Index("account_id", "date"))
}

func (s *MongoSpendSource) MonthlySpend(ctx context.Context, accountID uuid.UUID, category string, month, year int) (float64, error) {
	start, end := MonthRange(month, year)
	match := bson.M{
		"account_id": accountID.String(),
		"date":       bson.M{"$gte": start, "$lt": end},
	}
	if category != "" && category != CategoryAll {
		match["category"] = category
	}

	cur, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	})
	if err != nil {
		return 0, storeError(err)
	}

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, storeError(err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func storeError(err error) error {
	if mongokit.IsTimeout(err) {
		return errors.Join(ErrTimeout, err)
	}
	return errors.Join(ErrStoreUnavailable, err)
}

var (
	_ Store       = (*MongoStore)(nil)
	_ SpendSource = (*MongoSpendSource)(nil)
)
