package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/church-connect/admin-api/internal/core/domain"
)

const roleCollection = "user_roles"

// RoleRepository persists role records keyed by account identifier. The
// account id is the document key, so an account can never hold two roles.
type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(roleCollection)}
}

type roleDoc struct {
	AccountID string `bson:"_id"`
	Email     string `bson:"email"`
	Role      string `bson:"role"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *RoleRepository) Find(ctx context.Context, accountID string) (*domain.RoleRecord, error) {
	var doc roleDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": accountID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find role record: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RoleRepository) Save(ctx context.Context, record *domain.RoleRecord) error {
	doc := roleDoc{
		AccountID: record.AccountID,
		Email:     record.Email,
		Role:      string(record.Role),
		CreatedAt: record.CreatedAt.Unix(),
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": record.AccountID}, doc, opts); err != nil {
		return fmt.Errorf("save role record: %w", err)
	}
	return nil
}

// Delete removes the role record. Deleting an absent record is not an error;
// the delete-account flow relies on that for idempotence.
func (r *RoleRepository) Delete(ctx context.Context, accountID string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": accountID}); err != nil {
		return fmt.Errorf("delete role record: %w", err)
	}
	return nil
}

func (r *RoleRepository) List(ctx context.Context) ([]*domain.RoleRecord, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list role records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*domain.RoleRecord
	for cursor.Next(ctx) {
		var doc roleDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode role record: %w", err)
		}
		records = append(records, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate role records: %w", err)
	}
	return records, nil
}

func (d roleDoc) toDomain() *domain.RoleRecord {
	return &domain.RoleRecord{
		AccountID: d.AccountID,
		Email:     d.Email,
		Role:      domain.ParseRole(d.Role),
		CreatedAt: unixToTime(d.CreatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
