package repository

import (
	"context"
	"time"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection("users")}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt, user.UpdatedAt = now, now
	if user.ReferredUsers == nil {
		user.ReferredUsers = []primitive.ObjectID{}
	}
	if user.Addresses == nil {
		user.Addresses = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return translate(err)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByReferralCode(ctx context.Context, code string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"referralCode": code})
}

func (r *UserRepository) ExistsByIdentity(ctx context.Context, userName, email string, phone int64) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"$or": []bson.M{
		{"userName": userName},
		{"email": email},
		{"phone": phone},
	}}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"referralCode": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) FindReferred(ctx context.Context, ids []primitive.ObjectID) ([]models.ReferredUser, error) {
	out := []models.ReferredUser{}
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().
		SetProjection(bson.M{"userName": 1, "email": 1, "createdAt": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepository) FindSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	out := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"userName": 1, "email": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.UserSummary
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *UserRepository) updateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRefreshToken stores token as the user's only valid refresh token. An
// empty token removes it.
func (r *UserRepository) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	now := time.Now().UTC()
	if token == "" {
		return r.updateByID(ctx, id, bson.M{
			"$unset": bson.M{"refreshToken": 1},
			"$set":   bson.M{"updatedAt": now},
		})
	}
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"refreshToken": token, "updatedAt": now}})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"password": hash, "updatedAt": time.Now().UTC()}})
}

func (r *UserRepository) AddReferredUser(ctx context.Context, referrerID, referredID primitive.ObjectID) error {
	return r.updateByID(ctx, referrerID, bson.M{"$addToSet": bson.M{"referredUsers": referredID}})
}

func (r *UserRepository) AddAddress(ctx context.Context, userID, addressID primitive.ObjectID) error {
	return r.updateByID(ctx, userID, bson.M{"$addToSet": bson.M{"Address": addressID}})
}

func (r *UserRepository) RemoveAddress(ctx context.Context, userID, addressID primitive.ObjectID) error {
	return r.updateByID(ctx, userID, bson.M{"$pull": bson.M{"Address": addressID}})
}

func (r *UserRepository) SetRoleByEmail(ctx context.Context, email, role string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userName", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "referralCode", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "phone", Value: 1}}},
	})
	return err
}
