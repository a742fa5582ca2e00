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

type CartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{collection: db.Collection("carts")}
}

func (r *CartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart); err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now().UTC()

	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
		cart.CreatedAt, cart.UpdatedAt = now, now
		cart.Version = 1
		_, err := r.collection.InsertOne(ctx, cart)
		if err != nil {
			cart.ID = primitive.NilObjectID
			cart.Version = 0
			// A concurrent first add already created this user's cart.
			if mongo.IsDuplicateKeyError(err) {
				return ErrVersionConflict
			}
			return err
		}
		return nil
	}

	expected := cart.Version
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": cart.ID, "version": expected},
		bson.M{"$set": bson.M{
			"items":      cart.Items,
			"totalPrice": cart.TotalPrice,
			"version":    expected + 1,
			"updatedAt":  now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	cart.Version = expected + 1
	cart.UpdatedAt = now
	return nil
}

// Delete removes cart only if nobody saved it since it was read.
func (r *CartRepository) Delete(ctx context.Context, cart *models.Cart) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": cart.ID, "version": cart.Version})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *CartRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"userId": userID}).Decode(&cart); err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (r *CartRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
