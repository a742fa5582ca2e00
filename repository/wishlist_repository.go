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

type WishListRepository struct {
	collection *mongo.Collection
}

func NewWishListRepository(db *mongo.Database) *WishListRepository {
	return &WishListRepository{collection: db.Collection("wishlists")}
}

// AddProduct upserts on (userId, name) guarded by "product not present". When
// the product is already in the list the filter misses, the upsert collides
// with the unique index and ErrDuplicate comes back.
func (r *WishListRepository) AddProduct(ctx context.Context, userID primitive.ObjectID, name string, productID primitive.ObjectID) (*models.WishList, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"userId":           userID,
		"name":             name,
		"products.product": bson.M{"$ne": productID},
	}
	update := bson.M{
		"$push":        bson.M{"products": models.WishListItem{Product: productID, AddedAt: now}},
		"$set":         bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var list models.WishList
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&list); err != nil {
		return nil, translate(err)
	}
	return &list, nil
}

func (r *WishListRepository) Find(ctx context.Context, userID primitive.ObjectID, name string) (*models.WishList, error) {
	var list models.WishList
	if err := r.collection.FindOne(ctx, bson.M{"userId": userID, "name": name}).Decode(&list); err != nil {
		return nil, translate(err)
	}
	return &list, nil
}

func (r *WishListRepository) FindAll(ctx context.Context, userID primitive.ObjectID) ([]models.WishList, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	lists := []models.WishList{}
	if err := cursor.All(ctx, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *WishListRepository) RemoveProduct(ctx context.Context, userID primitive.ObjectID, name string, productID primitive.ObjectID) (*models.WishList, error) {
	update := bson.M{
		"$pull": bson.M{"products": bson.M{"product": productID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var list models.WishList
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": userID, "name": name}, update, opts).Decode(&list); err != nil {
		return nil, translate(err)
	}
	return &list, nil
}

func (r *WishListRepository) Delete(ctx context.Context, userID primitive.ObjectID, name string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID, "name": name})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *WishListRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
