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

type ReviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection("reviews")}
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	now := time.Now().UTC()
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	review.CreatedAt, review.UpdatedAt = now, now
	_, err := r.collection.InsertOne(ctx, review)
	return translate(err)
}

func (r *ReviewRepository) FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"product": productID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// UpdateOwned only touches a review written by userID.
func (r *ReviewRepository) UpdateOwned(ctx context.Context, id, userID primitive.ObjectID, updates bson.M) (*models.Review, error) {
	updates["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var review models.Review
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "user": userID}, bson.M{"$set": updates}, opts).Decode(&review)
	if err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *ReviewRepository) DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id, "user": userID}).Decode(&review); err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "product", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	})
	return err
}
