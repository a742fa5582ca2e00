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

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection("products"),
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	product.CreatedAt, product.UpdatedAt = now, now
	if product.StockHistory == nil {
		product.StockHistory = []models.StockChange{}
	}
	if product.Reviews == nil {
		product.Reviews = []primitive.ObjectID{}
	}
	if product.Category == nil {
		product.Category = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, product)
	return translate(err)
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *ProductRepository) FindByBarcode(ctx context.Context, barcode int64) (*models.Product, error) {
	var product models.Product
	if err := r.collection.FindOne(ctx, bson.M{"barcodeNumber": barcode}).Decode(&product); err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	return r.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, 0, 0)
}

// Find returns products matching filter, newest first. A zero limit means no
// limit.
func (r *ProductRepository) Find(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Product, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if skip > 0 {
		findOptions.SetSkip(skip)
	}
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.collection.CountDocuments(ctx, filter)
}

// Update applies a $set and returns the updated document.
func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.Product, error) {
	updates["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": updates}, opts).Decode(&product)
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *ProductRepository) AdjustStock(ctx context.Context, id primitive.ObjectID, delta int, reason string) (*models.Product, error) {
	now := time.Now().UTC()
	set := bson.M{"updatedAt": now}
	if reason == models.StockReasonRestock {
		set["restockedAt"] = now
	}
	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": set,
		"$push": bson.M{"stockHistory": models.StockChange{
			QuantityChanged: delta,
			ChangeReason:    reason,
			Date:            now,
		}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var before models.Product
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&before); err != nil {
		return nil, translate(err)
	}
	return &before, nil
}

func (r *ProductRepository) AddReview(ctx context.Context, productID, reviewID primitive.ObjectID) error {
	res, err := r.collection.UpdateByID(ctx, productID, bson.M{"$addToSet": bson.M{"reviews": reviewID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) RemoveReview(ctx context.Context, productID, reviewID primitive.ObjectID) error {
	_, err := r.collection.UpdateByID(ctx, productID, bson.M{"$pull": bson.M{"reviews": reviewID}})
	return err
}

func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"category": categoryID}, options.Count().SetLimit(1))
}

func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "barcodeNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "productName", Value: 1}}},
		{Keys: bson.D{{Key: "bestseller", Value: 1}}},
		{Keys: bson.D{{Key: "gender", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}
