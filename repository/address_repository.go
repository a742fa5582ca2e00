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

type AddressRepository struct {
	collection *mongo.Collection
}

func NewAddressRepository(db *mongo.Database) *AddressRepository {
	return &AddressRepository{collection: db.Collection("addresses")}
}

func (r *AddressRepository) Create(ctx context.Context, address *models.Address) error {
	now := time.Now().UTC()
	if address.ID.IsZero() {
		address.ID = primitive.NewObjectID()
	}
	address.CreatedAt, address.UpdatedAt = now, now
	_, err := r.collection.InsertOne(ctx, address)
	return translate(err)
}

func (r *AddressRepository) FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*models.Address, error) {
	var address models.Address
	if err := r.collection.FindOne(ctx, bson.M{"_id": id, "user": userID}).Decode(&address); err != nil {
		return nil, translate(err)
	}
	return &address, nil
}

func (r *AddressRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, deleted bool) ([]models.Address, error) {
	filter := bson.M{"user": userID, "isDeleted": deleted}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	addresses := []models.Address{}
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *AddressRepository) UpdateOwned(ctx context.Context, id, userID primitive.ObjectID, updates bson.M) (*models.Address, error) {
	updates["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var address models.Address
	filter := bson.M{"_id": id, "user": userID, "isDeleted": false}
	if err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": updates}, opts).Decode(&address); err != nil {
		return nil, translate(err)
	}
	return &address, nil
}

func (r *AddressRepository) SetDeleted(ctx context.Context, id, userID primitive.ObjectID, deleted bool) (*models.Address, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"_id": id, "user": userID, "isDeleted": !deleted}
	update := bson.M{"$set": bson.M{"isDeleted": deleted, "updatedAt": time.Now().UTC()}}

	var address models.Address
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&address); err != nil {
		return nil, translate(err)
	}
	return &address, nil
}

func (r *AddressRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "isDeleted", Value: 1}},
	})
	return err
}
