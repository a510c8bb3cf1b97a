package specialists

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Specialist) error
	Get(ctx context.Context, id string) (Specialist, error)
	Update(ctx context.Context, id string, set bson.M) (Specialist, error)
	ListActive(ctx context.Context) ([]Specialist, error)
	ListAll(ctx context.Context) ([]Specialist, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Specialist) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Get(ctx context.Context, id string) (Specialist, error) {
	var item Specialist
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Specialist{}, err
	}
	return item, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Specialist, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Specialist
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Specialist{}, err
	}
	return updated, nil
}

func (r *MongoRepository) ListActive(ctx context.Context) ([]Specialist, error) {
	return r.list(ctx, bson.M{"isActive": true})
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]Specialist, error) {
	return r.list(ctx, bson.M{})
}

func (r *MongoRepository) list(ctx context.Context, query bson.M) ([]Specialist, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Specialist, 0)
	for cursor.Next(ctx) {
		var item Specialist
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
