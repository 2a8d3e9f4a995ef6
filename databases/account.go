package databases

// go generate: mockery --name AccountDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mentorhub/mentor-portal-api/models"
)

const accountCollection = "accounts"

// AccountDatabase contains the methods to use with the accounts collection
type AccountDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Account, error)
	InsertOne(ctx context.Context, account models.Account) (primitive.ObjectID, error)
	DeleteOne(ctx context.Context, filter interface{}) error
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type accountDatabase struct {
	db DatabaseHelper
}

// NewAccountDatabase initializes a new instance of account database with the provided db connection
func NewAccountDatabase(db DatabaseHelper) AccountDatabase {
	return &accountDatabase{
		db: db,
	}
}

func (a *accountDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Account, error) {
	account := &models.Account{}
	err := a.db.Collection(accountCollection).FindOne(ctx, filter).Decode(account)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (a *accountDatabase) InsertOne(ctx context.Context, account models.Account) (primitive.ObjectID, error) {
	res, err := a.db.Collection(accountCollection).InsertOne(ctx, account)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.Decode().(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, nil
	}
	return id, nil
}

func (a *accountDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	_, err := a.db.Collection(accountCollection).DeleteOne(ctx, filter)
	return err
}

func (a *accountDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return a.db.Collection(accountCollection).CountDocuments(ctx, filter)
}
