package databases

// go generate: mockery --name LeaveApplicationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorhub/mentor-portal-api/models"
)

const leaveApplicationCollection = "leaveApplications"

// LeaveApplicationDatabase contains the methods to use with the leaveApplications collection
type LeaveApplicationDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.LeaveApplication, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.LeaveApplication, error)
	InsertOne(ctx context.Context, application models.LeaveApplication) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
}

type leaveApplicationDatabase struct {
	db DatabaseHelper
}

// NewLeaveApplicationDatabase initializes a new instance of leave application database with the provided db connection
func NewLeaveApplicationDatabase(db DatabaseHelper) LeaveApplicationDatabase {
	return &leaveApplicationDatabase{
		db: db,
	}
}

func (l *leaveApplicationDatabase) FindOne(ctx context.Context, filter interface{}) (*models.LeaveApplication, error) {
	application := &models.LeaveApplication{}
	err := l.db.Collection(leaveApplicationCollection).FindOne(ctx, filter).Decode(application)
	if err != nil {
		return nil, err
	}
	return application, nil
}

func (l *leaveApplicationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.LeaveApplication, error) {
	cursor, err := l.db.Collection(leaveApplicationCollection).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var applications []models.LeaveApplication
	if err := cursor.All(ctx, &applications); err != nil {
		return nil, err
	}
	return applications, nil
}

func (l *leaveApplicationDatabase) InsertOne(ctx context.Context, application models.LeaveApplication) (primitive.ObjectID, error) {
	res, err := l.db.Collection(leaveApplicationCollection).InsertOne(ctx, application)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.Decode().(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, nil
	}
	return id, nil
}

func (l *leaveApplicationDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return l.db.Collection(leaveApplicationCollection).UpdateOne(ctx, filter, update)
}
