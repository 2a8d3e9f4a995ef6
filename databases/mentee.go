package databases

// go generate: mockery --name MenteeDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorhub/mentor-portal-api/models"
)

const menteeCollection = "mentees"

// MenteeDatabase contains the methods to use with the mentees collection
type MenteeDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Mentee, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Mentee, error)
	InsertOne(ctx context.Context, mentee models.Mentee) error
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) (*mongo.DeleteResult, error)
}

type menteeDatabase struct {
	db DatabaseHelper
}

// NewMenteeDatabase initializes a new instance of mentee database with the provided db connection
func NewMenteeDatabase(db DatabaseHelper) MenteeDatabase {
	return &menteeDatabase{
		db: db,
	}
}

func (m *menteeDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Mentee, error) {
	mentee := &models.Mentee{}
	err := m.db.Collection(menteeCollection).FindOne(ctx, filter).Decode(mentee)
	if err != nil {
		return nil, err
	}
	return mentee, nil
}

func (m *menteeDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Mentee, error) {
	cursor, err := m.db.Collection(menteeCollection).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var mentees []models.Mentee
	if err := cursor.All(ctx, &mentees); err != nil {
		return nil, err
	}
	return mentees, nil
}

func (m *menteeDatabase) InsertOne(ctx context.Context, mentee models.Mentee) error {
	_, err := m.db.Collection(menteeCollection).InsertOne(ctx, mentee)
	return err
}

func (m *menteeDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return m.db.Collection(menteeCollection).UpdateOne(ctx, filter, update)
}

func (m *menteeDatabase) DeleteOne(ctx context.Context, filter interface{}) (*mongo.DeleteResult, error) {
	return m.db.Collection(menteeCollection).DeleteOne(ctx, filter)
}
