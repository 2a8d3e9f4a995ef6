package databases

// go generate: mockery --name MentorDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorhub/mentor-portal-api/models"
)

const mentorCollection = "mentors"

// MentorDatabase contains the methods to use with the mentors collection
type MentorDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Mentor, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Mentor, error)
	InsertOne(ctx context.Context, mentor models.Mentor) error
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) (*mongo.DeleteResult, error)
}

type mentorDatabase struct {
	db DatabaseHelper
}

// NewMentorDatabase initializes a new instance of mentor database with the provided db connection
func NewMentorDatabase(db DatabaseHelper) MentorDatabase {
	return &mentorDatabase{
		db: db,
	}
}

func (m *mentorDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Mentor, error) {
	mentor := &models.Mentor{}
	err := m.db.Collection(mentorCollection).FindOne(ctx, filter).Decode(mentor)
	if err != nil {
		return nil, err
	}
	return mentor, nil
}

func (m *mentorDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Mentor, error) {
	cursor, err := m.db.Collection(mentorCollection).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var mentors []models.Mentor
	if err := cursor.All(ctx, &mentors); err != nil {
		return nil, err
	}
	return mentors, nil
}

func (m *mentorDatabase) InsertOne(ctx context.Context, mentor models.Mentor) error {
	_, err := m.db.Collection(mentorCollection).InsertOne(ctx, mentor)
	return err
}

func (m *mentorDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return m.db.Collection(mentorCollection).UpdateOne(ctx, filter, update)
}

func (m *mentorDatabase) DeleteOne(ctx context.Context, filter interface{}) (*mongo.DeleteResult, error) {
	return m.db.Collection(mentorCollection).DeleteOne(ctx, filter)
}
