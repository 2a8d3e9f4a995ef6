package databases

// go generate: mockery --name ChatDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorhub/mentor-portal-api/models"
)

const chatCollection = "chats"

// ChatDatabase contains the methods to use with the chats collection
type ChatDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Chat, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Chat, error)
}

type chatDatabase struct {
	db DatabaseHelper
}

// NewChatDatabase initializes a new instance of chat database with the provided db connection
func NewChatDatabase(db DatabaseHelper) ChatDatabase {
	return &chatDatabase{
		db: db,
	}
}

func (c *chatDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Chat, error) {
	chat := &models.Chat{}
	err := c.db.Collection(chatCollection).FindOne(ctx, filter).Decode(chat)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

func (c *chatDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Chat, error) {
	cursor, err := c.db.Collection(chatCollection).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var chats []models.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}
