package databases_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorhub/mentor-portal-api/databases"
	"github.com/mentorhub/mentor-portal-api/databases/mocks"
	"github.com/mentorhub/mentor-portal-api/models"
)

func TestMessageFindByChatIDSortsByTimestampAscending(t *testing.T) {
	chatID := primitive.NewObjectID()

	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}
	cursor.On("All", mock.Anything, mock.Anything).Return(nil)

	var gotFilter bson.M
	var gotOpts *options.FindOptions
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil).Run(func(args mock.Arguments) {
		gotFilter = args.Get(1).(bson.M)
		gotOpts = args.Get(2).(*options.FindOptions)
	})
	db.On("Collection", "messages").Return(conn)

	m := databases.NewMessageDatabase(db)
	_, err := m.FindByChatID(context.Background(), chatID)
	require.NoError(t, err)

	assert.Equal(t, bson.M{"chatId": chatID}, gotFilter)
	// messages come back in client-clock order, oldest first, whatever those
	// clocks said
	require.NotNil(t, gotOpts)
	assert.Equal(t, bson.D{{Key: "timestamp", Value: 1}}, gotOpts.Sort)
}

func TestMessageInsertOneReturnsGeneratedID(t *testing.T) {
	msgID := primitive.NewObjectID()

	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	insertResult := &mocks.InsertOneResultHelper{}
	insertResult.On("Decode").Return(msgID)
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	db.On("Collection", "messages").Return(conn)

	m := databases.NewMessageDatabase(db)
	id, err := m.InsertOne(context.Background(), models.Message{ID: msgID, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, msgID, id)
}
