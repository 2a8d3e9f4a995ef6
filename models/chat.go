package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Chat type values.
const (
	ChatPrivate = "private"
	ChatGroup   = "group"
)

// Chat holds the structure for the chats collection in mongo. A private chat
// has exactly two participants. Messages live in their own collection keyed by
// chat id; they are embedded here only on read for the chat listing response.
type Chat struct {
	ID           primitive.ObjectID   `json:"_id" bson:"_id"`
	Type         string               `json:"type" bson:"type"`
	Name         string               `json:"name" bson:"name"`
	Participants []primitive.ObjectID `json:"participants" bson:"participants"`
	Messages     []Message            `json:"messages,omitempty" bson:"-"`
}

// Message holds the structure for the messages collection in mongo. Timestamp
// is assigned by the sending client's clock, so ordering across senders is only
// as good as their clocks.
type Message struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ChatID    primitive.ObjectID `json:"chatId" bson:"chatId"`
	Text      string             `json:"text" bson:"text"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Timestamp primitive.DateTime `json:"timestamp" bson:"timestamp"`
}
