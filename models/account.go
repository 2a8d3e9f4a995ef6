package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account holds the structure for the accounts collection in mongo. It is the
// identity record a person authenticates against; the matching role document in
// admins, mentors or mentees shares the same _id.
type Account struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"passwordHash"`
	CreatedAt    primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
