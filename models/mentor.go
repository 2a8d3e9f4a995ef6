package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Mentor holds the structure for the mentors collection in mongo. Mentees is a
// denormalized back-reference list; the authoritative forward reference is
// Mentee.MentorID.
type Mentor struct {
	ID           primitive.ObjectID   `json:"_id" bson:"_id"`
	Name         string               `json:"name" bson:"name"`
	Email        string               `json:"email" bson:"email"`
	Department   string               `json:"department" bson:"department"`
	Phone        string               `json:"phone" bson:"phone"`
	ProfileImage string               `json:"profileImage" bson:"profileImage"`
	Mentees      []primitive.ObjectID `json:"mentees" bson:"mentees"`
}
