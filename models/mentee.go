package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Mentee holds the structure for the mentees collection in mongo. A zero-value
// MentorID means the mentee is unassigned; read paths render it as "Unassigned"
// rather than treating it as an error.
type Mentee struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id"`
	Name          string             `json:"name" bson:"name"`
	Email         string             `json:"email" bson:"email"`
	RollNumber    string             `json:"rollNumber" bson:"rollNumber"`
	Phone         string             `json:"phone" bson:"phone"`
	ParentContact string             `json:"parentContact" bson:"parentContact"`
	Attendance    int                `json:"attendance" bson:"attendance"`
	MentorID      primitive.ObjectID `json:"mentorId" bson:"mentorId,omitempty"`
	ProfileImage  string             `json:"profileImage" bson:"profileImage"`
}
