package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Leave application status values. An application starts pending and is moved
// exactly once to approved or rejected by a mentor; there is no way back.
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// LeaveApplication holds the structure for the leaveApplications collection in
// mongo. StartDate, EndDate and AppliedOn are calendar dates in YYYY-MM-DD form.
type LeaveApplication struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	MenteeID  primitive.ObjectID `json:"menteeId" bson:"menteeId"`
	StartDate string             `json:"startDate" bson:"startDate"`
	EndDate   string             `json:"endDate" bson:"endDate"`
	Reason    string             `json:"reason" bson:"reason"`
	Status    string             `json:"status" bson:"status"`
	AppliedOn string             `json:"appliedOn" bson:"appliedOn"`
}
