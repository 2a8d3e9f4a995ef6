package directory

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mentorhub/mentor-portal-api/databases"
	"github.com/mentorhub/mentor-portal-api/models"
)

// ErrEmailInUse means an account with the requested email already exists
var ErrEmailInUse = errors.New("email already in use")

// ErrLeaveNotPending means a status transition was attempted on a leave
// application that has already been decided. Transitions are one-way and only
// allowed out of the pending state.
var ErrLeaveNotPending = errors.New("leave application is not pending")

// ErrInvalidLeaveStatus means the requested status is not approved or rejected
var ErrInvalidLeaveStatus = errors.New("invalid leave application status")

const defaultProfileImage = "https://via.placeholder.com/40"

// Guard mediates every mutation that touches more than one collection. Mongo
// gives us no multi-document transaction on these paths, so cross-references
// are maintained with ordered single-document writes: the forward reference is
// written first, then the denormalized back-reference is read-modify-written.
// Two concurrent provisions against the same mentor can still lose one of the
// two back-reference appends; the writes themselves are set-union/set-difference
// so a retry never double-inserts.
type Guard struct {
	AccDB databases.AccountDatabase
	MDB   databases.MentorDatabase
	SDB   databases.MenteeDatabase
	LDB   databases.LeaveApplicationDatabase
}

// NewMentor carries the validated input for mentor provisioning
type NewMentor struct {
	Name       string
	Email      string
	Password   string
	Department string
	Phone      string
}

// NewMentee carries the validated input for mentee provisioning
type NewMentee struct {
	Name          string
	Email         string
	Password      string
	RollNumber    string
	Phone         string
	ParentContact string
	MentorID      primitive.ObjectID
}

// ProvisionMentor creates the account record and the mentor role document
// sharing the account's id. Mentors start with an empty mentees list.
func (g *Guard) ProvisionMentor(ctx context.Context, in NewMentor) (*models.Mentor, error) {
	accountID, err := g.createAccount(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	mentor := models.Mentor{
		ID:           accountID,
		Name:         in.Name,
		Email:        in.Email,
		Department:   in.Department,
		Phone:        in.Phone,
		ProfileImage: defaultProfileImage,
		Mentees:      []primitive.ObjectID{},
	}
	if err := g.MDB.InsertOne(ctx, mentor); err != nil {
		return nil, err
	}
	return &mentor, nil
}

// ProvisionMentee creates the account and mentee documents, then appends the
// new mentee's id to the target mentor's mentees list. The append is a
// read-modify-write with set-union semantics: retrying cannot double-insert,
// but two concurrent provisions against the same mentor can still race and
// drop one id. A missing mentor is logged and skipped, leaving the mentee's
// mentorId dangling exactly as a later mentor deletion would. A zero MentorID
// means self-signup: the mentee starts unassigned and no link is attempted.
func (g *Guard) ProvisionMentee(ctx context.Context, in NewMentee) (*models.Mentee, error) {
	accountID, err := g.createAccount(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	mentee := models.Mentee{
		ID:            accountID,
		Name:          in.Name,
		Email:         in.Email,
		RollNumber:    in.RollNumber,
		Phone:         in.Phone,
		ParentContact: in.ParentContact,
		Attendance:    100,
		MentorID:      in.MentorID,
		ProfileImage:  defaultProfileImage,
	}
	if err := g.SDB.InsertOne(ctx, mentee); err != nil {
		return nil, err
	}

	// self-signup carries no mentor; there is nothing to link yet
	if in.MentorID.IsZero() {
		return &mentee, nil
	}

	mentor, err := g.MDB.FindOne(ctx, bson.M{"_id": in.MentorID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			zap.S().Warnw("mentor not found, mentee left unattached",
				"mentorId", in.MentorID.Hex(),
				"menteeId", mentee.ID.Hex(),
			)
			return &mentee, nil
		}
		return nil, err
	}

	if !containsID(mentor.Mentees, mentee.ID) {
		updated := append(mentor.Mentees, mentee.ID)
		if _, err := g.MDB.UpdateOne(ctx, bson.M{"_id": in.MentorID}, bson.M{"$set": bson.M{"mentees": updated}}); err != nil {
			return nil, err
		}
	}
	return &mentee, nil
}

// DeleteMentee removes the mentee's id from its mentor's mentees list, then
// deletes the mentee document and its account. A mentor that no longer exists
// is not an error; there is simply nothing left to clean up.
func (g *Guard) DeleteMentee(ctx context.Context, menteeID primitive.ObjectID) error {
	mentee, err := g.SDB.FindOne(ctx, bson.M{"_id": menteeID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		return err
	}

	if !mentee.MentorID.IsZero() {
		mentor, err := g.MDB.FindOne(ctx, bson.M{"_id": mentee.MentorID})
		if err == nil {
			filtered := removeID(mentor.Mentees, menteeID)
			if _, err := g.MDB.UpdateOne(ctx, bson.M{"_id": mentee.MentorID}, bson.M{"$set": bson.M{"mentees": filtered}}); err != nil {
				return err
			}
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
	}

	if _, err := g.SDB.DeleteOne(ctx, bson.M{"_id": menteeID}); err != nil {
		return err
	}
	return g.AccDB.DeleteOne(ctx, bson.M{"_id": menteeID})
}

// DeleteMentor removes only the mentor document and its account. Mentees that
// referenced it keep a dangling mentorId; read paths render that as
// "Unassigned" and the nightly audit reports it.
func (g *Guard) DeleteMentor(ctx context.Context, mentorID primitive.ObjectID) error {
	if _, err := g.MDB.DeleteOne(ctx, bson.M{"_id": mentorID}); err != nil {
		return err
	}
	return g.AccDB.DeleteOne(ctx, bson.M{"_id": mentorID})
}

// SetLeaveStatus moves a pending leave application to approved or rejected.
// Applications that have already been decided are rejected with
// ErrLeaveNotPending so a second click surfaces instead of silently passing.
func (g *Guard) SetLeaveStatus(ctx context.Context, applicationID primitive.ObjectID, status string) (*models.LeaveApplication, error) {
	if status != models.LeaveApproved && status != models.LeaveRejected {
		return nil, ErrInvalidLeaveStatus
	}

	application, err := g.LDB.FindOne(ctx, bson.M{"_id": applicationID})
	if err != nil {
		return nil, err
	}
	if application.Status != models.LeavePending {
		return nil, ErrLeaveNotPending
	}

	if _, err := g.LDB.UpdateOne(ctx, bson.M{"_id": applicationID}, bson.M{"$set": bson.M{"status": status}}); err != nil {
		return nil, err
	}
	application.Status = status
	return application, nil
}

// createAccount hashes the password and inserts the identity record. The id is
// generated here so the caller can reuse it for the role document.
func (g *Guard) createAccount(ctx context.Context, email, password string) (primitive.ObjectID, error) {
	count, err := g.AccDB.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return primitive.NilObjectID, err
	}
	if count > 0 {
		return primitive.NilObjectID, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return primitive.NilObjectID, err
	}

	account := models.Account{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    primitive.NewDateTimeFromTime(time.Now()),
	}
	if _, err := g.AccDB.InsertOne(ctx, account); err != nil {
		return primitive.NilObjectID, err
	}
	return account.ID, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	filtered := make([]primitive.ObjectID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
