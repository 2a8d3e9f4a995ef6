package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mentorhub/mentor-portal-api/api/handlers"
	"github.com/mentorhub/mentor-portal-api/databases"
	"github.com/mentorhub/mentor-portal-api/databases/mocks"
	"github.com/mentorhub/mentor-portal-api/directory"
	"github.com/mentorhub/mentor-portal-api/models"
)

func TestMentee_MenteeByIDHandlerBadID(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/mentees/nope", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mentee_id": "nope"})

	m := handlers.Mentee{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MenteeByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get objectID from hex")
}

func TestMentee_MenteeByIDHandlerNotFound(t *testing.T) {
	menteeID := primitive.NewObjectID()
	req, err := http.NewRequest("GET", "/api/v1/mentees/"+menteeID.Hex(), nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mentee_id": menteeID.Hex()})

	db := &MockDatabaseHelper{}
	conn := mockCollection(db, "mentees")
	mockFindOne(conn, mongo.ErrNoDocuments, nil)

	m := handlers.Mentee{DB: databases.NewMenteeDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MenteeByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "mentee not found")
}

func TestMentee_MenteeByEmailHandlerMissingParam(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/mentee/by-email", nil)
	if err != nil {
		t.Fatal(err)
	}

	m := handlers.Mentee{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MenteeByEmailHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "email query param required")
}

func TestMentee_MenteeByEmailHandlerFound(t *testing.T) {
	menteeID := primitive.NewObjectID()
	req, err := http.NewRequest("GET", "/api/v1/mentee/by-email?email=asha@college.edu", nil)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := mockCollection(db, "mentees")
	mockFindOne(conn, nil, func(args mock.Arguments) {
		arg := args.Get(0).(*models.Mentee)
		arg.ID = menteeID
		arg.Name = "Asha"
		arg.Email = "asha@college.edu"
		arg.RollNumber = "CSE-042"
	})

	m := handlers.Mentee{DB: databases.NewMenteeDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MenteeByEmailHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got models.Mentee
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, "CSE-042", got.RollNumber)
}

func TestMentee_MenteesByMentorIDHandlerFiltersByMentorField(t *testing.T) {
	mentorID := primitive.NewObjectID()
	req, err := http.NewRequest("GET", "/api/v1/mentors/"+mentorID.Hex()+"/mentees", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mentor_id": mentorID.Hex()})

	db := &MockDatabaseHelper{}
	conn := mockCollection(db, "mentees")
	cursor := &mocks.CursorHelper{}
	cursor.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Mentee)
		*arg = []models.Mentee{{ID: primitive.NewObjectID(), Name: "Asha", MentorID: mentorID}}
	})

	var gotFilter bson.M
	conn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil).Run(func(args mock.Arguments) {
		gotFilter = args.Get(1).(bson.M)
	})

	m := handlers.Mentee{DB: databases.NewMenteeDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MenteesByMentorIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	// the listing goes by the mentee-side assignment, not the mentor's list
	assert.Equal(t, bson.M{"mentorId": mentorID}, gotFilter)

	var got []models.Mentee
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestMentee_CreateMenteeHandlerBadMentorID(t *testing.T) {
	body := bytes.NewBufferString(`{
		"name": "Asha",
		"email": "asha@college.edu",
		"password": "pw123456",
		"rollNumber": "CSE-042",
		"mentorId": "not-a-hex-id"
	}`)
	req, err := http.NewRequest("POST", "/api/v1/mentees", body)
	if err != nil {
		t.Fatal(err)
	}

	m := handlers.Mentee{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMenteeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get objectID from hex")
}

func TestMentee_CreateMenteeHandlerSuccess(t *testing.T) {
	mentorID := primitive.NewObjectID()
	body := bytes.NewBufferString(`{
		"name": "Asha",
		"email": "asha@college.edu",
		"password": "pw123456",
		"rollNumber": "CSE-042",
		"phone": "9876501234",
		"mentorId": "` + mentorID.Hex() + `"
	}`)
	req, err := http.NewRequest("POST", "/api/v1/mentees", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	accounts := mockCollection(db, "accounts")
	accounts.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	insertResult := &mocks.InsertOneResultHelper{}
	insertResult.On("Decode").Return(primitive.NewObjectID())
	accounts.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)

	mentees := mockCollection(db, "mentees")
	mentees.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)

	mentors := mockCollection(db, "mentors")
	mockFindOne(mentors, nil, func(args mock.Arguments) {
		arg := args.Get(0).(*models.Mentor)
		arg.ID = mentorID
		arg.Mentees = []primitive.ObjectID{}
	})
	mentors.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	guard := &directory.Guard{
		AccDB: databases.NewAccountDatabase(db),
		MDB:   databases.NewMentorDatabase(db),
		SDB:   databases.NewMenteeDatabase(db),
	}
	m := handlers.Mentee{DB: databases.NewMenteeDatabase(db), Guard: guard}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMenteeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var got models.Mentee
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, mentorID, got.MentorID)
	assert.Equal(t, 100, got.Attendance)
}

func TestMentee_CreateMenteeHandlerRejectsBadPhone(t *testing.T) {
	body := bytes.NewBufferString(`{
		"name": "Asha",
		"email": "asha@college.edu",
		"password": "pw123456",
		"rollNumber": "CSE-042",
		"phone": "12345",
		"mentorId": "` + primitive.NewObjectID().Hex() + `"
	}`)
	req, err := http.NewRequest("POST", "/api/v1/mentees", body)
	if err != nil {
		t.Fatal(err)
	}

	m := handlers.Mentee{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMenteeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "validation failed")
}

func TestMentee_SignupHandlerCreatesUnassignedMentee(t *testing.T) {
	body := bytes.NewBufferString(`{
		"name": "Asha",
		"email": "asha@college.edu",
		"password": "pw123456",
		"rollNumber": "CSE-042",
		"phone": "9876501234"
	}`)
	req, err := http.NewRequest("POST", "/api/v1/signup", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	accounts := mockCollection(db, "accounts")
	accounts.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	insertResult := &mocks.InsertOneResultHelper{}
	insertResult.On("Decode").Return(primitive.NewObjectID())
	accounts.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)

	mentees := mockCollection(db, "mentees")
	mentees.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)

	// no mentors collection is registered: a signup must not touch it
	guard := &directory.Guard{
		AccDB: databases.NewAccountDatabase(db),
		MDB:   databases.NewMentorDatabase(db),
		SDB:   databases.NewMenteeDatabase(db),
	}
	m := handlers.Mentee{DB: databases.NewMenteeDatabase(db), Guard: guard}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.SignupHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var got models.Mentee
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Asha", got.Name)
	assert.True(t, got.MentorID.IsZero())
	assert.Equal(t, 100, got.Attendance)
	db.AssertNotCalled(t, "Collection", "mentors")
}

func TestMentee_SignupHandlerDuplicateEmail(t *testing.T) {
	body := bytes.NewBufferString(`{
		"name": "Asha",
		"email": "asha@college.edu",
		"password": "pw123456",
		"rollNumber": "CSE-042"
	}`)
	req, err := http.NewRequest("POST", "/api/v1/signup", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	accounts := mockCollection(db, "accounts")
	accounts.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)

	guard := &directory.Guard{
		AccDB: databases.NewAccountDatabase(db),
		MDB:   databases.NewMentorDatabase(db),
		SDB:   databases.NewMenteeDatabase(db),
	}
	m := handlers.Mentee{Guard: guard}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.SignupHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "email already in use")
}

func TestMentee_UpdateAttendanceHandler(t *testing.T) {
	menteeID := primitive.NewObjectID()
	req, err := http.NewRequest("PUT", "/api/v1/mentees/"+menteeID.Hex()+"/attendance", bytes.NewBufferString(`{"attendance": 73}`))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mentee_id": menteeID.Hex()})

	db := &MockDatabaseHelper{}
	mentees := mockCollection(db, "mentees")
	var gotUpdate bson.M
	mentees.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil).
		Run(func(args mock.Arguments) {
			gotUpdate = args.Get(2).(bson.M)
		})

	m := handlers.Mentee{DB: databases.NewMenteeDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.UpdateAttendanceHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), menteeID.Hex())
	assert.Equal(t, bson.M{"$set": bson.M{"attendance": 73}}, gotUpdate)
}

func TestMentee_UpdateAttendanceHandlerOutOfRange(t *testing.T) {
	menteeID := primitive.NewObjectID()
	req, err := http.NewRequest("PUT", "/api/v1/mentees/"+menteeID.Hex()+"/attendance", bytes.NewBufferString(`{"attendance": 101}`))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mentee_id": menteeID.Hex()})

	m := handlers.Mentee{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.UpdateAttendanceHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "validation failed")
}

func TestMentee_UpdateAttendanceHandlerNotFound(t *testing.T) {
	menteeID := primitive.NewObjectID()
	req, err := http.NewRequest("PUT", "/api/v1/mentees/"+menteeID.Hex()+"/attendance", bytes.NewBufferString(`{"attendance": 50}`))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mentee_id": menteeID.Hex()})

	db := &MockDatabaseHelper{}
	mentees := mockCollection(db, "mentees")
	mentees.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	m := handlers.Mentee{DB: databases.NewMenteeDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.UpdateAttendanceHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "mentee not found")
}

func TestMentee_DeleteMenteeHandler(t *testing.T) {
	menteeID := primitive.NewObjectID()
	mentorID := primitive.NewObjectID()
	req, err := http.NewRequest("DELETE", "/api/v1/mentee/"+menteeID.Hex(), nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mentee_id": menteeID.Hex()})

	db := &MockDatabaseHelper{}
	mentees := mockCollection(db, "mentees")
	mockFindOne(mentees, nil, func(args mock.Arguments) {
		arg := args.Get(0).(*models.Mentee)
		arg.ID = menteeID
		arg.MentorID = mentorID
	})
	mentees.On("DeleteOne", mock.Anything, mock.Anything).Return(&mongo.DeleteResult{DeletedCount: 1}, nil)

	mentors := mockCollection(db, "mentors")
	mockFindOne(mentors, nil, func(args mock.Arguments) {
		arg := args.Get(0).(*models.Mentor)
		arg.ID = mentorID
		arg.Mentees = []primitive.ObjectID{menteeID}
	})
	mentors.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	accounts := mockCollection(db, "accounts")
	accounts.On("DeleteOne", mock.Anything, mock.Anything).Return(&mongo.DeleteResult{DeletedCount: 1}, nil)

	guard := &directory.Guard{
		AccDB: databases.NewAccountDatabase(db),
		MDB:   databases.NewMentorDatabase(db),
		SDB:   databases.NewMenteeDatabase(db),
	}
	m := handlers.Mentee{Guard: guard}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.DeleteMenteeHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), menteeID.Hex())
}
