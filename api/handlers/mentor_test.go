package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mentorhub/mentor-portal-api/api/handlers"
	"github.com/mentorhub/mentor-portal-api/databases"
	"github.com/mentorhub/mentor-portal-api/databases/mocks"
	"github.com/mentorhub/mentor-portal-api/directory"
	"github.com/mentorhub/mentor-portal-api/models"
)

func TestMentor_MentorByIDHandlerBadID(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/mentors/asdf", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mentor_id": "asdf"})

	m := handlers.Mentor{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MentorByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get objectID from hex")
}

func TestMentor_MentorByIDHandlerNotFound(t *testing.T) {
	mentorID := primitive.NewObjectID()
	req, err := http.NewRequest("GET", "/api/v1/mentors/"+mentorID.Hex(), nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mentor_id": mentorID.Hex()})

	db := &MockDatabaseHelper{}
	conn := mockCollection(db, "mentors")
	mockFindOne(conn, mongo.ErrNoDocuments, nil)

	m := handlers.Mentor{DB: databases.NewMentorDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MentorByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "mentor not found")
}

func TestMentor_MentorByIDHandlerFound(t *testing.T) {
	mentorID := primitive.NewObjectID()
	req, err := http.NewRequest("GET", "/api/v1/mentors/"+mentorID.Hex(), nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mentor_id": mentorID.Hex()})

	db := &MockDatabaseHelper{}
	conn := mockCollection(db, "mentors")
	mockFindOne(conn, nil, func(args mock.Arguments) {
		arg := args.Get(0).(*models.Mentor)
		arg.ID = mentorID
		arg.Name = "Prof. Iyer"
		arg.Department = "CSE"
	})

	m := handlers.Mentor{DB: databases.NewMentorDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MentorByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got models.Mentor
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Prof. Iyer", got.Name)
	assert.Equal(t, "CSE", got.Department)
}

func TestMentor_MentorsHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/mentors", nil)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := mockCollection(db, "mentors")
	cursor := &mocks.CursorHelper{}
	cursor.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Mentor)
		*arg = []models.Mentor{
			{ID: primitive.NewObjectID(), Name: "Prof. Iyer"},
			{ID: primitive.NewObjectID(), Name: "Dr. Menon"},
		}
	})
	conn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)

	m := handlers.Mentor{DB: databases.NewMentorDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MentorsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got []models.Mentor
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestMentor_CreateMentorHandlerValidation(t *testing.T) {
	body := bytes.NewBufferString(`{"name": "Prof. Iyer"}`)
	req, err := http.NewRequest("POST", "/api/v1/mentors", body)
	if err != nil {
		t.Fatal(err)
	}

	m := handlers.Mentor{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMentorHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "validation failed")
}

func TestMentor_CreateMentorHandlerDuplicateEmail(t *testing.T) {
	body := bytes.NewBufferString(`{
		"name": "Prof. Iyer",
		"email": "iyer@college.edu",
		"password": "pw123456",
		"department": "CSE"
	}`)
	req, err := http.NewRequest("POST", "/api/v1/mentors", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	accounts := mockCollection(db, "accounts")
	accounts.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)

	guard := &directory.Guard{AccDB: databases.NewAccountDatabase(db)}
	m := handlers.Mentor{Guard: guard}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMentorHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "email already in use")
}

func TestMentor_CreateMentorHandlerSuccess(t *testing.T) {
	body := bytes.NewBufferString(`{
		"name": "Prof. Iyer",
		"email": "iyer@college.edu",
		"password": "pw123456",
		"department": "CSE",
		"phone": "9876543210"
	}`)
	req, err := http.NewRequest("POST", "/api/v1/mentors", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	accounts := mockCollection(db, "accounts")
	accounts.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	insertResult := &mocks.InsertOneResultHelper{}
	insertResult.On("Decode").Return(primitive.NewObjectID())
	accounts.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)

	mentors := mockCollection(db, "mentors")
	mentors.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)

	guard := &directory.Guard{
		AccDB: databases.NewAccountDatabase(db),
		MDB:   databases.NewMentorDatabase(db),
	}
	m := handlers.Mentor{DB: databases.NewMentorDatabase(db), Guard: guard}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.CreateMentorHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var got models.Mentor
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Prof. Iyer", got.Name)
	assert.NotNil(t, got.Mentees)
	assert.Empty(t, got.Mentees)
}

func TestMentor_DeleteMentorHandler(t *testing.T) {
	mentorID := primitive.NewObjectID()
	req, err := http.NewRequest("DELETE", "/api/v1/mentor/"+mentorID.Hex(), nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mentor_id": mentorID.Hex()})

	db := &MockDatabaseHelper{}
	mentors := mockCollection(db, "mentors")
	mentors.On("DeleteOne", mock.Anything, mock.Anything).Return(&mongo.DeleteResult{DeletedCount: 1}, nil)
	accounts := mockCollection(db, "accounts")
	accounts.On("DeleteOne", mock.Anything, mock.Anything).Return(&mongo.DeleteResult{DeletedCount: 1}, nil)

	guard := &directory.Guard{
		AccDB: databases.NewAccountDatabase(db),
		MDB:   databases.NewMentorDatabase(db),
	}
	m := handlers.Mentor{Guard: guard}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.DeleteMentorHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), mentorID.Hex())
}

func TestMentor_MentorsHandlerFindError(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/mentors", nil)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := mockCollection(db, "mentors")
	conn.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

	m := handlers.Mentor{DB: databases.NewMentorDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(m.MentorsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get mentors")
}
