// Package docs MentorHub Portal API.
//
// Documentation of the MentorHub mentorship portal API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//     Host: https://api.mentorhub.app
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - basic
//
//    SecurityDefinitions:
//    basic:
//      type: basic
//
// swagger:meta
package docs

import (
	"github.com/mentorhub/mentor-portal-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/v1/mentors/{mentor_id} mentors mentorByID
// Gets a single mentor by ID.
// responses:
//   200: mentorByIDResponse

// Shows a single mentor by the given {ID}
// swagger:response mentorByIDResponse
type mentorByIDResponseWrapper struct {
	// in:body
	Body models.Mentor
}

// swagger:route GET /api/v1/mentees/{mentee_id} mentees menteeByID
// Gets a single mentee by ID.
// responses:
//   200: menteeByIDResponse

// Shows a single mentee by the given {ID}
// swagger:response menteeByIDResponse
type menteeByIDResponseWrapper struct {
	// in:body
	Body models.Mentee
}

// swagger:route GET /api/v1/mentees/{mentee_id}/leave-applications leave leaveByMenteeID
// Lists a mentee's leave applications.
// responses:
//   200: leaveApplicationsResponse

// Shows all leave applications for the given mentee
// swagger:response leaveApplicationsResponse
type leaveApplicationsResponseWrapper struct {
	// in:body
	Body []models.LeaveApplication
}

// swagger:route GET /api/v1/chats chats chatsList
// Lists the chats visible to the caller.
// responses:
//   200: chatsResponse

// Shows the chats visible to the authenticated caller
// swagger:response chatsResponse
type chatsResponseWrapper struct {
	// in:body
	Body []models.Chat
}
