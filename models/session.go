package models

// Role is the resolved role of an authenticated account. An account lives in at
// most one of the three role collections; resolution probes them in the fixed
// order admin, mentor, mentee and the first match wins.
type Role string

// Role values in precedence order.
const (
	RoleAdmin  Role = "admin"
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
)

// Session is the resolved (role, display name) pair for an account. It is what
// the durable session cache stores and what /session returns.
type Session struct {
	Role Role   `json:"role"`
	Name string `json:"name"`
}
