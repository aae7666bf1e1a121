package models

// User is an identity record. Authentication, registration and sessions
// are handled outside this module; the core only stamps owners and
// participants with user IDs supplied by the caller.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// CreatedAt is the unix timestamp when the user record was created.
	CreatedAt int64
}
