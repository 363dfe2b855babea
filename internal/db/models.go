package db

import "time"

// Membership roles.
const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
}

type Project struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProjectMember struct {
	ProjectID string
	UserID    string
	Role      string
	AddedAt   time.Time
}

// Snapshot is one saved version of a project's layout document,
// stored as JSON.
type Snapshot struct {
	ID        string
	ProjectID string
	Version   int32
	Document  []byte
	CreatedAt time.Time
}
