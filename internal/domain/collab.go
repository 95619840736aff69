package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource state changed concurrently")
)

type CollabStatus string

const (
	CollabStatusPending    CollabStatus = "pending"
	CollabStatusInProgress CollabStatus = "in_progress"
	CollabStatusCompleted  CollabStatus = "completed"
	CollabStatusCancelled  CollabStatus = "cancelled"
)

// Valid reports whether s is one of the known lifecycle states.
func (s CollabStatus) Valid() bool {
	switch s {
	case CollabStatusPending, CollabStatusInProgress, CollabStatusCompleted, CollabStatusCancelled:
		return true
	}
	return false
}

// CardData is the posting's display/ranking metadata. It replaces the
// original JSONB attribute bag with explicit optional fields; absent values
// fall back to the zero/partial-credit ranking rules instead of runtime
// type coercion.
type CardData struct {
	Title          string     `json:"title,omitempty" validate:"max=120"`
	Objective      string     `json:"objective,omitempty" validate:"max=300"`
	Description    string     `json:"description,omitempty" validate:"max=2000"`
	Deliverables   []string   `json:"deliverables,omitempty" validate:"max=20,dive,max=200"`
	RequiredSkills []string   `json:"required_skills,omitempty" validate:"max=20,dive,max=60"`
	Tags           []string   `json:"tags,omitempty" validate:"max=10,dive,min=1,max=40"`
	CollabType     string     `json:"collab_type,omitempty" validate:"max=60"`
	WhoPosts       string     `json:"who_posts,omitempty" validate:"omitempty,oneof=creator1 creator2 both"`
	Deadline       *time.Time `json:"deadline,omitempty"`
}

type Collab struct {
	ID        string       `json:"id"`
	Creator1  string       `json:"creator1"`
	Creator2  *string      `json:"creator2"`
	CardData  CardData     `json:"card_data"`
	Status    CollabStatus `json:"status"`
	ProofLink *string      `json:"proof_link"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Involves reports whether userID is one of the collab's participants.
func (c *Collab) Involves(userID string) bool {
	if c.Creator1 == userID {
		return true
	}
	return c.Creator2 != nil && *c.Creator2 == userID
}

type CollabRepository interface {
	Create(ctx context.Context, collab *Collab) error
	GetByID(ctx context.Context, id string) (*Collab, error)
	FetchByUser(ctx context.Context, userID string) ([]Collab, error)
	// FetchPending returns open postings excluding those created by
	// excludeCreatorID, newest first.
	FetchPending(ctx context.Context, excludeCreatorID string, limit int) ([]Collab, error)
	// FetchStatusesInvolving returns the status of every collab the user
	// participates in as creator or collaborator, any state.
	FetchStatusesInvolving(ctx context.Context, userID string) ([]CollabStatus, error)
	Update(ctx context.Context, collab *Collab) error
	// ClaimPending assigns collab.Creator2 and moves the row to
	// in_progress, but only if it is still pending and unclaimed.
	// Returns ErrConflict when another collaborator got there first.
	ClaimPending(ctx context.Context, collab *Collab) error
}

type CollabUsecase interface {
	CreateCollab(ctx context.Context, collab *Collab) error
	GetCollab(ctx context.Context, id string) (*Collab, error)
	ListMyCollabs(ctx context.Context, userID string) ([]Collab, error)
	JoinCollab(ctx context.Context, collabID, userID string) (*Collab, error)
	UpdateStatus(ctx context.Context, collabID, userID string, status CollabStatus) (*Collab, error)
	AttachProof(ctx context.Context, collabID, userID, proofLink string) (*Collab, error)
}
