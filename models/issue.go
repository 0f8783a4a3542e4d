package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssuePriority enum
type IssuePriority string

const (
	PriorityHigh   IssuePriority = "High"
	PriorityMedium IssuePriority = "Medium"
	PriorityLow    IssuePriority = "Low"
)

// ValidPriority reports whether p is one of the three priorities.
func ValidPriority(p IssuePriority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	StatusOpen       IssueStatus = "Open"
	StatusInProgress IssueStatus = "In Progress"
	StatusResolved   IssueStatus = "Resolved"
)

// ValidIssueStatus reports whether s is one of the three workflow states.
func ValidIssueStatus(s IssueStatus) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Issue represents a civic complaint reported by a citizen.
//
// ResolvedAt is non-nil exactly when Status is Resolved; moving an issue away
// from Resolved clears it again.
type Issue struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Category    string              `bson:"category" json:"category"`
	Ward        string              `bson:"ward" json:"ward"`
	Location    string              `bson:"location" json:"location"`
	Priority    IssuePriority       `bson:"priority" json:"priority"`
	Description string              `bson:"description" json:"description"`
	Status      IssueStatus         `bson:"status" json:"status"`
	Citizen     primitive.ObjectID  `bson:"citizen" json:"citizen"`
	AssignedTo  *primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	Lat         *float64            `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng         *float64            `bson:"lng,omitempty" json:"lng,omitempty"`
	Image       *string             `bson:"image" json:"image"`
	ResolvedAt  *time.Time          `bson:"resolvedAt" json:"resolvedAt"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// IssueCounts aggregates issue totals for the admin summary.
type IssueCounts struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
}
