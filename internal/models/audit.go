package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Action is an audited user action
type Action string

const (
	ActionAdd    Action = "ADD"
	ActionDelete Action = "DELETE"
	ActionSearch Action = "SEARCH"
	ActionUpdate Action = "UPDATE"
)

// DisplayName returns the human readable action name
func (a Action) DisplayName() string {
	switch a {
	case ActionAdd:
		return "Add Product"
	case ActionDelete:
		return "Delete Product"
	case ActionSearch:
		return "Search product"
	case ActionUpdate:
		return "Update Product"
	default:
		return string(a)
	}
}

// ParseAction accepts an action name in any case
func ParseAction(raw string) (Action, error) {
	action := Action(strings.ToUpper(strings.TrimSpace(raw)))
	switch action {
	case ActionAdd, ActionDelete, ActionSearch, ActionUpdate:
		return action, nil
	default:
		return "", fmt.Errorf("%w: unknown audit action %q", ErrInvalidQuery, raw)
	}
}

// AuditRecord is a single audit log line
type AuditRecord struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
	Action    Action    `json:"action"`
	Details   string    `json:"details"`
}

// NewAuditRecord creates a record stamped with the current time
func NewAuditRecord(username string, action Action, details string) AuditRecord {
	return AuditRecord{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
		Username:  username,
		Action:    action,
		Details:   details,
	}
}

// AuditFilter selects audit records. Zero fields match everything.
type AuditFilter struct {
	Username string
	Action   Action
	After    time.Time // exclusive
}

// Matches reports whether record passes every set field of f
func (f AuditFilter) Matches(record AuditRecord) bool {
	if f.Username != "" && record.Username != f.Username {
		return false
	}
	if f.Action != "" && record.Action != f.Action {
		return false
	}
	if !f.After.IsZero() && !record.Timestamp.After(f.After) {
		return false
	}
	return true
}
