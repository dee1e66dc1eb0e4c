// Package moderation maps moderation actions to the comment fields they set.
package moderation

import (
	"errors"
	"fmt"
	"strings"

	"tinkbyte-api/internal/domain"
)

// ErrInvalidAction is returned for an action outside the supported set
var ErrInvalidAction = errors.New("invalid action")

// Action is a moderation keyword sent by an admin
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionFlag    Action = "flag"
	ActionUnflag  Action = "unflag"
	ActionHide    Action = "hide"
	ActionDelete  Action = "delete"
	ActionRestore Action = "restore"
)

// Actions lists the supported actions
var Actions = []Action{
	ActionApprove,
	ActionReject,
	ActionFlag,
	ActionUnflag,
	ActionHide,
	ActionDelete,
	ActionRestore,
}

// Update is the field change one action applies to a comment.
// IsDeleted is nil when the action leaves the soft-delete flag alone.
type Update struct {
	Action    Action
	Status    domain.CommentStatus
	IsDeleted *bool
}

func boolPtr(b bool) *bool {
	return &b
}

var updates = map[Action]Update{
	ActionApprove: {Action: ActionApprove, Status: domain.CommentStatusApproved},
	ActionReject:  {Action: ActionReject, Status: domain.CommentStatusRejected},
	ActionFlag:    {Action: ActionFlag, Status: domain.CommentStatusFlagged},
	ActionUnflag:  {Action: ActionUnflag, Status: domain.CommentStatusApproved},
	ActionHide:    {Action: ActionHide, Status: domain.CommentStatusHidden},
	ActionDelete:  {Action: ActionDelete, Status: domain.CommentStatusDeleted, IsDeleted: boolPtr(true)},
	ActionRestore: {Action: ActionRestore, Status: domain.CommentStatusApproved, IsDeleted: boolPtr(false)},
}

// Resolve returns the update for action. Matching is case-insensitive and ignores
// surrounding whitespace.
func Resolve(action string) (Update, error) {
	key := Action(strings.ToLower(strings.TrimSpace(action)))
	u, ok := updates[key]
	if !ok {
		return Update{}, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
	// copy the pointer target so callers cannot mutate the table
	if u.IsDeleted != nil {
		u.IsDeleted = boolPtr(*u.IsDeleted)
	}
	return u, nil
}

// Columns returns the column map passed to gorm's Updates
func (u Update) Columns(reason string) map[string]interface{} {
	cols := map[string]interface{}{
		"status":            u.Status,
		"moderation_reason": reason,
	}
	if u.IsDeleted != nil {
		cols["is_deleted"] = *u.IsDeleted
	}
	return cols
}

// NotifiesAuthor reports whether authors are told about this action
func (u Update) NotifiesAuthor() bool {
	return u.Action == ActionApprove
}

// IsValid reports whether a is a supported action
func (a Action) IsValid() bool {
	_, ok := updates[a]
	return ok
}
