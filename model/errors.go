package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures inside a leaderboard run.
type ErrorKind string

const (
	FetchFailed       ErrorKind = "fetch_failed"
	ChannelNotFound   ErrorKind = "channel_not_found"
	CommunityNotFound ErrorKind = "community_not_found"
	ResolutionFailed  ErrorKind = "resolution_failed"
	DeleteFailed      ErrorKind = "delete_failed"
	SendFailed        ErrorKind = "send_failed"
)

// RunError carries the kind of a run failure along with the step that produced it.
type RunError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *RunError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// NewRunError wraps err with a kind.
func NewRunError(kind ErrorKind, op string, err error) *RunError {
	return &RunError{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first RunError in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var re *RunError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
