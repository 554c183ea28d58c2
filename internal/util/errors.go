package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidVote      = errors.New("invalid vote direction")
	ErrInvalidEvent     = errors.New("invalid identity event")
)
