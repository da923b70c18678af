package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrPermissionDenied = errors.New("permission denied")

	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectNotActive    = errors.New("project is not active")
	ErrStepNotFound        = errors.New("step not found")
	ErrStepNotStartable    = errors.New("step is not available to start")
	ErrNeedToKnowNotFound  = errors.New("need-to-know not found")
	ErrStorageNotAvailable = errors.New("storage provider not available")
)
