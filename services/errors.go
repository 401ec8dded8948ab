package services

import "errors"

// Expected workflow outcomes. Controllers map these to HTTP status codes;
// none of them is fatal and a failed operation leaves every entity in its
// prior state.
var (
	ErrDuplicateHandle        = errors.New("username already exists")
	ErrInvalidCredential      = errors.New("invalid username or password")
	ErrInvalidStateTransition = errors.New("resource is not in a valid state for this action")
	ErrMissingRemark          = errors.New("rejection remark is required")
	ErrUnsupportedFileType    = errors.New("file type not allowed")
	ErrNotFound               = errors.New("record not found")
)
