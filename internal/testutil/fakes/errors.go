package fakes

import "errors"

// ErrStoreFailure is the default error returned when FailNext is armed.
var ErrStoreFailure = errors.New("fake store failure")
