package model

import "errors"

var ErrNoRecord = errors.New("no record")
var ErrAlreadyExists = errors.New("entity already exists")
var ErrConflictingBooking = errors.New("booking conflicts with an existing booking")
