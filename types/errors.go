package types

import "errors"

var ErrNoPayload = errors.New("file has no payload")
