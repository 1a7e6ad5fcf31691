package tokencodec

import "errors"

var ErrEntropyUnavailable = errors.New("tokencodec: secure random source unavailable")
