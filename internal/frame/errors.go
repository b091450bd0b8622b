package frame

import "errors"

var (
	errZeroLengthFrame      = errors.New("frame: skip reported zero-length frame")
	errFrameOverrunsPayload = errors.New("frame: frame extent runs past end of payload")
)
