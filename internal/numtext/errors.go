package numtext

import "errors"

// ErrInvalidEncoding is returned when the text contains a token that is not a
// decimal number in the range [0,255].
var ErrInvalidEncoding = errors.New("invalid numeric encoding")
