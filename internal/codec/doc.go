// Package codec turns payloads into error-correcting numeric text and back.
//
// Encode runs a payload through these stages:
//
//	encrypt -> compress -> frame + split into 127-byte chunks -> Reed-Solomon -> numeric text
//
// The compressed blob is prefixed with its length as a big-endian uint32
// before it is split, so a zero-padded final chunk is trimmed exactly on the
// way back. Decode runs the stages in reverse and stops at the first stage
// that fails, reporting it in a *StageError. No partial payload is ever
// returned.
package codec
