// Package fec protects fixed-size chunks with a (255,127) Reed-Solomon code
// over GF(2^8).
//
// Each chunk of up to 127 bytes becomes a 255-byte systematic codeword: the
// chunk, zero padded to 127 bytes, followed by 128 parity bytes. Up to 64
// corrupted bytes at unknown positions are corrected per codeword.
//
// Chunks shorter than 127 bytes are padded at the end and Decode returns the
// full 127-byte data region; recovering the original length is left to the
// caller's framing.
package fec
