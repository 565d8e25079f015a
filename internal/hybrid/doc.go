// Package hybrid encrypts payloads of any length to an RSA public key.
//
// A fresh 32-byte seed is wrapped with RSA-OAEP (SHA-256) for the recipient.
// The seed is expanded with HKDF into an AES-SIV key that seals the payload in
// 64 KiB segments. Each segment is authenticated together with the envelope
// header, its index and whether it is the last one, so reordering, truncation
// and splicing are all detected.
//
// Stream layout:
//
//	header | uint16 len | wrapped seed | { uint32 frame | sealed segment }...
//
// The high bit of frame marks the final segment; the low bits carry the
// sealed segment length. An empty payload still produces one final segment.
package hybrid
