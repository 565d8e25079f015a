// Package keys generates, stores and loads RSA key pairs in PKCS#1 PEM form.
//
// Keys are plain values handed to the ciphers by the caller; nothing here
// keeps a default or active key.
package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idelchi/numcrypt/internal/fileutil"
)

const (
	// MinBits is the smallest accepted modulus.
	MinBits = 1024
	// DefaultBits is the modulus used when none is configured.
	DefaultBits = 2048

	privateBlock = "RSA PRIVATE KEY"
	publicBlock  = "RSA PUBLIC KEY"
	pkixBlock    = "PUBLIC KEY"
	pkcs8Block   = "PRIVATE KEY"
)

// ErrKey is returned for malformed, unsupported or undersized key material.
var ErrKey = errors.New("invalid key material")

// Generate creates a new key pair with a modulus of bits.
func Generate(bits int) (*rsa.PrivateKey, error) {
	if bits < MinBits {
		return nil, fmt.Errorf("%w: %d-bit modulus is below the %d-bit minimum", ErrKey, bits, MinBits)
	}

	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("generating %d-bit key: %w", bits, err)
	}

	return priv, nil
}

// CheckPublic reports whether pub is usable for encryption.
func CheckPublic(pub *rsa.PublicKey) error {
	if pub == nil || pub.N == nil {
		return fmt.Errorf("%w: missing public key", ErrKey)
	}

	if bits := pub.N.BitLen(); bits < MinBits {
		return fmt.Errorf("%w: %d-bit modulus is below the %d-bit minimum", ErrKey, bits, MinBits)
	}

	return nil
}

// CheckPrivate reports whether priv is usable for decryption.
func CheckPrivate(priv *rsa.PrivateKey) error {
	if priv == nil {
		return fmt.Errorf("%w: missing private key", ErrKey)
	}

	if err := CheckPublic(&priv.PublicKey); err != nil {
		return err
	}

	if err := priv.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrKey, err)
	}

	return nil
}

// MarshalPrivate encodes priv as a PKCS#1 PEM block.
func MarshalPrivate(priv *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  privateBlock,
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})
}

// MarshalPublic encodes pub as a PKCS#1 PEM block.
func MarshalPublic(pub *rsa.PublicKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  publicBlock,
		Bytes: x509.MarshalPKCS1PublicKey(pub),
	})
}

// ParsePrivate decodes a PKCS#1 or PKCS#8 PEM encoded RSA private key.
func ParsePrivate(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrKey)
	}

	var (
		priv *rsa.PrivateKey
		err  error
	)

	switch block.Type {
	case privateBlock:
		priv, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case pkcs8Block:
		var (
			parsed any
			ok     bool
		)

		parsed, err = x509.ParsePKCS8PrivateKey(block.Bytes)
		if err == nil {
			if priv, ok = parsed.(*rsa.PrivateKey); !ok {
				return nil, fmt.Errorf("%w: PKCS#8 key is not RSA", ErrKey)
			}
		}
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", ErrKey, block.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: parsing private key: %w", ErrKey, err)
	}

	if err := CheckPrivate(priv); err != nil {
		return nil, err
	}

	return priv, nil
}

// ParsePublic decodes a PKCS#1 or PKIX PEM encoded RSA public key.
func ParsePublic(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrKey)
	}

	var (
		pub *rsa.PublicKey
		err error
	)

	switch block.Type {
	case publicBlock:
		pub, err = x509.ParsePKCS1PublicKey(block.Bytes)
	case pkixBlock:
		var (
			parsed any
			ok     bool
		)

		parsed, err = x509.ParsePKIXPublicKey(block.Bytes)
		if err == nil {
			if pub, ok = parsed.(*rsa.PublicKey); !ok {
				return nil, fmt.Errorf("%w: PKIX key is not RSA", ErrKey)
			}
		}
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", ErrKey, block.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: parsing public key: %w", ErrKey, err)
	}

	if err := CheckPublic(pub); err != nil {
		return nil, err
	}

	return pub, nil
}

// LoadPrivate reads and parses a private key file.
func LoadPrivate(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}

	priv, err := ParsePrivate(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}

	return priv, nil
}

// LoadPublic reads and parses a public key file.
// A private key file is accepted too; its public half is returned.
func LoadPublic(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}

	if block, _ := pem.Decode(data); block != nil && (block.Type == privateBlock || block.Type == pkcs8Block) {
		priv, err := ParsePrivate(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}

		return &priv.PublicKey, nil
	}

	pub, err := ParsePublic(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}

	return pub, nil
}

// Paths returns the private and public key file names for prefix.
func Paths(prefix string) (private, public string) {
	return prefix + ".pem", prefix + ".pub.pem"
}

// Save writes priv to <prefix>.pem and its public half to <prefix>.pub.pem.
// Existing files are only replaced when overwrite is set.
func Save(priv *rsa.PrivateKey, prefix string, overwrite bool) (private, public string, err error) {
	private, public = Paths(prefix)

	if !overwrite {
		for _, path := range []string{private, public} {
			if _, err := os.Stat(path); err == nil {
				return "", "", fmt.Errorf("%q already exists", path)
			}
		}
	}

	const (
		privatePerm = 0o600
		publicPerm  = 0o644
	)

	if err := fileutil.WriteFile(private, MarshalPrivate(priv), privatePerm); err != nil {
		return "", "", fmt.Errorf("saving private key: %w", err)
	}

	if err := fileutil.WriteFile(public, MarshalPublic(&priv.PublicKey), publicPerm); err != nil {
		return "", "", fmt.Errorf("saving public key: %w", err)
	}

	return private, public, nil
}
