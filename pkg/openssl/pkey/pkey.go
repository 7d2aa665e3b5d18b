package pkey

import (
	"errors"
	"runtime"

	"github.com/cryptobind/openssl-go/pkg/openssl"
	"github.com/cryptobind/openssl-go/pkg/openssl/internal/backend"
)

// Curve names understood by the native library's object table.
const (
	P256      = "prime256v1"
	P384      = "secp384r1"
	P521      = "secp521r1"
	Secp256k1 = "secp256k1"
)

// Key is an owning wrapper around a native EVP_PKEY.
//
// Memory management: call Close when the key is no longer needed. A
// finalizer is set as a safety net, but relying on it can keep private key
// material alive longer than intended.
type Key struct {
	ckey backend.PKey
}

func newKey(ckey backend.PKey) *Key {
	k := &Key{ckey: ckey}
	runtime.SetFinalizer(k, func(key *Key) {
		_ = key.Close()
	})
	return k
}

// Close releases the native key. Safe to call multiple times; the key must
// not be used afterwards.
func (k *Key) Close() error {
	if k == nil || k.ckey == nil {
		return nil
	}
	backend.PKeyFree(k.ckey)
	k.ckey = nil
	runtime.SetFinalizer(k, nil)
	return nil
}

// GenerateEC generates an EC key pair on the named curve.
func GenerateEC(curve string) (*Key, error) {
	ckey, err := backend.PKeyGenerateEC(curve)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	return newKey(ckey), nil
}

// GenerateRSA generates an RSA key pair with the given modulus size.
func GenerateRSA(bits int) (*Key, error) {
	ckey, err := backend.PKeyGenerateRSA(bits)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	return newKey(ckey), nil
}

// LoadPrivateDER parses a DER-encoded private key.
func LoadPrivateDER(der []byte) (*Key, error) {
	ckey, err := backend.PKeyFromPrivateDER(der)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	return newKey(ckey), nil
}

// LoadPublicDER parses a SubjectPublicKeyInfo DER public key.
func LoadPublicDER(der []byte) (*Key, error) {
	ckey, err := backend.PKeyFromPublicDER(der)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	return newKey(ckey), nil
}

// Sign signs msg, hashing it with the named digest algorithm. The
// signature uses the key type's standard encoding: DER ECDSA-Sig-Value for
// EC keys, PKCS#1 v1.5 for RSA keys.
func (k *Key) Sign(digestAlgo string, msg []byte) ([]byte, error) {
	if k == nil || k.ckey == nil {
		return nil, errors.New("nil or closed key")
	}
	sig, err := backend.PKeySign(k.ckey, digestAlgo, msg)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	runtime.KeepAlive(k)
	return sig, nil
}

// Verify checks sig over msg. A clean mismatch returns openssl.ErrVerify;
// anything the library reports beyond that surfaces as an ErrorStack.
func (k *Key) Verify(digestAlgo string, msg, sig []byte) error {
	if k == nil || k.ckey == nil {
		return errors.New("nil or closed key")
	}
	err := backend.PKeyVerify(k.ckey, digestAlgo, msg, sig)
	runtime.KeepAlive(k)
	return openssl.RemapError(err)
}

// PrivateDER serializes the private key in DER.
func (k *Key) PrivateDER() ([]byte, error) {
	if k == nil || k.ckey == nil {
		return nil, errors.New("nil or closed key")
	}
	der, err := backend.PKeyPrivateDER(k.ckey)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	runtime.KeepAlive(k)
	return der, nil
}

// PublicDER serializes the public half in SubjectPublicKeyInfo DER.
func (k *Key) PublicDER() ([]byte, error) {
	if k == nil || k.ckey == nil {
		return nil, errors.New("nil or closed key")
	}
	der, err := backend.PKeyPublicDER(k.ckey)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	runtime.KeepAlive(k)
	return der, nil
}

// PublicPoint returns the uncompressed EC point encoding (0x04 || X || Y)
// of an EC public key.
func (k *Key) PublicPoint() ([]byte, error) {
	if k == nil || k.ckey == nil {
		return nil, errors.New("nil or closed key")
	}
	point, err := backend.PKeyPublicPoint(k.ckey)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	runtime.KeepAlive(k)
	return point, nil
}

// Curve returns the group name of an EC key.
func (k *Key) Curve() (string, error) {
	if k == nil || k.ckey == nil {
		return "", errors.New("nil or closed key")
	}
	name, err := backend.PKeyGroupName(k.ckey)
	if err != nil {
		return "", openssl.RemapError(err)
	}
	runtime.KeepAlive(k)
	return name, nil
}
