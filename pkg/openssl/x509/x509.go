package x509

import (
	"errors"
	"runtime"
	"time"

	"github.com/cryptobind/openssl-go/pkg/openssl"
	"github.com/cryptobind/openssl-go/pkg/openssl/internal/backend"
	"github.com/cryptobind/openssl-go/pkg/openssl/pkey"
)

// Certificate is an owning wrapper around a native X509 handle.
//
// Memory management: call Close when the certificate is no longer needed.
// A finalizer is set as a safety net.
type Certificate struct {
	ccert backend.Cert
}

func newCertificate(ccert backend.Cert) *Certificate {
	c := &Certificate{ccert: ccert}
	runtime.SetFinalizer(c, func(cert *Certificate) {
		_ = cert.Close()
	})
	return c
}

// Close releases the native certificate. Safe to call multiple times.
func (c *Certificate) Close() error {
	if c == nil || c.ccert == nil {
		return nil
	}
	backend.CertFree(c.ccert)
	c.ccert = nil
	runtime.SetFinalizer(c, nil)
	return nil
}

// ParsePEM parses the first certificate in a PEM bundle.
func ParsePEM(pem []byte) (*Certificate, error) {
	ccert, err := backend.CertFromPEM(pem)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	return newCertificate(ccert), nil
}

// ParseDER parses a DER-encoded certificate.
func ParseDER(der []byte) (*Certificate, error) {
	ccert, err := backend.CertFromDER(der)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	return newCertificate(ccert), nil
}

// DER serializes the certificate back to DER.
func (c *Certificate) DER() ([]byte, error) {
	return c.encode(backend.CertToDER)
}

// PEM serializes the certificate back to PEM.
func (c *Certificate) PEM() ([]byte, error) {
	return c.encode(backend.CertToPEM)
}

func (c *Certificate) encode(f func(backend.Cert) ([]byte, error)) ([]byte, error) {
	if c == nil || c.ccert == nil {
		return nil, errors.New("nil or closed certificate")
	}
	out, err := f(c.ccert)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	runtime.KeepAlive(c)
	return out, nil
}

// Subject returns the subject distinguished name in RFC 2253 form.
func (c *Certificate) Subject() (string, error) {
	return c.name(backend.CertSubject)
}

// Issuer returns the issuer distinguished name in RFC 2253 form.
func (c *Certificate) Issuer() (string, error) {
	return c.name(backend.CertIssuer)
}

// SerialNumber returns the certificate serial as a decimal string.
func (c *Certificate) SerialNumber() (string, error) {
	return c.name(backend.CertSerialDec)
}

func (c *Certificate) name(f func(backend.Cert) (string, error)) (string, error) {
	if c == nil || c.ccert == nil {
		return "", errors.New("nil or closed certificate")
	}
	s, err := f(c.ccert)
	if err != nil {
		return "", openssl.RemapError(err)
	}
	runtime.KeepAlive(c)
	return s, nil
}

// NotBefore returns the start of the validity window in UTC.
func (c *Certificate) NotBefore() (time.Time, error) {
	return c.timeField(backend.CertNotBefore)
}

// NotAfter returns the end of the validity window in UTC.
func (c *Certificate) NotAfter() (time.Time, error) {
	return c.timeField(backend.CertNotAfter)
}

func (c *Certificate) timeField(f func(backend.Cert) (time.Time, error)) (time.Time, error) {
	if c == nil || c.ccert == nil {
		return time.Time{}, errors.New("nil or closed certificate")
	}
	t, err := f(c.ccert)
	if err != nil {
		return time.Time{}, openssl.RemapError(err)
	}
	runtime.KeepAlive(c)
	return t, nil
}

// PublicKey extracts the certificate's public key as an owning pkey
// wrapper. The key is handed across packages in SubjectPublicKeyInfo DER
// so each package manages only its own native handles; the caller closes
// the returned key independently of the certificate.
func (c *Certificate) PublicKey() (*pkey.Key, error) {
	if c == nil || c.ccert == nil {
		return nil, errors.New("nil or closed certificate")
	}
	ckey, err := backend.CertPublicKey(c.ccert)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	der, err := backend.PKeyPublicDER(ckey)
	backend.PKeyFree(ckey)
	runtime.KeepAlive(c)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	return pkey.LoadPublicDER(der)
}

// Store is an owning wrapper around a native certificate trust store.
type Store struct {
	cstore backend.CertStore
}

// NewStore allocates an empty trust store. It must be released with Close.
func NewStore() (*Store, error) {
	cstore, err := backend.StoreNew()
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	s := &Store{cstore: cstore}
	runtime.SetFinalizer(s, func(store *Store) {
		_ = store.Close()
	})
	return s, nil
}

// Close releases the native store. Safe to call multiple times.
func (s *Store) Close() error {
	if s == nil || s.cstore == nil {
		return nil
	}
	backend.StoreFree(s.cstore)
	s.cstore = nil
	runtime.SetFinalizer(s, nil)
	return nil
}

// AddTrusted adds cert as a trusted root. The store keeps its own native
// reference, so the certificate may be closed afterwards.
func (s *Store) AddTrusted(cert *Certificate) error {
	if s == nil || s.cstore == nil {
		return errors.New("nil or closed store")
	}
	if cert == nil || cert.ccert == nil {
		return errors.New("nil or closed certificate")
	}
	err := backend.StoreAddCert(s.cstore, cert.ccert)
	runtime.KeepAlive(s)
	runtime.KeepAlive(cert)
	return openssl.RemapError(err)
}

// Verify checks that cert chains to a trusted root in the store.
// Untrusted intermediates may be supplied for path building; they are
// borrowed for the duration of the call and gain no trust themselves.
// The returned error carries the library's verification reason.
func (s *Store) Verify(cert *Certificate, intermediates ...*Certificate) error {
	if s == nil || s.cstore == nil {
		return errors.New("nil or closed store")
	}
	if cert == nil || cert.ccert == nil {
		return errors.New("nil or closed certificate")
	}
	chain := make([]backend.Cert, 0, len(intermediates))
	for _, ic := range intermediates {
		if ic == nil || ic.ccert == nil {
			return errors.New("nil or closed intermediate certificate")
		}
		chain = append(chain, ic.ccert)
	}
	err := backend.StoreVerifyCert(s.cstore, cert.ccert, chain)
	runtime.KeepAlive(s)
	runtime.KeepAlive(cert)
	runtime.KeepAlive(intermediates)
	return openssl.RemapError(err)
}
