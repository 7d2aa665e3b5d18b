//go:build cgo && !windows

package backend

/*
#include <stdlib.h>
#include <time.h>
#include <openssl/x509.h>
#include <openssl/x509_vfy.h>
#include <openssl/pem.h>
#include <openssl/asn1.h>
#include <openssl/crypto.h>

// OPENSSL_free is a macro over CRYPTO_free.
static void go_openssl_free(void *p) { OPENSSL_free(p); }

// The sk_X509_* accessors are safestack macros, so they get C-side
// wrappers. The stack holds borrowed pointers; go_x509_stack_free does
// not free the certificates themselves.
static STACK_OF(X509) *go_x509_stack_new(void) { return sk_X509_new_null(); }
static int go_x509_stack_push(STACK_OF(X509) *sk, X509 *x) { return sk_X509_push(sk, x); }
static void go_x509_stack_free(STACK_OF(X509) *sk) { sk_X509_free(sk); }
*/
import "C"

import (
	"errors"
	"runtime"
	"time"
	"unsafe"
)

// Cert is a type alias for *C.X509.
type Cert = *C.X509

// CertStore is a type alias for *C.X509_STORE.
type CertStore = *C.X509_STORE

// CertFromPEM parses the first certificate in a PEM bundle. The certificate
// must be freed with CertFree.
func CertFromPEM(pem []byte) (Cert, error) {
	if len(pem) == 0 {
		return nil, errors.New("empty pem")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	bio := newMemBIO(pem)
	if bio == nil {
		return nil, nativeError("BIO_new")
	}
	defer C.BIO_free(bio)

	cert := C.PEM_read_bio_X509(bio, nil, nil, nil)
	if cert == nil {
		return nil, nativeError("PEM_read_bio_X509")
	}
	return cert, nil
}

// CertFromDER parses a DER certificate. The certificate must be freed with
// CertFree.
func CertFromDER(der []byte) (Cert, error) {
	if len(der) == 0 {
		return nil, errors.New("empty der")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	bio := newMemBIO(der)
	if bio == nil {
		return nil, nativeError("BIO_new")
	}
	defer C.BIO_free(bio)

	cert := C.d2i_X509_bio(bio, nil)
	if cert == nil {
		return nil, nativeError("d2i_X509_bio")
	}
	return cert, nil
}

// CertToDER serializes the certificate to DER.
func CertToDER(cert Cert) ([]byte, error) {
	if cert == nil {
		return nil, errors.New("nil cert")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	bio := newMemBIO(nil)
	if bio == nil {
		return nil, nativeError("BIO_new")
	}
	defer C.BIO_free(bio)

	if C.i2d_X509_bio(bio, cert) != 1 {
		return nil, nativeError("i2d_X509_bio")
	}
	return bioReadAll(bio), nil
}

// CertToPEM serializes the certificate to PEM.
func CertToPEM(cert Cert) ([]byte, error) {
	if cert == nil {
		return nil, errors.New("nil cert")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	bio := newMemBIO(nil)
	if bio == nil {
		return nil, nativeError("BIO_new")
	}
	defer C.BIO_free(bio)

	if C.PEM_write_bio_X509(bio, cert) != 1 {
		return nil, nativeError("PEM_write_bio_X509")
	}
	return bioReadAll(bio), nil
}

// CertFree releases a certificate. Safe on nil.
func CertFree(cert Cert) {
	if cert != nil {
		C.X509_free(cert)
	}
}

// CertSubject renders the subject name in RFC 2253 one-line form.
func CertSubject(cert Cert) (string, error) {
	return certName(cert, "X509_get_subject_name", getSubjectName)
}

// CertIssuer renders the issuer name in RFC 2253 one-line form.
func CertIssuer(cert Cert) (string, error) {
	return certName(cert, "X509_get_issuer_name", getIssuerName)
}

// cgo function references are not first-class values, so the name and time
// accessors get tiny Go shims.
func getSubjectName(c Cert) *C.X509_NAME { return C.X509_get_subject_name(c) }
func getIssuerName(c Cert) *C.X509_NAME  { return C.X509_get_issuer_name(c) }
func getNotBefore(c Cert) *C.ASN1_TIME   { return C.X509_get0_notBefore(c) }
func getNotAfter(c Cert) *C.ASN1_TIME    { return C.X509_get0_notAfter(c) }

func certName(cert Cert, op string, get func(Cert) *C.X509_NAME) (string, error) {
	if cert == nil {
		return "", errors.New("nil cert")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	name := get(cert)
	if name == nil {
		return "", nativeError(op)
	}
	bio := newMemBIO(nil)
	if bio == nil {
		return "", nativeError("BIO_new")
	}
	defer C.BIO_free(bio)

	if C.X509_NAME_print_ex(bio, name, 0, C.XN_FLAG_RFC2253) < 0 {
		return "", nativeError("X509_NAME_print_ex")
	}
	return string(bioReadAll(bio)), nil
}

// CertSerialDec returns the certificate serial number as a decimal string.
func CertSerialDec(cert Cert) (string, error) {
	if cert == nil {
		return "", errors.New("nil cert")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	serial := C.X509_get_serialNumber(cert)
	if serial == nil {
		return "", nativeError("X509_get_serialNumber")
	}
	bn := C.ASN1_INTEGER_to_BN(serial, nil)
	if bn == nil {
		return "", nativeError("ASN1_INTEGER_to_BN")
	}
	defer C.BN_clear_free(bn)
	cs := C.BN_bn2dec(bn)
	if cs == nil {
		return "", nativeError("BN_bn2dec")
	}
	s := C.GoString(cs)
	C.go_openssl_free(unsafe.Pointer(cs))
	return s, nil
}

// CertNotBefore returns the start of the certificate validity window in UTC.
func CertNotBefore(cert Cert) (time.Time, error) {
	return certTime(cert, "X509_get0_notBefore", getNotBefore)
}

// CertNotAfter returns the end of the certificate validity window in UTC.
func CertNotAfter(cert Cert) (time.Time, error) {
	return certTime(cert, "X509_get0_notAfter", getNotAfter)
}

func certTime(cert Cert, op string, get func(Cert) *C.ASN1_TIME) (time.Time, error) {
	if cert == nil {
		return time.Time{}, errors.New("nil cert")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	at := get(cert)
	if at == nil {
		return time.Time{}, nativeError(op)
	}
	var tm C.struct_tm
	if C.ASN1_TIME_to_tm(at, &tm) != 1 {
		return time.Time{}, nativeError("ASN1_TIME_to_tm")
	}
	return time.Date(
		int(tm.tm_year)+1900, time.Month(tm.tm_mon)+1, int(tm.tm_mday),
		int(tm.tm_hour), int(tm.tm_min), int(tm.tm_sec), 0, time.UTC,
	), nil
}

// CertPublicKey extracts the certificate's public key. The key must be
// freed with PKeyFree.
func CertPublicKey(cert Cert) (PKey, error) {
	if cert == nil {
		return nil, errors.New("nil cert")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	pkey := C.X509_get_pubkey(cert)
	if pkey == nil {
		return nil, nativeError("X509_get_pubkey")
	}
	return pkey, nil
}

// StoreNew allocates an empty certificate store. The store must be freed
// with StoreFree.
func StoreNew() (CertStore, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	store := C.X509_STORE_new()
	if store == nil {
		return nil, nativeError("X509_STORE_new")
	}
	return store, nil
}

// StoreFree releases a certificate store. Safe on nil.
func StoreFree(store CertStore) {
	if store != nil {
		C.X509_STORE_free(store)
	}
}

// StoreAddCert adds a trusted certificate to the store. The store keeps its
// own reference; the caller retains ownership of cert.
func StoreAddCert(store CertStore, cert Cert) error {
	if store == nil || cert == nil {
		return errors.New("nil store or cert")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if C.X509_STORE_add_cert(store, cert) != 1 {
		return nativeError("X509_STORE_add_cert")
	}
	return nil
}

// StoreVerifyCert verifies cert against the store's trusted roots, with
// chain as optional untrusted intermediates for path building. On
// failure the returned error carries the library's verification reason
// string as the only queue entry data when the queue itself is empty.
func StoreVerifyCert(store CertStore, cert Cert, chain []Cert) error {
	if store == nil || cert == nil {
		return errors.New("nil store or cert")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ctx := C.X509_STORE_CTX_new()
	if ctx == nil {
		return nativeError("X509_STORE_CTX_new")
	}
	defer C.X509_STORE_CTX_free(ctx)

	// The untrusted stack borrows the callers' certificate handles for
	// the duration of the verification only.
	var untrusted *C.struct_stack_st_X509
	if len(chain) > 0 {
		untrusted = C.go_x509_stack_new()
		if untrusted == nil {
			return nativeError("sk_X509_new_null")
		}
		defer C.go_x509_stack_free(untrusted)
		for _, c := range chain {
			if c == nil {
				return errors.New("nil chain cert")
			}
			if C.go_x509_stack_push(untrusted, c) <= 0 {
				return nativeError("sk_X509_push")
			}
		}
	}

	if C.X509_STORE_CTX_init(ctx, store, cert, untrusted) != 1 {
		return nativeError("X509_STORE_CTX_init")
	}
	if C.X509_verify_cert(ctx) != 1 {
		code := C.X509_STORE_CTX_get_error(ctx)
		reason := C.GoString(C.X509_verify_cert_error_string(C.long(code)))
		if entries := drainEntries(); len(entries) > 0 {
			return &NativeError{Op: "X509_verify_cert: " + reason, Entries: entries}
		}
		return &NativeError{Op: "X509_verify_cert: " + reason}
	}
	return nil
}
