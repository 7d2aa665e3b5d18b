//go:build cgo && !windows

package backend

/*
#include <stdlib.h>
#include <openssl/ssl.h>
#include <openssl/err.h>
#include <openssl/x509.h>
#include <openssl/pem.h>
*/
import "C"

import (
	"errors"
	"runtime"
	"unsafe"
)

// SSLCtx is a type alias for *C.SSL_CTX.
type SSLCtx = *C.SSL_CTX

// SSL is a type alias for *C.SSL.
type SSL = *C.SSL

// SSLCtxNew allocates a context for the version-flexible TLS method. The
// context must be freed with SSLCtxFree.
func SSLCtxNew() (SSLCtx, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ctx := C.SSL_CTX_new(C.TLS_method())
	if ctx == nil {
		return nil, nativeError("SSL_CTX_new")
	}
	// The memory-BIO bridge moves bytes in one direction at a time.
	// Unsolicited post-handshake ticket flights can leave both peers
	// blocked writing to a synchronous transport, so tickets are off.
	C.SSL_CTX_set_num_tickets(ctx, 0)
	return ctx, nil
}

// SSLCtxFree releases a context. Safe on nil. Live connections hold their
// own reference, so freeing the context does not tear them down.
func SSLCtxFree(ctx SSLCtx) {
	if ctx != nil {
		C.SSL_CTX_free(ctx)
	}
}

// SSLCtxSetMinTLSVersion restricts the context to protocol versions at or
// above v (a TLS1_*_VERSION wire value).
func SSLCtxSetMinTLSVersion(ctx SSLCtx, v uint16) error {
	if ctx == nil {
		return errors.New("nil ssl context")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// SSL_CTX_set_min_proto_version is a macro over SSL_CTX_ctrl.
	if C.SSL_CTX_ctrl(ctx, C.SSL_CTRL_SET_MIN_PROTO_VERSION, C.long(v), nil) != 1 {
		return nativeError("SSL_CTRL_SET_MIN_PROTO_VERSION")
	}
	return nil
}

// SSLCtxSetVerifyPeer toggles certificate verification of the peer.
func SSLCtxSetVerifyPeer(ctx SSLCtx, verify bool) {
	if ctx == nil {
		return
	}
	mode := C.int(C.SSL_VERIFY_NONE)
	if verify {
		mode = C.SSL_VERIFY_PEER
	}
	C.SSL_CTX_set_verify(ctx, mode, nil)
}

// SSLCtxSetDefaultVerifyPaths loads the system trust store into the
// context.
func SSLCtxSetDefaultVerifyPaths(ctx SSLCtx) error {
	if ctx == nil {
		return errors.New("nil ssl context")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if C.SSL_CTX_set_default_verify_paths(ctx) != 1 {
		return nativeError("SSL_CTX_set_default_verify_paths")
	}
	return nil
}

// SSLCtxAddTrustedCert adds a trusted root to the context's verify store.
// The store takes its own reference; the caller retains ownership of cert.
func SSLCtxAddTrustedCert(ctx SSLCtx, cert Cert) error {
	if ctx == nil || cert == nil {
		return errors.New("nil ssl context or cert")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	store := C.SSL_CTX_get_cert_store(ctx)
	if store == nil {
		return nativeError("SSL_CTX_get_cert_store")
	}
	if C.X509_STORE_add_cert(store, cert) != 1 {
		return nativeError("X509_STORE_add_cert")
	}
	return nil
}

// SSLCtxUseCertificatePEM installs the leaf certificate from a PEM buffer.
func SSLCtxUseCertificatePEM(ctx SSLCtx, pem []byte) error {
	if ctx == nil {
		return errors.New("nil ssl context")
	}
	if len(pem) == 0 {
		return errors.New("empty pem")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	bio := newMemBIO(pem)
	if bio == nil {
		return nativeError("BIO_new")
	}
	defer C.BIO_free(bio)

	cert := C.PEM_read_bio_X509(bio, nil, nil, nil)
	if cert == nil {
		return nativeError("PEM_read_bio_X509")
	}
	defer C.X509_free(cert)

	if C.SSL_CTX_use_certificate(ctx, cert) != 1 {
		return nativeError("SSL_CTX_use_certificate")
	}
	return nil
}

// SSLCtxUsePrivateKeyPEM installs the private key from an unencrypted PEM
// buffer and checks it against the installed certificate.
func SSLCtxUsePrivateKeyPEM(ctx SSLCtx, pem []byte) error {
	if ctx == nil {
		return errors.New("nil ssl context")
	}
	if len(pem) == 0 {
		return errors.New("empty pem")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	bio := newMemBIO(pem)
	if bio == nil {
		return nativeError("BIO_new")
	}
	defer C.BIO_free(bio)

	pkey := C.PEM_read_bio_PrivateKey(bio, nil, nil, nil)
	if pkey == nil {
		return nativeError("PEM_read_bio_PrivateKey")
	}
	defer C.EVP_PKEY_free(pkey)

	if C.SSL_CTX_use_PrivateKey(ctx, pkey) != 1 {
		return nativeError("SSL_CTX_use_PrivateKey")
	}
	if C.SSL_CTX_check_private_key(ctx) != 1 {
		return nativeError("SSL_CTX_check_private_key")
	}
	return nil
}

// SSLNew allocates a connection handle wired to a pair of memory BIOs so
// the caller can bridge it to any Go transport. For clients, serverName
// sets both SNI and hostname verification. The handle must be freed with
// SSLFree, which also releases the BIOs.
func SSLNew(ctx SSLCtx, client bool, serverName string) (SSL, error) {
	if ctx == nil {
		return nil, errors.New("nil ssl context")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ssl := C.SSL_new(ctx)
	if ssl == nil {
		return nil, nativeError("SSL_new")
	}

	rbio := C.BIO_new(C.BIO_s_mem())
	wbio := C.BIO_new(C.BIO_s_mem())
	if rbio == nil || wbio == nil {
		err := nativeError("BIO_new")
		if rbio != nil {
			C.BIO_free(rbio)
		}
		if wbio != nil {
			C.BIO_free(wbio)
		}
		C.SSL_free(ssl)
		return nil, err
	}
	// An empty memory BIO must report retryable-empty, not EOF, so the
	// handshake state machine keeps asking for more transport bytes.
	// BIO_set_mem_eof_return is a macro over BIO_ctrl.
	C.BIO_ctrl(rbio, C.BIO_C_SET_BUF_MEM_EOF_RETURN, -1, nil)
	C.BIO_ctrl(wbio, C.BIO_C_SET_BUF_MEM_EOF_RETURN, -1, nil)

	// SSL_set_bio transfers ownership of both BIOs to the SSL handle.
	C.SSL_set_bio(ssl, rbio, wbio)

	if client {
		C.SSL_set_connect_state(ssl)
		if serverName != "" {
			cname := C.CString(serverName)
			defer C.free(unsafe.Pointer(cname))
			// SSL_set_tlsext_host_name is a macro over SSL_ctrl.
			if C.SSL_ctrl(ssl, C.SSL_CTRL_SET_TLSEXT_HOSTNAME,
				C.TLSEXT_NAMETYPE_host_name, unsafe.Pointer(cname)) != 1 {
				err := nativeError("SSL_CTRL_SET_TLSEXT_HOSTNAME")
				C.SSL_free(ssl)
				return nil, err
			}
			if C.SSL_set1_host(ssl, cname) != 1 {
				err := nativeError("SSL_set1_host")
				C.SSL_free(ssl)
				return nil, err
			}
		}
	} else {
		C.SSL_set_accept_state(ssl)
	}
	return ssl, nil
}

// SSLFree releases a connection handle together with its BIO pair. Safe on
// nil.
func SSLFree(ssl SSL) {
	if ssl != nil {
		C.SSL_free(ssl)
	}
}

// SSLHandshake advances the handshake. It returns nil when the handshake
// is complete, ErrWantRead/ErrWantWrite when the transport must move bytes
// first, and a NativeError otherwise.
func SSLHandshake(ssl SSL) error {
	if ssl == nil {
		return errors.New("nil ssl")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	rc := C.SSL_do_handshake(ssl)
	if rc == 1 {
		return nil
	}
	return sslError(ssl, rc, "SSL_do_handshake")
}

// SSLRead moves decrypted application bytes into p.
func SSLRead(ssl SSL, p []byte) (int, error) {
	if ssl == nil {
		return 0, errors.New("nil ssl")
	}
	if len(p) == 0 {
		return 0, nil
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	rc := C.SSL_read(ssl, unsafe.Pointer(&p[0]), C.int(len(p)))
	if rc > 0 {
		return int(rc), nil
	}
	return 0, sslError(ssl, rc, "SSL_read")
}

// SSLWrite submits plaintext for encryption; the TLS records appear on the
// outgoing BIO.
func SSLWrite(ssl SSL, p []byte) (int, error) {
	if ssl == nil {
		return 0, errors.New("nil ssl")
	}
	if len(p) == 0 {
		return 0, nil
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	rc := C.SSL_write(ssl, unsafe.Pointer(&p[0]), C.int(len(p)))
	if rc > 0 {
		return int(rc), nil
	}
	return 0, sslError(ssl, rc, "SSL_write")
}

// SSLShutdown sends close_notify. ErrWantRead means the alert was queued
// but the peer's close_notify has not arrived yet.
func SSLShutdown(ssl SSL) error {
	if ssl == nil {
		return errors.New("nil ssl")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	rc := C.SSL_shutdown(ssl)
	switch {
	case rc == 1:
		return nil
	case rc == 0:
		return ErrWantRead
	default:
		return sslError(ssl, rc, "SSL_shutdown")
	}
}

// SSLTakeOutgoing drains the TLS records queued on the outgoing BIO. The
// caller sends them to the peer verbatim.
func SSLTakeOutgoing(ssl SSL) []byte {
	if ssl == nil {
		return nil
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	return bioReadAll(C.SSL_get_wbio(ssl))
}

// SSLFeedIncoming appends transport bytes received from the peer to the
// incoming BIO.
func SSLFeedIncoming(ssl SSL, data []byte) error {
	if ssl == nil {
		return errors.New("nil ssl")
	}
	if len(data) == 0 {
		return nil
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if C.BIO_write(C.SSL_get_rbio(ssl), unsafe.Pointer(&data[0]), C.int(len(data))) != C.int(len(data)) {
		return nativeError("BIO_write")
	}
	return nil
}

// SSLPeerCert returns the peer's leaf certificate. The certificate must be
// freed with CertFree.
func SSLPeerCert(ssl SSL) (Cert, error) {
	if ssl == nil {
		return nil, errors.New("nil ssl")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	cert := C.SSL_get1_peer_certificate(ssl)
	if cert == nil {
		if entries := drainEntries(); len(entries) > 0 {
			return nil, &NativeError{Op: "SSL_get1_peer_certificate", Entries: entries}
		}
		return nil, errors.New("no peer certificate")
	}
	return cert, nil
}

// SSLVersionString reports the negotiated protocol version.
func SSLVersionString(ssl SSL) string {
	if ssl == nil {
		return ""
	}
	return C.GoString(C.SSL_get_version(ssl))
}

// sslError maps a non-positive SSL_* return to the package's error model.
// Must run on the OS thread of the failing call.
func sslError(ssl SSL, rc C.int, op string) error {
	switch C.SSL_get_error(ssl, rc) {
	case C.SSL_ERROR_WANT_READ:
		return ErrWantRead
	case C.SSL_ERROR_WANT_WRITE:
		return ErrWantWrite
	case C.SSL_ERROR_ZERO_RETURN:
		return ErrShutdown
	default:
		if entries := drainEntries(); len(entries) > 0 {
			return &NativeError{Op: op, Entries: entries}
		}
		return &NativeError{Op: op}
	}
}
