//go:build !cgo || windows

package backend

import (
	"time"
	"unsafe"
)

// Stub implementations for non-CGO builds or Windows. These allow the
// package to compile but return ErrNotBuilt when called. Error types and
// sentinels live in types.go, which carries no build tag, so callers can
// still match against them.

// Version returns the version string of the linked library, or empty when
// the bindings were not built.
func Version() string { return "" }

func VersionNumber() uint64 { return 0 }

func DrainErrors() []Entry { return nil }

func PutErrors([]Entry) {}

func RandBytes([]byte) error { return ErrNotBuilt }

func KeepRandomDevicesOpen(bool) {}

// MDCtx is a stub type for non-CGO builds.
type MDCtx = unsafe.Pointer

func MDCtxNew(string) (MDCtx, error) { return nil, ErrNotBuilt }

func MDCtxUpdate(MDCtx, []byte) error { return ErrNotBuilt }

func MDCtxFinal(MDCtx) ([]byte, error) { return nil, ErrNotBuilt }

func MDCtxSize(MDCtx) int { return 0 }

func MDCtxFree(MDCtx) {}

func AEADSeal(string, []byte, []byte, []byte, []byte) ([]byte, []byte, error) {
	return nil, nil, ErrNotBuilt
}

func AEADOpen(string, []byte, []byte, []byte, []byte, []byte) ([]byte, error) {
	return nil, ErrNotBuilt
}

// BigNum is a stub type for non-CGO builds.
type BigNum = unsafe.Pointer

func BNFromDec(string) (BigNum, error) { return nil, ErrNotBuilt }

func BNFromBytes([]byte) (BigNum, error) { return nil, ErrNotBuilt }

func BNToDec(BigNum) (string, error) { return "", ErrNotBuilt }

func BNToBytes(BigNum) ([]byte, error) { return nil, ErrNotBuilt }

func BNAdd(BigNum, BigNum) (BigNum, error) { return nil, ErrNotBuilt }

func BNSub(BigNum, BigNum) (BigNum, error) { return nil, ErrNotBuilt }

func BNMul(BigNum, BigNum) (BigNum, error) { return nil, ErrNotBuilt }

func BNModExp(BigNum, BigNum, BigNum) (BigNum, error) { return nil, ErrNotBuilt }

func BNCmp(BigNum, BigNum) int { return 0 }

func BNFree(BigNum) {}

// PKey is a stub type for non-CGO builds.
type PKey = unsafe.Pointer

func PKeyGenerateEC(string) (PKey, error) { return nil, ErrNotBuilt }

func PKeyGenerateRSA(int) (PKey, error) { return nil, ErrNotBuilt }

func PKeyFree(PKey) {}

func PKeySign(PKey, string, []byte) ([]byte, error) { return nil, ErrNotBuilt }

func PKeyVerify(PKey, string, []byte, []byte) error { return ErrNotBuilt }

func PKeyPrivateDER(PKey) ([]byte, error) { return nil, ErrNotBuilt }

func PKeyPublicDER(PKey) ([]byte, error) { return nil, ErrNotBuilt }

func PKeyFromPrivateDER([]byte) (PKey, error) { return nil, ErrNotBuilt }

func PKeyFromPublicDER([]byte) (PKey, error) { return nil, ErrNotBuilt }

func PKeyPublicPoint(PKey) ([]byte, error) { return nil, ErrNotBuilt }

func PKeyGroupName(PKey) (string, error) { return "", ErrNotBuilt }

// Cert is a stub type for non-CGO builds.
type Cert = unsafe.Pointer

// CertStore is a stub type for non-CGO builds.
type CertStore = unsafe.Pointer

func CertFromPEM([]byte) (Cert, error) { return nil, ErrNotBuilt }

func CertFromDER([]byte) (Cert, error) { return nil, ErrNotBuilt }

func CertToDER(Cert) ([]byte, error) { return nil, ErrNotBuilt }

func CertToPEM(Cert) ([]byte, error) { return nil, ErrNotBuilt }

func CertFree(Cert) {}

func CertSubject(Cert) (string, error) { return "", ErrNotBuilt }

func CertIssuer(Cert) (string, error) { return "", ErrNotBuilt }

func CertSerialDec(Cert) (string, error) { return "", ErrNotBuilt }

func CertNotBefore(Cert) (time.Time, error) { return time.Time{}, ErrNotBuilt }

func CertNotAfter(Cert) (time.Time, error) { return time.Time{}, ErrNotBuilt }

func CertPublicKey(Cert) (PKey, error) { return nil, ErrNotBuilt }

func StoreNew() (CertStore, error) { return nil, ErrNotBuilt }

func StoreFree(CertStore) {}

func StoreAddCert(CertStore, Cert) error { return ErrNotBuilt }

func StoreVerifyCert(CertStore, Cert, []Cert) error { return ErrNotBuilt }

// SSLCtx is a stub type for non-CGO builds.
type SSLCtx = unsafe.Pointer

// SSL is a stub type for non-CGO builds.
type SSL = unsafe.Pointer

func SSLCtxNew() (SSLCtx, error) { return nil, ErrNotBuilt }

func SSLCtxFree(SSLCtx) {}

func SSLCtxSetMinTLSVersion(SSLCtx, uint16) error { return ErrNotBuilt }

func SSLCtxSetVerifyPeer(SSLCtx, bool) {}

func SSLCtxSetDefaultVerifyPaths(SSLCtx) error { return ErrNotBuilt }

func SSLCtxAddTrustedCert(SSLCtx, Cert) error { return ErrNotBuilt }

func SSLCtxUseCertificatePEM(SSLCtx, []byte) error { return ErrNotBuilt }

func SSLCtxUsePrivateKeyPEM(SSLCtx, []byte) error { return ErrNotBuilt }

func SSLNew(SSLCtx, bool, string) (SSL, error) { return nil, ErrNotBuilt }

func SSLFree(SSL) {}

func SSLHandshake(SSL) error { return ErrNotBuilt }

func SSLRead(SSL, []byte) (int, error) { return 0, ErrNotBuilt }

func SSLWrite(SSL, []byte) (int, error) { return 0, ErrNotBuilt }

func SSLShutdown(SSL) error { return ErrNotBuilt }

func SSLTakeOutgoing(SSL) []byte { return nil }

func SSLFeedIncoming(SSL, []byte) error { return ErrNotBuilt }

func SSLPeerCert(SSL) (Cert, error) { return nil, ErrNotBuilt }

func SSLVersionString(SSL) string { return "" }
