//go:build cgo && !windows

package backend

/*
#include <stdlib.h>
#include <openssl/evp.h>
#include <openssl/ec.h>
#include <openssl/rsa.h>
#include <openssl/x509.h>
#include <openssl/core_names.h>
#include <openssl/obj_mac.h>
*/
import "C"

import (
	"errors"
	"runtime"
	"unsafe"
)

// PKey is a type alias for *C.EVP_PKEY.
type PKey = *C.EVP_PKEY

// PKeyGenerateEC generates an EC key pair on the named curve (for example
// "prime256v1" or "secp256k1"). The key must be freed with PKeyFree.
func PKeyGenerateEC(curve string) (PKey, error) {
	cname := C.CString(curve)
	defer C.free(unsafe.Pointer(cname))

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	nid := C.OBJ_txt2nid(cname)
	if nid == C.NID_undef {
		return nil, nativeError("OBJ_txt2nid")
	}

	ctx := C.EVP_PKEY_CTX_new_id(C.EVP_PKEY_EC, nil)
	if ctx == nil {
		return nil, nativeError("EVP_PKEY_CTX_new_id")
	}
	defer C.EVP_PKEY_CTX_free(ctx)

	if C.EVP_PKEY_keygen_init(ctx) != 1 {
		return nil, nativeError("EVP_PKEY_keygen_init")
	}
	if C.EVP_PKEY_CTX_set_ec_paramgen_curve_nid(ctx, nid) != 1 {
		return nil, nativeError("EVP_PKEY_CTX_set_ec_paramgen_curve_nid")
	}
	var pkey PKey
	if C.EVP_PKEY_keygen(ctx, &pkey) != 1 {
		return nil, nativeError("EVP_PKEY_keygen")
	}
	return pkey, nil
}

// PKeyGenerateRSA generates an RSA key pair with the given modulus size.
// The key must be freed with PKeyFree.
func PKeyGenerateRSA(bits int) (PKey, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ctx := C.EVP_PKEY_CTX_new_id(C.EVP_PKEY_RSA, nil)
	if ctx == nil {
		return nil, nativeError("EVP_PKEY_CTX_new_id")
	}
	defer C.EVP_PKEY_CTX_free(ctx)

	if C.EVP_PKEY_keygen_init(ctx) != 1 {
		return nil, nativeError("EVP_PKEY_keygen_init")
	}
	if C.EVP_PKEY_CTX_set_rsa_keygen_bits(ctx, C.int(bits)) != 1 {
		return nil, nativeError("EVP_PKEY_CTX_set_rsa_keygen_bits")
	}
	var pkey PKey
	if C.EVP_PKEY_keygen(ctx, &pkey) != 1 {
		return nil, nativeError("EVP_PKEY_keygen")
	}
	return pkey, nil
}

// PKeyFree releases an EVP_PKEY. Safe on nil.
func PKeyFree(pkey PKey) {
	if pkey != nil {
		C.EVP_PKEY_free(pkey)
	}
}

// PKeySign signs msg with the key, hashing it with the named digest, and
// returns the signature in the key type's standard encoding (DER ECDSA-Sig
// for EC, PKCS#1 v1.5 for RSA).
func PKeySign(pkey PKey, mdName string, msg []byte) ([]byte, error) {
	if pkey == nil {
		return nil, errors.New("nil pkey")
	}
	cmd := C.CString(mdName)
	defer C.free(unsafe.Pointer(cmd))

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	md := C.EVP_get_digestbyname(cmd)
	if md == nil {
		return nil, nativeError("EVP_get_digestbyname")
	}
	ctx := C.EVP_MD_CTX_new()
	if ctx == nil {
		return nil, nativeError("EVP_MD_CTX_new")
	}
	defer C.EVP_MD_CTX_free(ctx)

	if C.EVP_DigestSignInit(ctx, nil, md, nil, pkey) != 1 {
		return nil, nativeError("EVP_DigestSignInit")
	}
	var sigLen C.size_t
	if C.EVP_DigestSign(ctx, nil, &sigLen, bytePtr(msg), C.size_t(len(msg))) != 1 {
		return nil, nativeError("EVP_DigestSign")
	}
	sig := make([]byte, sigLen)
	if C.EVP_DigestSign(ctx, bytePtr(sig), &sigLen, bytePtr(msg), C.size_t(len(msg))) != 1 {
		return nil, nativeError("EVP_DigestSign")
	}
	return sig[:sigLen], nil
}

// PKeyVerify checks sig over msg. A clean mismatch returns ErrVerify; an
// operational failure surfaces the native error queue.
func PKeyVerify(pkey PKey, mdName string, msg, sig []byte) error {
	if pkey == nil {
		return errors.New("nil pkey")
	}
	cmd := C.CString(mdName)
	defer C.free(unsafe.Pointer(cmd))

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	md := C.EVP_get_digestbyname(cmd)
	if md == nil {
		return nativeError("EVP_get_digestbyname")
	}
	ctx := C.EVP_MD_CTX_new()
	if ctx == nil {
		return nativeError("EVP_MD_CTX_new")
	}
	defer C.EVP_MD_CTX_free(ctx)

	if C.EVP_DigestVerifyInit(ctx, nil, md, nil, pkey) != 1 {
		return nativeError("EVP_DigestVerifyInit")
	}
	rc := C.EVP_DigestVerify(ctx, bytePtr(sig), C.size_t(len(sig)), bytePtr(msg), C.size_t(len(msg)))
	switch {
	case rc == 1:
		return nil
	case rc == 0:
		// The queue may still hold entries for a malformed signature; they
		// take precedence over the plain mismatch sentinel.
		if entries := drainEntries(); len(entries) > 0 {
			return &NativeError{Op: "EVP_DigestVerify", Entries: entries}
		}
		return ErrVerify
	default:
		return nativeError("EVP_DigestVerify")
	}
}

// PKeyPrivateDER serializes the private key in DER (PKCS#8-compatible
// key-type encoding as chosen by i2d_PrivateKey).
func PKeyPrivateDER(pkey PKey) ([]byte, error) {
	if pkey == nil {
		return nil, errors.New("nil pkey")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	bio := newMemBIO(nil)
	if bio == nil {
		return nil, nativeError("BIO_new")
	}
	defer C.BIO_free(bio)

	if C.i2d_PrivateKey_bio(bio, pkey) != 1 {
		return nil, nativeError("i2d_PrivateKey_bio")
	}
	return bioReadAll(bio), nil
}

// PKeyPublicDER serializes the public half in SubjectPublicKeyInfo DER.
func PKeyPublicDER(pkey PKey) ([]byte, error) {
	if pkey == nil {
		return nil, errors.New("nil pkey")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	bio := newMemBIO(nil)
	if bio == nil {
		return nil, nativeError("BIO_new")
	}
	defer C.BIO_free(bio)

	if C.i2d_PUBKEY_bio(bio, pkey) != 1 {
		return nil, nativeError("i2d_PUBKEY_bio")
	}
	return bioReadAll(bio), nil
}

// PKeyFromPrivateDER parses a DER private key. The key must be freed with
// PKeyFree.
func PKeyFromPrivateDER(der []byte) (PKey, error) {
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

	pkey := C.d2i_PrivateKey_bio(bio, nil)
	if pkey == nil {
		return nil, nativeError("d2i_PrivateKey_bio")
	}
	return pkey, nil
}

// PKeyFromPublicDER parses a SubjectPublicKeyInfo DER public key. The key
// must be freed with PKeyFree.
func PKeyFromPublicDER(der []byte) (PKey, error) {
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

	pkey := C.d2i_PUBKEY_bio(bio, nil)
	if pkey == nil {
		return nil, nativeError("d2i_PUBKEY_bio")
	}
	return pkey, nil
}

// PKeyPublicPoint returns the uncompressed EC public point encoding
// (0x04 || X || Y) for an EC key.
func PKeyPublicPoint(pkey PKey) ([]byte, error) {
	if pkey == nil {
		return nil, errors.New("nil pkey")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	name := C.CString(C.OSSL_PKEY_PARAM_ENCODED_PUBLIC_KEY)
	defer C.free(unsafe.Pointer(name))

	var need C.size_t
	if C.EVP_PKEY_get_octet_string_param(pkey, name, nil, 0, &need) != 1 {
		return nil, nativeError("EVP_PKEY_get_octet_string_param")
	}
	out := make([]byte, need)
	if C.EVP_PKEY_get_octet_string_param(pkey, name, bytePtr(out), need, &need) != 1 {
		return nil, nativeError("EVP_PKEY_get_octet_string_param")
	}
	return out[:need], nil
}

// PKeyGroupName returns the curve group name of an EC key.
func PKeyGroupName(pkey PKey) (string, error) {
	if pkey == nil {
		return "", errors.New("nil pkey")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	buf := make([]byte, 64)
	var need C.size_t
	if C.EVP_PKEY_get_group_name(pkey, (*C.char)(unsafe.Pointer(&buf[0])), C.size_t(len(buf)), &need) != 1 {
		return "", nativeError("EVP_PKEY_get_group_name")
	}
	return string(buf[:need]), nil
}
