//go:build cgo && !windows

package backend

/*
#include <stdlib.h>
#include <openssl/evp.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"
)

// fetchCipher resolves an AEAD cipher by name ("AES-256-GCM",
// "ChaCha20-Poly1305") and checks the key buffer against the cipher's
// key length. The init calls read exactly that many bytes from the
// buffer, so the check must happen before the key pointer crosses into
// C. The returned cipher is a library-owned table entry, not a handle
// the caller owns.
func fetchCipher(name string, key []byte) (*C.EVP_CIPHER, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	cipher := C.EVP_get_cipherbyname(cname)
	if cipher == nil {
		return nil, nativeError("EVP_get_cipherbyname")
	}
	if kl := int(C.EVP_CIPHER_get_key_length(cipher)); kl != len(key) {
		return nil, fmt.Errorf("%s needs a %d-byte key, got %d", name, kl, len(key))
	}
	return cipher, nil
}

// AEADSeal encrypts plaintext under key/nonce with the named AEAD cipher,
// binding aad, and returns the ciphertext and the 16-byte tag separately.
func AEADSeal(name string, key, nonce, plaintext, aad []byte) (ct, tag []byte, err error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	cipher, err := fetchCipher(name, key)
	if err != nil {
		return nil, nil, err
	}
	ctx := C.EVP_CIPHER_CTX_new()
	if ctx == nil {
		return nil, nil, nativeError("EVP_CIPHER_CTX_new")
	}
	defer C.EVP_CIPHER_CTX_free(ctx)

	if C.EVP_EncryptInit_ex(ctx, cipher, nil, nil, nil) != 1 {
		return nil, nil, nativeError("EVP_EncryptInit_ex")
	}
	if C.EVP_CIPHER_CTX_ctrl(ctx, C.EVP_CTRL_AEAD_SET_IVLEN, C.int(len(nonce)), nil) != 1 {
		return nil, nil, nativeError("EVP_CTRL_AEAD_SET_IVLEN")
	}
	if C.EVP_EncryptInit_ex(ctx, nil, nil, bytePtr(key), bytePtr(nonce)) != 1 {
		return nil, nil, nativeError("EVP_EncryptInit_ex")
	}

	var outl C.int
	if len(aad) > 0 {
		if C.EVP_EncryptUpdate(ctx, nil, &outl, bytePtr(aad), C.int(len(aad))) != 1 {
			return nil, nil, nativeError("EVP_EncryptUpdate(aad)")
		}
	}

	ct = make([]byte, len(plaintext)+int(C.EVP_MAX_BLOCK_LENGTH))
	total := C.int(0)
	if len(plaintext) > 0 {
		if C.EVP_EncryptUpdate(ctx, bytePtr(ct), &outl, bytePtr(plaintext), C.int(len(plaintext))) != 1 {
			return nil, nil, nativeError("EVP_EncryptUpdate")
		}
		total += outl
	}
	if C.EVP_EncryptFinal_ex(ctx, bytePtr(ct[total:]), &outl) != 1 {
		return nil, nil, nativeError("EVP_EncryptFinal_ex")
	}
	total += outl

	tag = make([]byte, 16)
	if C.EVP_CIPHER_CTX_ctrl(ctx, C.EVP_CTRL_AEAD_GET_TAG, 16, unsafe.Pointer(&tag[0])) != 1 {
		return nil, nil, nativeError("EVP_CTRL_AEAD_GET_TAG")
	}
	return ct[:total], tag, nil
}

// AEADOpen authenticates and decrypts ciphertext produced by AEADSeal.
// A tag mismatch surfaces as ErrAuth; plaintext is never returned in that
// case.
func AEADOpen(name string, key, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	cipher, err := fetchCipher(name, key)
	if err != nil {
		return nil, err
	}
	ctx := C.EVP_CIPHER_CTX_new()
	if ctx == nil {
		return nil, nativeError("EVP_CIPHER_CTX_new")
	}
	defer C.EVP_CIPHER_CTX_free(ctx)

	if C.EVP_DecryptInit_ex(ctx, cipher, nil, nil, nil) != 1 {
		return nil, nativeError("EVP_DecryptInit_ex")
	}
	if C.EVP_CIPHER_CTX_ctrl(ctx, C.EVP_CTRL_AEAD_SET_IVLEN, C.int(len(nonce)), nil) != 1 {
		return nil, nativeError("EVP_CTRL_AEAD_SET_IVLEN")
	}
	if C.EVP_DecryptInit_ex(ctx, nil, nil, bytePtr(key), bytePtr(nonce)) != 1 {
		return nil, nativeError("EVP_DecryptInit_ex")
	}

	var outl C.int
	if len(aad) > 0 {
		if C.EVP_DecryptUpdate(ctx, nil, &outl, bytePtr(aad), C.int(len(aad))) != 1 {
			return nil, nativeError("EVP_DecryptUpdate(aad)")
		}
	}

	pt := make([]byte, len(ciphertext)+int(C.EVP_MAX_BLOCK_LENGTH))
	total := C.int(0)
	if len(ciphertext) > 0 {
		if C.EVP_DecryptUpdate(ctx, bytePtr(pt), &outl, bytePtr(ciphertext), C.int(len(ciphertext))) != 1 {
			return nil, nativeError("EVP_DecryptUpdate")
		}
		total += outl
	}

	if len(tag) > 0 {
		if C.EVP_CIPHER_CTX_ctrl(ctx, C.EVP_CTRL_AEAD_SET_TAG, C.int(len(tag)), unsafe.Pointer(&tag[0])) != 1 {
			return nil, nativeError("EVP_CTRL_AEAD_SET_TAG")
		}
	}

	if C.EVP_DecryptFinal_ex(ctx, bytePtr(pt[total:]), &outl) != 1 {
		// A tag mismatch does not populate the error queue, but anything the
		// provider did report must not be masked.
		if entries := drainEntries(); len(entries) > 0 {
			return nil, &NativeError{Op: "EVP_DecryptFinal_ex", Entries: entries}
		}
		return nil, ErrAuth
	}
	total += outl
	return pt[:total], nil
}

// bytePtr returns a C pointer to the first byte of b, or nil for an empty
// slice.
func bytePtr(b []byte) *C.uchar {
	if len(b) == 0 {
		return nil
	}
	return (*C.uchar)(unsafe.Pointer(&b[0]))
}
