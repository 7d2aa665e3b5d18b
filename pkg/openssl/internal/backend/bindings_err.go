//go:build cgo && !windows

package backend

/*
#include <stdlib.h>
#include <openssl/err.h>

// ERR_set_error is variadic, which cgo cannot call directly. This helper
// rebuilds one queue entry from its unpacked parts.
static void go_err_put(int lib, int reason, const char *file, int line,
                       const char *func, const char *data) {
	ERR_new();
	ERR_set_debug(file, line, func);
	if (data == NULL) {
		ERR_set_error(lib, reason, NULL);
	} else {
		ERR_set_error(lib, reason, "%s", data);
	}
}

static int go_err_lib(unsigned long code)    { return ERR_GET_LIB(code); }
static int go_err_reason(unsigned long code) { return ERR_GET_REASON(code); }
*/
import "C"

import (
	"runtime"
	"unsafe"
)

// drainEntries empties the error queue of the current OS thread, oldest
// entry first. Callers must hold the OS thread on which the failing native
// call ran, otherwise the queue being drained is some other thread's.
func drainEntries() []Entry {
	var entries []Entry
	for {
		var (
			file, fn, data *C.char
			line, flags    C.int
		)
		code := C.ERR_get_error_all(&file, &line, &fn, &data, &flags)
		if code == 0 {
			return entries
		}
		e := Entry{
			Code: uint64(code),
			File: C.GoString(file),
			Line: int(line),
		}
		if lib := C.ERR_lib_error_string(C.ulong(code)); lib != nil {
			e.Library = C.GoString(lib)
		}
		if fn != nil {
			e.Function = C.GoString(fn)
		}
		if reason := C.ERR_reason_error_string(C.ulong(code)); reason != nil {
			e.Reason = C.GoString(reason)
		}
		// The data pointer is only valid until the slot is reused, and only
		// meaningful when the string flag is set.
		if flags&C.ERR_TXT_STRING != 0 && data != nil {
			e.Data = C.GoString(data)
		}
		entries = append(entries, e)
	}
}

// nativeError captures the current thread's error queue into a NativeError
// for the failed operation op. The caller must still hold the OS thread of
// the failing call.
func nativeError(op string) error {
	return &NativeError{Op: op, Entries: drainEntries()}
}

// DrainErrors empties the calling goroutine's native error queue. The
// goroutine is pinned to its OS thread for the duration of the drain.
func DrainErrors() []Entry {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	return drainEntries()
}

// PutErrors pushes previously drained entries back onto the native error
// queue, oldest first, mirroring ERR_put_error semantics.
func PutErrors(entries []Entry) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	for _, e := range entries {
		var data *C.char
		if e.Data != "" {
			data = C.CString(e.Data)
		}
		// The queue retains the file and function pointers verbatim, so
		// these C strings must outlive the error slot and are intentionally
		// never freed.
		C.go_err_put(
			C.go_err_lib(C.ulong(e.Code)),
			C.go_err_reason(C.ulong(e.Code)),
			C.CString(e.File),
			C.int(e.Line),
			C.CString(e.Function),
			data,
		)
		// ERR_set_error copies the data through its format string, so the
		// temporary is safe to release.
		if data != nil {
			C.free(unsafe.Pointer(data))
		}
	}
}
