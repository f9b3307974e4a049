// Package ffi provides C FFI exports for the plink cleaning engine.
//
// Build with:
//
//	CGO_ENABLED=1 go build -buildmode=c-shared -o libplink.so ./pkg/ffi/
//
// All inputs/outputs are C strings. Structured data is JSON-serialized:
// options use the Options JSON form, results the Result JSON form. Callers
// must free every PlinkResult with plink_result_free.
//
// A request interceptor should construct one engine via plink_engine_new and
// reuse it for every intercepted request; plink_clean and plink_clean_simple
// exist for one-shot callers and share a process-wide default engine.
package ffi

// #include "plink.h"
import "C"
import (
	"encoding/json"
	"unsafe"

	"github.com/plinkurl/plink/pkg/plink"
)

//export plink_clean
func plink_clean(url *C.char, optionsJSON *C.char) C.PlinkResult {
	opts := plink.DefaultOptions()
	if optionsJSON != nil {
		if err := json.Unmarshal([]byte(C.GoString(optionsJSON)), &opts); err != nil {
			return makeError("invalid options: " + err.Error())
		}
	}

	engine, err := plink.Default()
	if err != nil {
		return makeError(err.Error())
	}

	result, err := engine.CleanWithOptions(C.GoString(url), opts)
	if err != nil {
		return makeError(err.Error())
	}

	return marshalResult(result)
}

//export plink_clean_simple
func plink_clean_simple(url *C.char) C.PlinkResult {
	result, err := plink.CleanURL(C.GoString(url))
	if err != nil {
		return makeError(err.Error())
	}
	return makeResult(result.URL)
}

//export plink_default_options
func plink_default_options() C.PlinkResult {
	data, err := json.Marshal(plink.DefaultOptions())
	if err != nil {
		return makeError(err.Error())
	}
	return makeResult(string(data))
}

// === Memory Management ===

//export plink_result_free
func plink_result_free(result C.PlinkResult) {
	if result.data != nil {
		C.free(unsafe.Pointer(result.data))
	}
	if result.error != nil {
		C.free(unsafe.Pointer(result.error))
	}
}

// helpers

func marshalResult(result *plink.Result) C.PlinkResult {
	data, err := json.Marshal(result)
	if err != nil {
		return makeError(err.Error())
	}
	return makeResult(string(data))
}

func makeResult(data string) C.PlinkResult {
	return C.PlinkResult{
		data:  C.CString(data),
		len:   C.int(len(data)),
		error: nil,
	}
}

func makeError(msg string) C.PlinkResult {
	return C.PlinkResult{
		data:  nil,
		len:   0,
		error: C.CString(msg),
	}
}

// main is required for c-shared build mode but should not be called.
func main() {}
