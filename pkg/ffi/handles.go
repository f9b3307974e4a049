package ffi

// #include "plink.h"
import "C"
import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/plinkurl/plink/pkg/plink"
)

// handleManager manages engine handles with thread safety. Engines are
// immutable once constructed, so a handle may be used concurrently from any
// number of interceptor threads.
var handleManager = &engineHandles{
	engines: make(map[C.int]*plink.Engine),
}

type engineHandles struct {
	mu      sync.RWMutex
	engines map[C.int]*plink.Engine
	nextID  C.int
}

func (h *engineHandles) add(e *plink.Engine) C.int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	h.engines[h.nextID] = e
	return h.nextID
}

func (h *engineHandles) get(id C.int) (*plink.Engine, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.engines[id]
	return e, ok
}

func (h *engineHandles) remove(id C.int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.engines, id)
}

// === Engine Handles ===

//export plink_engine_new
func plink_engine_new(optionsJSON *C.char) C.int {
	opts := plink.DefaultOptions()
	if optionsJSON != nil {
		if err := json.Unmarshal([]byte(C.GoString(optionsJSON)), &opts); err != nil {
			return -1
		}
	}

	engine, err := plink.New(plink.WithOptions(opts))
	if err != nil {
		return -1
	}

	return handleManager.add(engine)
}

//export plink_engine_clean
func plink_engine_clean(handle C.int, url *C.char) C.PlinkResult {
	engine, ok := handleManager.get(handle)
	if !ok {
		return makeError(fmt.Sprintf("invalid engine handle: %d", handle))
	}

	result, err := engine.Clean(C.GoString(url))
	if err != nil {
		return makeError(err.Error())
	}

	return marshalResult(result)
}

//export plink_engine_free
func plink_engine_free(handle C.int) {
	handleManager.remove(handle)
}
