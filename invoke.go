// invoke.go: the single foreign call and its safety contract
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"runtime"
	"unsafe"

	"github.com/agilira/go-timecache"
)

// Invoker performs plugin invocations under the host's safety contract.
//
// An invocation is synchronous and blocking: there is no timeout and no
// cancellation. Once the foreign call is made it runs to completion or the
// process faults; the design does not attempt to interrupt a misbehaving
// plugin.
type Invoker struct {
	logger  Logger
	metrics *InvocationMetrics
}

// NewInvoker creates an invoker. The logger may be a Logger implementation
// or nil.
func NewInvoker(logger any) *Invoker {
	return &Invoker{
		logger:  NewLogger(logger),
		metrics: NewInvocationMetrics(),
	}
}

// Metrics returns a snapshot of the invoker's counters.
func (iv *Invoker) Metrics() InvocationMetricsSnapshot {
	return iv.metrics.Snapshot()
}

// Invoke performs exactly one foreign call to fn with the buffer's
// dimensions, a transient raw view of its pixels, and the optional
// parameter payload.
//
// The contract, step by step:
//  1. Buffer invariants are validated first; on violation a SAFETY_* error
//     is returned and the plugin is never entered.
//  2. params, if non-nil, is encoded as a NUL-terminated UTF-8 byte
//     sequence owned by this call; a nil params passes a null pointer.
//  3. A raw mutable view of the pixels is taken for the call only.
//  4. fn is called once. A nonzero return becomes INVOKE_1301 and the
//     buffer contents are undefined; callers must not reuse them.
//  5. No reference to the raw view survives this function.
func (iv *Invoker) Invoke(fn ProcessFn, buf *PixelBuffer, params *Params) error {
	return iv.invoke(fn, buf, params, "")
}

// InvokeHandle invokes the plugin behind h, resolving and caching its
// process_image export on first use.
//
// Invocations through the same handle are serialized on the handle mutex:
// plugins are assumed non-reentrant unless their documentation says
// otherwise, and this host does not grant exceptions. The same mutex
// orders Close after the last in-flight call.
func (iv *Invoker) InvokeHandle(h *PluginHandle, buf *PixelBuffer, params *Params) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return NewHandleClosedError(h.name)
	}
	if h.process == nil {
		addr, err := h.lookupLocked(ProcessImageSymbol)
		if err != nil {
			return NewSymbolNotFoundError(ProcessImageSymbol, h.name, err)
		}
		h.process = registerProcessFn(addr)
	}
	return iv.invoke(h.process, buf, params, h.name)
}

func (iv *Invoker) invoke(fn ProcessFn, buf *PixelBuffer, params *Params, pluginName string) error {
	if fn == nil {
		iv.metrics.recordSafetyViolation()
		return NewNilProcessFnError()
	}
	if err := buf.Validate(); err != nil {
		iv.metrics.recordSafetyViolation()
		iv.logger.Warn("Invocation refused by pre-call safety check",
			"plugin_name", pluginName,
			"error", err)
		return err
	}

	// The payload backing array is owned by this frame for the duration of
	// the call; terminated() yields nil for absent params, which crosses
	// the boundary as a null pointer.
	paramBytes := params.terminated()
	var paramsPtr unsafe.Pointer
	if paramBytes != nil {
		paramsPtr = unsafe.Pointer(&paramBytes[0])
	}

	start := timecache.CachedTime()
	status, err := iv.call(fn, buf.Width, buf.Height, unsafe.Pointer(&buf.Pix[0]), paramsPtr, pluginName)

	// The raw views above must stay valid until the foreign call returns;
	// these pins are the release point of the transient views, after which
	// no reference to them exists.
	runtime.KeepAlive(buf)
	runtime.KeepAlive(paramBytes)

	if err != nil {
		iv.metrics.recordPanic()
		return err
	}
	if status != 0 {
		iv.metrics.recordFailure()
		iv.logger.Warn("Plugin reported failure",
			"plugin_name", pluginName,
			"status_code", status)
		return NewPluginStatusError(pluginName, status)
	}

	iv.metrics.recordSuccess(timecache.CachedTime().Sub(start))
	iv.logger.Debug("Plugin invocation completed",
		"plugin_name", pluginName,
		"width", buf.Width,
		"height", buf.Height)
	return nil
}

// call crosses the foreign boundary exactly once.
//
// SAFETY: the invariants relied upon at this point, established by the
// caller and checked where the host is able to check them:
//   - pixels is non-null and valid for exactly width*height*4 writable
//     bytes (Validate ran, width and height are nonzero, and the view was
//     taken from the buffer being validated)
//   - no other reference, host or plugin, reads or writes the buffer
//     while the call is in flight (exclusive ownership, plus handle-level
//     serialization in InvokeHandle)
//   - params is either null or points to a NUL-terminated UTF-8 sequence
//     kept alive for the call's duration
//   - both pointers die with this call; the plugin must not retain them
//
// What the host cannot establish is that the export actually has the
// ProcessFn signature and honors the bounds above — that is the plugin
// author's obligation. A panic unwinding out of an in-process Go fn is
// trapped here and converted to an error, because no unwind may cross a
// C-compatible frame; a hard fault in native code is not recoverable and
// terminates the process.
func (iv *Invoker) call(fn ProcessFn, width, height uint32, pixels, params unsafe.Pointer, pluginName string) (status int32, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 64<<10)
			n := runtime.Stack(buf, false)
			iv.logger.Error("Panic trapped at plugin boundary",
				"plugin_name", pluginName,
				"panic", r,
				"stack", string(buf[:n]))
			err = NewPluginPanicError(pluginName, r)
		}
	}()

	return fn(width, height, pixels, params), nil
}
