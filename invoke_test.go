// invoke_test.go: tests for the foreign-call contract
//
// The plugin side of the boundary is played by in-process ProcessFn stubs
// that honor (or deliberately violate) the documented contract, which lets
// every invocation property run without building native libraries.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package goimgproc

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityPlugin conforms to the contract and leaves the buffer unchanged.
func identityPlugin(width, height uint32, pixels, params unsafe.Pointer) int32 {
	return 0
}

// invertPlugin flips every byte of the buffer in place.
func invertPlugin(width, height uint32, pixels, params unsafe.Pointer) int32 {
	buf := rawPixels(pixels, width, height)
	for i := range buf {
		buf[i] = ^buf[i]
	}
	return 0
}

func TestInvoke_IdentityRoundTrip(t *testing.T) {
	buf, err := NewPixelBuffer(2, 2)
	require.NoError(t, err)
	params, err := NewParams("radius=0")
	require.NoError(t, err)

	invoker := NewInvoker(nil)
	require.NoError(t, invoker.Invoke(identityPlugin, buf, params))

	assert.Equal(t, make([]byte, 16), buf.Pix, "identity plugin must leave the buffer byte-identical")

	snap := invoker.Metrics()
	assert.Equal(t, int64(1), snap.Total)
	assert.Equal(t, int64(0), snap.Failures)
}

func TestInvoke_InvertPlugin(t *testing.T) {
	buf, err := NewPixelBuffer(2, 2)
	require.NoError(t, err)

	invoker := NewInvoker(nil)
	require.NoError(t, invoker.Invoke(invertPlugin, buf, nil))

	expected := make([]byte, 16)
	for i := range expected {
		expected[i] = 0xFF
	}
	assert.Equal(t, expected, buf.Pix)

	// Inverting twice restores the input.
	require.NoError(t, invoker.Invoke(invertPlugin, buf, nil))
	assert.Equal(t, make([]byte, 16), buf.Pix)
}

func TestInvoke_ParamsCrossAsCString(t *testing.T) {
	var received string
	capture := func(width, height uint32, pixels, params unsafe.Pointer) int32 {
		received = cString(params)
		return 0
	}

	buf, err := NewPixelBuffer(2, 2)
	require.NoError(t, err)
	params, err := NewParams("radius=0")
	require.NoError(t, err)

	require.NoError(t, NewInvoker(nil).Invoke(capture, buf, params))
	assert.Equal(t, "radius=0", received)
}

func TestInvoke_AbsentParamsCrossAsNull(t *testing.T) {
	nullTolerant := func(width, height uint32, pixels, params unsafe.Pointer) int32 {
		if params != nil {
			return 1
		}
		return 0
	}

	buf, err := NewPixelBuffer(2, 2)
	require.NoError(t, err)
	assert.NoError(t, NewInvoker(nil).Invoke(nullTolerant, buf, nil))
}

func TestInvoke_SafetyViolationNeverReachesPlugin(t *testing.T) {
	entered := false
	recorder := func(width, height uint32, pixels, params unsafe.Pointer) int32 {
		entered = true
		return 0
	}

	invoker := NewInvoker(nil)

	t.Run("size mismatch", func(t *testing.T) {
		buf := &PixelBuffer{Width: 2, Height: 2, Pix: make([]byte, 15)}
		assertErrorCode(t, invoker.Invoke(recorder, buf, nil), ErrCodeBufferSizeMismatch)
		assert.False(t, entered, "plugin must not be entered on a safety violation")
	})

	t.Run("zero dimensions", func(t *testing.T) {
		buf := &PixelBuffer{Width: 0, Height: 2, Pix: nil}
		assertErrorCode(t, invoker.Invoke(recorder, buf, nil), ErrCodeZeroDimensions)
		assert.False(t, entered)
	})

	snap := invoker.Metrics()
	assert.Equal(t, int64(2), snap.SafetyViolations)
	assert.Equal(t, int64(0), snap.Total, "refused invocations do not count as calls")
}

func TestInvoke_NilProcessFn(t *testing.T) {
	buf, err := NewPixelBuffer(2, 2)
	require.NoError(t, err)
	assertErrorCode(t, NewInvoker(nil).Invoke(nil, buf, nil), ErrCodeNilProcessFn)
}

func TestInvoke_NonzeroStatusPropagates(t *testing.T) {
	failing := func(width, height uint32, pixels, params unsafe.Pointer) int32 {
		return 7
	}

	buf, err := NewPixelBuffer(2, 2)
	require.NoError(t, err)

	invoker := NewInvoker(nil)
	structured := assertErrorCode(t, invoker.Invoke(failing, buf, nil), ErrCodePluginStatus)
	assert.Equal(t, int32(7), structured.Context["status_code"])

	snap := invoker.Metrics()
	assert.Equal(t, int64(1), snap.Total)
	assert.Equal(t, int64(1), snap.Failures)
}

func TestInvoke_PanicTrappedAtBoundary(t *testing.T) {
	panicking := func(width, height uint32, pixels, params unsafe.Pointer) int32 {
		panic("plugin exploded")
	}

	buf, err := NewPixelBuffer(2, 2)
	require.NoError(t, err)

	logger := NewTestLogger()
	invoker := NewInvoker(logger)
	assertErrorCode(t, invoker.Invoke(panicking, buf, nil), ErrCodePluginPanic)
	assert.True(t, logger.HasMessage("ERROR", "Panic trapped at plugin boundary"))

	snap := invoker.Metrics()
	assert.Equal(t, int64(1), snap.PanicsTrapped)
	assert.Equal(t, int64(1), snap.Failures)
}

func TestInvokeHandle_ClosedHandleRejected(t *testing.T) {
	h := &PluginHandle{name: "stub", closed: true}
	buf, err := NewPixelBuffer(2, 2)
	require.NoError(t, err)

	assertErrorCode(t, NewInvoker(nil).InvokeHandle(h, buf, nil), ErrCodeHandleClosed)
}

func TestInvokeHandle_SerializesInvocations(t *testing.T) {
	var active, overlaps atomic.Int32
	slow := func(width, height uint32, pixels, params unsafe.Pointer) int32 {
		if active.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(time.Millisecond)
		active.Add(-1)
		return 0
	}

	// A handle with a pre-resolved callable; no library is involved.
	h := &PluginHandle{name: "stub", process: slow}
	invoker := NewInvoker(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf, err := NewPixelBuffer(4, 4)
			require.NoError(t, err)
			assert.NoError(t, invoker.InvokeHandle(h, buf, nil))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(0), overlaps.Load(), "invocations through one handle must never overlap")
	assert.Equal(t, int64(8), invoker.Metrics().Total)
}

func TestInvokeHandle_CloseSequencedAfterInvocation(t *testing.T) {
	release := make(chan struct{})
	var inFlight atomic.Bool
	blocking := func(width, height uint32, pixels, params unsafe.Pointer) int32 {
		inFlight.Store(true)
		<-release
		inFlight.Store(false)
		return 0
	}

	h := &PluginHandle{name: "stub", process: blocking}
	buf, err := NewPixelBuffer(2, 2)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- NewInvoker(nil).InvokeHandle(h, buf, nil)
	}()

	for !inFlight.Load() {
		time.Sleep(time.Millisecond)
	}

	closed := make(chan struct{})
	go func() {
		_ = h.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while an invocation was still in flight")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-done)
	<-closed
	assertErrorCode(t, NewInvoker(nil).InvokeHandle(h, buf, nil), ErrCodeHandleClosed)
}
