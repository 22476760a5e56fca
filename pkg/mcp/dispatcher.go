package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
	"golang.org/x/sync/semaphore"
)

// Router serves the three MCP methods the dispatcher recognizes. Server
// (server.go) is the concrete implementation.
type Router interface {
	Initialize() (any, error)
	ListTools() ([]Tool, error)
	CallTool(ctx context.Context, name string, args json.RawMessage) (*CallResult, error)
}

// state tracks the dispatcher's lifecycle: Uninitialized -> Initialized ->
// Terminated.
type state int32

const (
	stateUninitialized state = iota
	stateInitialized
	stateTerminated
)

// Dispatcher is the stdio-bound JSON-RPC 2.0 read loop. initialize and
// tools/list are handled inline; tools/call handlers run on a weighted
// semaphore so a pathological client cannot fork unbounded helper
// processes, while the read loop keeps consuming the next line.
type Dispatcher struct {
	router Router
	log    logr.Logger

	writeMu sync.Mutex
	out     *bufio.Writer

	sem *semaphore.Weighted
	wg  sync.WaitGroup

	state atomic.Int32
}

// NewDispatcher builds a dispatcher writing responses to out and bounding
// concurrent tool handlers to maxConcurrency.
func NewDispatcher(router Router, out io.Writer, log logr.Logger, maxConcurrency int64) *Dispatcher {
	if maxConcurrency <= 0 {
		maxConcurrency = 16
	}
	return &Dispatcher{
		router: router,
		log:    log,
		out:    bufio.NewWriter(out),
		sem:    semaphore.NewWeighted(maxConcurrency),
	}
}

// Run reads newline-delimited JSON-RPC requests from in until EOF. The read
// loop itself is single-threaded, so state transitions and response
// ordering relative to request order within a method are easy to reason
// about; only tools/call, the one method that can genuinely block
// (spawning the UI helper, waiting on disk I/O), is handed off to its own
// goroutine on the bounded task executor. Run blocks until every in-flight
// tools/call completes after EOF, then returns nil for a clean shutdown.
func (d *Dispatcher) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		d.handleLine(ctx, append([]byte(nil), line...))
	}

	d.wg.Wait()
	d.state.Store(int32(stateTerminated))

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stdin read error: %w", err)
	}
	return nil
}

func (d *Dispatcher) handleLine(ctx context.Context, line []byte) {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		d.writeError(recoverID(line), CodeParseError, "Parse error")
		return
	}

	id := req.ID
	if len(id) == 0 {
		id = nullID
	}

	if state(d.state.Load()) == stateUninitialized && req.Method != "initialize" {
		d.writeError(id, CodeInternalError, "server has not completed initialize")
		return
	}

	switch req.Method {
	case "initialize":
		result, err := d.router.Initialize()
		if err != nil {
			d.writeError(id, CodeInternalError, err.Error())
			return
		}
		d.state.Store(int32(stateInitialized))
		d.writeResult(id, result)

	case "tools/list":
		tools, err := d.router.ListTools()
		if err != nil {
			d.writeError(id, CodeInternalError, err.Error())
			return
		}
		d.writeResult(id, listResult{Tools: tools})

	case "tools/call":
		var params CallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			d.writeError(id, CodeInvalidParams, "malformed tools/call params: "+err.Error())
			return
		}
		d.dispatchCall(ctx, id, params)

	default:
		d.writeError(id, CodeMethodNotFound, "unknown method: "+req.Method)
	}
}

// dispatchCall runs one tools/call on the bounded task executor so the read
// loop can keep consuming stdin while the handler is blocked on the UI
// helper or the memory store.
func (d *Dispatcher) dispatchCall(ctx context.Context, id json.RawMessage, params CallParams) {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		d.writeError(id, CodeInternalError, "failed to schedule tool call: "+err.Error())
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.sem.Release(1)

		result, err := d.router.CallTool(ctx, params.Name, params.Arguments)
		if err != nil {
			d.writeToolError(id, err)
			return
		}
		d.writeResult(id, result)
	}()
}

func (d *Dispatcher) writeToolError(id json.RawMessage, err error) {
	var invalid *InvalidParamsError
	if errors.As(err, &invalid) {
		d.writeError(id, CodeInvalidParams, err.Error())
		return
	}
	var disabled *DisabledToolError
	if errors.As(err, &disabled) {
		d.writeError(id, CodeInternalError, err.Error())
		return
	}
	d.writeError(id, CodeInternalError, err.Error())
}

func (d *Dispatcher) writeResult(id json.RawMessage, result any) {
	d.write(Response{JSONRPC: "2.0", ID: id, Result: result})
}

func (d *Dispatcher) writeError(id json.RawMessage, code int, message string) {
	d.write(Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}})
}

// write marshals and emits one response line, serialized against every
// other concurrently-finishing handler so lines are never interleaved.
func (d *Dispatcher) write(resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		d.log.Error(err, "failed to marshal response")
		return
	}

	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	if _, err := d.out.Write(data); err != nil {
		d.log.Error(err, "failed to write response")
		return
	}
	if _, err := d.out.Write([]byte("\n")); err != nil {
		d.log.Error(err, "failed to write response newline")
		return
	}
	if err := d.out.Flush(); err != nil {
		d.log.Error(err, "failed to flush response")
	}
}
