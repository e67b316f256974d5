// Package ipc is the runtime boundary between the bridge and the JS host.
// Commands arrive as JSON request files, responses mirror the success/error
// callback pair, and events stream out as JSON lines. Custom-store query
// results and permission answers come back on dedicated files, not on the
// command channel.
package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CommandRequest is a command issued by the JS side.
type CommandRequest struct {
	ID      string                 `json:"id"`
	Action  string                 `json:"action"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Args    []interface{}          `json:"args,omitempty"`
}

// CommandResponse mirrors the two-callback completion contract: exactly one
// of Error or Data is meaningful, selected by Success.
type CommandResponse struct {
	ID      string      `json:"id"`
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// eventEnvelope is one line on the event stream.
type eventEnvelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// storeResult is the JS side's answer to a messageStorage.find/findAll
// event.
type storeResult struct {
	RequestID string                   `json:"requestId"`
	Messages  []map[string]interface{} `json:"messages"`
}

// permissionAnswer is the host's answer to a permission prompt.
type permissionAnswer struct {
	ID      string `json:"id"`
	Granted bool   `json:"granted"`
}

// ActionHandler handles one command and returns its result data.
type ActionHandler func(req CommandRequest) (interface{}, error)

// Handler manages the file-based channel with the JS host.
type Handler struct {
	ipcDir         string
	requestFile    string
	responseFile   string
	eventsFile     string
	storeFile      string
	permReqFile    string
	permAnswerFile string

	actionHandler ActionHandler

	eventsMu sync.Mutex
	respMu   sync.Mutex

	waitersMu    sync.Mutex
	storeWaiters map[string]chan []map[string]interface{}
	permWaiters  map[string]chan bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHandler creates a handler rooted at baseDir.
func NewHandler(baseDir string, handler ActionHandler) (*Handler, error) {
	ipcDir := filepath.Join(baseDir, "ipc")
	if err := os.MkdirAll(ipcDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create IPC directory: %w", err)
	}

	return &Handler{
		ipcDir:         ipcDir,
		requestFile:    filepath.Join(ipcDir, "request.json"),
		responseFile:   filepath.Join(ipcDir, "response.json"),
		eventsFile:     filepath.Join(ipcDir, "events.jsonl"),
		storeFile:      filepath.Join(ipcDir, "storeresult.json"),
		permReqFile:    filepath.Join(ipcDir, "permission_request.json"),
		permAnswerFile: filepath.Join(ipcDir, "permission_response.json"),
		actionHandler:  handler,
		storeWaiters:   make(map[string]chan []map[string]interface{}),
		permWaiters:    make(map[string]chan bool),
	}, nil
}

// GetEnvVars returns the environment variables a JS host needs to locate the
// channel files.
func (h *Handler) GetEnvVars() map[string]string {
	return map[string]string{
		"PUSH_BRIDGE_REQUEST_FILE":      h.requestFile,
		"PUSH_BRIDGE_RESPONSE_FILE":     h.responseFile,
		"PUSH_BRIDGE_EVENTS_FILE":       h.eventsFile,
		"PUSH_BRIDGE_STORE_RESULT_FILE": h.storeFile,
		"PUSH_BRIDGE_PERMISSION_FILE":   h.permReqFile,
		"PUSH_BRIDGE_PERMISSION_ANSWER": h.permAnswerFile,
	}
}

// Start begins polling for requests and answers.
func (h *Handler) Start(ctx context.Context) {
	h.ctx, h.cancel = context.WithCancel(ctx)

	// Clear any stale files
	os.Remove(h.requestFile)
	os.Remove(h.responseFile)
	os.Remove(h.storeFile)
	os.Remove(h.permAnswerFile)

	h.wg.Add(1)
	go h.pollLoop()
}

// Stop stops the handler.
func (h *Handler) Stop() {
	if h.cancel != nil {
		h.cancel()
	}
	h.wg.Wait()
}

// EmitEvent appends one event to the event stream. Safe to call from inside
// an action handler; the event stream has its own lock.
func (h *Handler) EmitEvent(event string, payload interface{}) error {
	h.eventsMu.Lock()
	defer h.eventsMu.Unlock()

	line, err := json.Marshal(eventEnvelope{Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	f, err := os.OpenFile(h.eventsFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open events file: %w", err)
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// EmitStoreEvent forwards a messageStorage.* lifecycle event to the JS
// store. Store events share the normal event stream.
func (h *Handler) EmitStoreEvent(event string, payload interface{}) error {
	return h.EmitEvent(event, payload)
}

// AwaitStoreResult blocks until the JS store answers the request or ctx
// expires.
func (h *Handler) AwaitStoreResult(ctx context.Context, requestID string) ([]map[string]interface{}, error) {
	ch := make(chan []map[string]interface{}, 1)

	h.waitersMu.Lock()
	h.storeWaiters[requestID] = ch
	h.waitersMu.Unlock()

	defer func() {
		h.waitersMu.Lock()
		delete(h.storeWaiters, requestID)
		h.waitersMu.Unlock()
	}()

	select {
	case messages := <-ch:
		return messages, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("store result %s: %w", requestID, ctx.Err())
	}
}

// RequestPermission writes a permission prompt for the host and blocks until
// it answers or ctx expires.
func (h *Handler) RequestPermission(ctx context.Context, permission string) (bool, error) {
	id := uuid.NewString()

	ch := make(chan bool, 1)
	h.waitersMu.Lock()
	h.permWaiters[id] = ch
	h.waitersMu.Unlock()

	defer func() {
		h.waitersMu.Lock()
		delete(h.permWaiters, id)
		h.waitersMu.Unlock()
	}()

	prompt, err := json.Marshal(map[string]string{"id": id, "permission": permission})
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(h.permReqFile, prompt, 0644); err != nil {
		return false, fmt.Errorf("failed to write permission prompt: %w", err)
	}

	select {
	case granted := <-ch:
		return granted, nil
	case <-ctx.Done():
		return false, fmt.Errorf("permission prompt %s: %w", permission, ctx.Err())
	}
}

// GetIPCDir returns the IPC directory path.
func (h *Handler) GetIPCDir() string {
	return h.ipcDir
}

func (h *Handler) pollLoop() {
	defer h.wg.Done()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			h.processRequest()
			h.processStoreResult()
			h.processPermissionAnswer()
		}
	}
}

// processRequest picks up a pending command and hands it to the action
// handler on its own goroutine. Handlers emit events and wait for store or
// permission answers while running, so the poll loop must keep turning
// underneath them.
func (h *Handler) processRequest() {
	data, err := os.ReadFile(h.requestFile)
	if err != nil || len(data) == 0 {
		return
	}

	// Clear the request file immediately
	os.Remove(h.requestFile)

	var req CommandRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.writeResponse(CommandResponse{Success: false, Error: "invalid request"})
		return
	}

	if h.actionHandler == nil {
		h.writeResponse(CommandResponse{ID: req.ID, Success: false, Error: "no handler configured"})
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		data, err := h.actionHandler(req)
		if err != nil {
			h.writeResponse(CommandResponse{ID: req.ID, Success: false, Error: err.Error()})
			return
		}
		h.writeResponse(CommandResponse{ID: req.ID, Success: true, Data: data})
	}()
}

func (h *Handler) processStoreResult() {
	data, err := os.ReadFile(h.storeFile)
	if err != nil || len(data) == 0 {
		return
	}
	os.Remove(h.storeFile)

	var result storeResult
	if err := json.Unmarshal(data, &result); err != nil {
		fmt.Printf("[IPC] Invalid store result: %v\n", err)
		return
	}

	h.waitersMu.Lock()
	ch, ok := h.storeWaiters[result.RequestID]
	h.waitersMu.Unlock()
	if !ok {
		return
	}
	ch <- result.Messages
}

func (h *Handler) processPermissionAnswer() {
	data, err := os.ReadFile(h.permAnswerFile)
	if err != nil || len(data) == 0 {
		return
	}
	os.Remove(h.permAnswerFile)

	var answer permissionAnswer
	if err := json.Unmarshal(data, &answer); err != nil {
		fmt.Printf("[IPC] Invalid permission answer: %v\n", err)
		return
	}

	h.waitersMu.Lock()
	ch, ok := h.permWaiters[answer.ID]
	h.waitersMu.Unlock()
	if !ok {
		return
	}
	ch <- answer.Granted
}

func (h *Handler) writeResponse(resp CommandResponse) {
	h.respMu.Lock()
	defer h.respMu.Unlock()

	data, _ := json.Marshal(resp)
	os.WriteFile(h.responseFile, data, 0644)
}
