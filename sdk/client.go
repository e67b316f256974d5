package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Client talks to the push provider's HTTP API and delivers provider
// notifications to the host application. Registration, delivery retries and
// geofence monitoring are owned by this layer; the bridge on top of it only
// translates.
type Client struct {
	baseURL string
	apiKey  string
	appCode string
	httpCli *http.Client

	onNotification func(*Notification)

	// Pending "eventual" custom events, flushed in the background with retry.
	queueMu sync.Mutex
	queue   []CustomEvent

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClient creates a new SDK client. baseURL points at the provider API,
// apiKey authenticates the calls.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpCli: &http.Client{Timeout: 30 * time.Second},
	}
}

// OnNotification registers the handler invoked for every provider
// notification. Only one handler is supported; a later call replaces the
// earlier one.
func (c *Client) OnNotification(handler func(*Notification)) {
	c.onNotification = handler
}

// Deliver injects a notification into the client as if the provider pushed
// it. The platform glue feeds incoming pushes through here.
func (c *Client) Deliver(n *Notification) {
	if n == nil || c.onNotification == nil {
		return
	}
	c.onNotification(n)
}

// Start launches the background flush loop for queued events.
func (c *Client) Start() {
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.wg.Add(1)
	go c.flushLoop()
}

// Stop stops the background loop. Queued events that were not flushed are
// dropped; the provider re-reports them on the next registration.
func (c *Client) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

// Register creates (or refreshes) the installation for the given application
// code. On success the provider's token and registration identifier are
// delivered as notifications, matching how the platform SDKs report them.
func (c *Client) Register(ctx context.Context, appCode string) error {
	c.appCode = appCode

	var resp struct {
		Token        string `json:"token"`
		Registration string `json:"registrationId"`
	}
	err := c.post(ctx, "/registration", map[string]interface{}{"applicationCode": appCode}, &resp)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	c.Deliver(&Notification{Type: NotificationTokenReceived, Token: resp.Token})
	c.Deliver(&Notification{Type: NotificationRegistrationOK, Registration: resp.Registration})
	return nil
}

// SaveUser pushes user attributes to the provider and returns the merged
// attribute set.
func (c *Client) SaveUser(ctx context.Context, attrs map[string]interface{}) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.post(ctx, "/user", attrs, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchUser fetches the current user attributes from the provider.
func (c *Client) FetchUser(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.get(ctx, "/user", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveInstallation pushes installation attributes to the provider.
func (c *Client) SaveInstallation(ctx context.Context, attrs map[string]interface{}) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.post(ctx, "/installation", attrs, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchInstallation fetches the current installation from the provider.
func (c *Client) FetchInstallation(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.get(ctx, "/installation", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitEvent queues a custom event for eventual delivery. The call never
// fails; delivery and retry are handled by the flush loop.
func (c *Client) SubmitEvent(event CustomEvent) {
	c.queueMu.Lock()
	c.queue = append(c.queue, event)
	c.queueMu.Unlock()
}

// SubmitEventImmediately performs exactly one delivery attempt and reports
// the first failure to the caller. No retry is made.
func (c *Client) SubmitEventImmediately(ctx context.Context, event CustomEvent) error {
	return c.post(ctx, "/events", event, nil)
}

// MarkSeen reports the given message IDs as seen.
func (c *Client) MarkSeen(ctx context.Context, messageIDs []string) error {
	body := map[string]interface{}{
		"messageIds": messageIDs,
		"seenDate":   time.Now().UnixMilli(),
	}
	return c.post(ctx, "/messages/seen", body, nil)
}

// Personalize associates a user identity with the current installation.
// Returns the resulting user attributes.
func (c *Client) Personalize(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.post(ctx, "/personalize", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Depersonalize detaches the user identity from the current installation.
func (c *Client) Depersonalize(ctx context.Context) error {
	return c.post(ctx, "/depersonalize", map[string]interface{}{}, nil)
}

// SetChatSettings forwards chat view customization to the natively rendered
// chat UI. The settings object is opaque to this layer.
func (c *Client) SetChatSettings(ctx context.Context, settings map[string]interface{}) error {
	return c.post(ctx, "/chat/settings", settings, nil)
}

func (c *Client) flushLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.flushQueue()
		}
	}
}

func (c *Client) flushQueue() {
	c.queueMu.Lock()
	pending := c.queue
	c.queue = nil
	c.queueMu.Unlock()

	if len(pending) == 0 {
		return
	}

	for i, ev := range pending {
		ctx, cancel := context.WithTimeout(c.ctx, 15*time.Second)
		err := c.post(ctx, "/events", ev, nil)
		cancel()
		if err != nil {
			// Requeue this and everything after it for the next tick.
			c.queueMu.Lock()
			c.queue = append(pending[i:], c.queue...)
			c.queueMu.Unlock()
			fmt.Printf("[SDK] Event flush failed, %d event(s) requeued: %v\n", len(pending)-i, err)
			return
		}
	}
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	return c.do(req, out)
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "App "+c.apiKey)
	if c.appCode != "" {
		req.Header.Set("X-Application-Code", c.appCode)
	}
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpCli.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
