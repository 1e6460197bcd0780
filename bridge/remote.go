package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrRemote is returned when a bridge answers with a non-200 status
var ErrRemote = errors.New("bridge request failed")

// Path of the batch endpoint
const Path = "/puente"

// Remote sends command batches to a running bridge over HTTP
type Remote struct {
	baseURL string
	http    *http.Client
}

// NewRemote creates a client for the bridge at baseURL. A nil httpClient
// uses a client with a 30 second timeout.
func NewRemote(baseURL string, httpClient *http.Client) *Remote {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Send posts a batch and returns the bridge's response
func (r *Remote) Send(ctx context.Context, request Request) (*Response, error) {
	if request.Commands == nil {
		request.Commands = []Command{}
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+Path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach bridge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Message string `json:"mensaje"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &failure) != nil || failure.Message == "" {
			failure.Message = strings.TrimSpace(string(raw))
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrRemote, resp.Status, failure.Message)
	}

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode bridge response: %w", err)
	}

	return &response, nil
}

// Call sends a single command. args is encoded as the command's args.
func (r *Remote) Call(ctx context.Context, action Action, sheet string, args interface{}) (Result, error) {
	command := Command{Action: action, Sheet: sheet}

	if args != nil {
		raw, err := json.Marshal(args)
		if err != nil {
			return Result{}, fmt.Errorf("failed to encode args: %w", err)
		}
		command.Args = raw
	}

	response, err := r.Send(ctx, Request{Commands: []Command{command}})
	if err != nil {
		return Result{}, err
	}
	if len(response.Results) != 1 {
		return Result{}, fmt.Errorf("%w: expected 1 result, got %d", ErrRemote, len(response.Results))
	}

	return response.Results[0], nil
}
