// Package fstool talks to an external filesystem tool server over stdio.
// The server is a subprocess speaking line-delimited JSON-RPC 2.0; each
// request is a single line on stdin and each response a single line on
// stdout.
package fstool

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// request is a JSON-RPC 2.0 request envelope
type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// response is a JSON-RPC 2.0 response envelope
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("tool server error %d: %s", e.Code, e.Message)
}

// Client manages a tool server subprocess and issues calls to it.
// Calls are serialized; the protocol has no concurrent requests.
type Client struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Scanner
	nextID int64
}

// Start launches the tool server described by command. The command string
// is split on whitespace; the first field is the executable and the rest
// are arguments.
func Start(ctx context.Context, command string, dir string) (*Client, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty tool server command")
	}

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	if dir != "" {
		cmd.Dir = dir
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start tool server: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	return &Client{
		cmd:    cmd,
		stdin:  stdin,
		stdout: scanner,
		nextID: 1,
	}, nil
}

// Call sends a request and decodes the matching response into result.
// Pass a nil result to discard the payload.
func (c *Client) Call(method string, params any, result any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++

	line, err := json.Marshal(request{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	line = append(line, '\n')
	if _, err := c.stdin.Write(line); err != nil {
		return fmt.Errorf("failed to write to tool server: %w", err)
	}

	for {
		if !c.stdout.Scan() {
			if err := c.stdout.Err(); err != nil {
				return fmt.Errorf("failed to read from tool server: %w", err)
			}
			return fmt.Errorf("tool server closed its output")
		}
		text := strings.TrimSpace(c.stdout.Text())
		if text == "" {
			continue
		}

		var resp response
		if err := json.Unmarshal([]byte(text), &resp); err != nil {
			return fmt.Errorf("invalid tool server response: %w", err)
		}
		// Skip notifications and stale responses.
		if resp.ID != id {
			continue
		}
		if resp.Error != nil {
			return resp.Error
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("failed to decode tool result: %w", err)
			}
		}
		return nil
	}
}

// WriteFile asks the tool server to write content at the given path,
// relative to the server's root directory.
func (c *Client) WriteFile(path, content string) error {
	params := map[string]string{
		"path":    path,
		"content": content,
	}
	if err := c.Call("write_file", params, nil); err != nil {
		return fmt.Errorf("failed to write %s via tool server: %w", path, err)
	}
	return nil
}

// Close shuts down the subprocess. Closing stdin signals the server to
// exit; the process is waited on so no zombie is left behind.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.stdin.Close(); err != nil {
		c.cmd.Process.Kill()
		c.cmd.Wait()
		return fmt.Errorf("failed to close tool server stdin: %w", err)
	}
	if err := c.cmd.Wait(); err != nil {
		return fmt.Errorf("tool server exited with error: %w", err)
	}
	return nil
}
