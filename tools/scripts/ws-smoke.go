// Package main provides a CI-friendly smoke test for the notebook note feed.
//
// It validates:
//   - account registration over the HTTP API
//   - handshake + subprotocol selection on /ws/notes
//   - note.created / note.updated / note.deleted delivery to the owner
//   - no delivery of another account's changes
//   - ping -> pong
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"
)

const (
	defaultSubprotocol = "notebook.notes.v1"
	maxReadBytes       = 1 << 20 // 1MiB
)

type frame struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Note *struct {
		ID    string `json:"_id"`
		User  string `json:"user"`
		Title string `json:"title"`
	} `json:"note,omitempty"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type noteJSON struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

type smokeClient struct {
	name  string
	conn  *websocket.Conn
	inbox chan frame
	errCh chan error
}

func main() {
	var (
		baseURL = flag.String("base", "http://127.0.0.1:8080", "HTTP base URL of the notebook server")
		wsURL   = flag.String("url", "ws://127.0.0.1:8080/ws/notes", "Note feed WebSocket URL")
		origin  = flag.String("origin", "http://localhost", "Origin header to send (browser-like WS handshake)")
		timeout = flag.Duration("timeout", 7*time.Second, "Per-step timeout")
		verbose = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	if err := validateBaseURL(*baseURL); err != nil {
		fatalf("invalid -base: %v", err)
	}
	if err := validateWSURL(*wsURL); err != nil {
		fatalf("invalid -url: %v", err)
	}
	if err := validateOrigin(*origin); err != nil {
		fatalf("invalid -origin: %v", err)
	}

	root := context.Background()
	api := &apiClient{base: strings.TrimRight(*baseURL, "/"), http: &http.Client{Timeout: *timeout}}

	suffix := time.Now().UnixNano()
	tokA := api.mustRegister(fmt.Sprintf("smoke-a-%d@example.com", suffix))
	tokB := api.mustRegister(fmt.Sprintf("smoke-b-%d@example.com", suffix))

	a := mustConnect(root, "A", *wsURL, *origin, tokA, *timeout)
	defer closeWS(a.conn)

	if *verbose {
		fmt.Printf("connected: A origin=%q\n", *origin)
	}

	created := api.mustCreateNote(tokA, "smoke note")
	f := a.mustReadUntilType(root, "note.created", *timeout)
	if f.Note == nil || f.Note.ID != created.ID {
		fatalf("note.created mismatch: got %+v want id=%s", f.Note, created.ID)
	}

	// B's note must not reach A: the next frame after a ping has to be the pong.
	_ = api.mustCreateNote(tokB, "not for A")
	mustWriteWithTimeout(root, a.conn, `{"type":"ping"}`, *timeout)
	if f := a.mustRead(root, *timeout); f.Type != "pong" {
		fatalf("expected pong, got %q (foreign change leaked?)", f.Type)
	}

	api.mustUpdateNote(tokA, created.ID, "smoke note v2")
	f = a.mustReadUntilType(root, "note.updated", *timeout)
	if f.Note == nil || f.Note.Title != "smoke note v2" {
		fatalf("note.updated mismatch: %+v", f.Note)
	}

	api.mustDeleteNote(tokA, created.ID)
	f = a.mustReadUntilType(root, "note.deleted", *timeout)
	if f.Note == nil || f.Note.ID != created.ID {
		fatalf("note.deleted mismatch: %+v", f.Note)
	}

	fmt.Println("OK: note feed smoke passed")
}

type apiClient struct {
	base string
	http *http.Client
}

func (c *apiClient) do(method, path, tok string, body any, out any) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			fatalf("marshal %s %s: %v", method, path, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		fatalf("request %s %s: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("auth-token", tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		fatalf("%s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxReadBytes))
	if resp.StatusCode != http.StatusOK {
		fatalf("%s %s: status %d body=%s", method, path, resp.StatusCode, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			fatalf("%s %s: decode: %v", method, path, err)
		}
	}
}

func (c *apiClient) mustRegister(email string) string {
	var out struct {
		AuthToken string `json:"authToken"`
	}
	c.do(http.MethodPost, "/api/auth/createuser", "", map[string]string{
		"name":     "smoke",
		"email":    email,
		"password": "smoke-password-1",
	}, &out)
	if strings.TrimSpace(out.AuthToken) == "" {
		fatalf("createuser returned no authToken")
	}
	return out.AuthToken
}

func (c *apiClient) mustCreateNote(tok, title string) noteJSON {
	var n noteJSON
	c.do(http.MethodPost, "/api/notes/addnote", tok, map[string]string{
		"title":       title,
		"description": "created by ws-smoke",
		"tag":         "smoke",
	}, &n)
	if n.ID == "" {
		fatalf("addnote returned no _id")
	}
	return n
}

func (c *apiClient) mustUpdateNote(tok, id, title string) {
	c.do(http.MethodPut, "/api/notes/updatenote/"+url.PathEscape(id), tok, map[string]string{"title": title}, nil)
}

func (c *apiClient) mustDeleteNote(tok, id string) {
	c.do(http.MethodDelete, "/api/notes/deletenote/"+url.PathEscape(id), tok, nil, nil)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return errors.New("missing host")
	}
	return nil
}

func validateWSURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return errors.New("missing host")
	}
	if strings.TrimSpace(u.Path) == "" {
		return errors.New("missing path")
	}
	return nil
}

func validateOrigin(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("origin must be http/https, got: %s", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return errors.New("origin missing host")
	}
	return nil
}

func mustConnect(parent context.Context, name, wsURL, origin, tok string, stepTimeout time.Duration) *smokeClient {
	ctx, cancel := context.WithTimeout(parent, stepTimeout)
	defer cancel()

	h := http.Header{}
	if strings.TrimSpace(origin) != "" {
		h.Set("Origin", origin)
	}
	h.Set("Authorization", "Bearer "+tok)

	conn, resp, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		Subprotocols: []string{defaultSubprotocol},
		HTTPHeader:   h,
	})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		fatalf("connect %s: %v", name, err)
	}
	if got := conn.Subprotocol(); got != defaultSubprotocol {
		fatalf("subprotocol mismatch (%s): got %q want %q", name, got, defaultSubprotocol)
	}

	conn.SetReadLimit(maxReadBytes)

	c := &smokeClient{
		name:  name,
		conn:  conn,
		inbox: make(chan frame, 64),
		errCh: make(chan error, 1),
	}
	c.startReadLoop()

	// The hub registers the client right after the upgrade; a ping round trip proves it is live.
	mustWriteWithTimeout(parent, conn, `{"type":"ping"}`, stepTimeout)
	c.mustReadUntilType(parent, "pong", stepTimeout)
	return c
}

func (c *smokeClient) startReadLoop() {
	go func() {
		for {
			_, b, err := c.conn.Read(context.Background())
			if err != nil {
				c.errCh <- err
				return
			}
			var f frame
			if err := json.Unmarshal(b, &f); err != nil {
				c.errCh <- fmt.Errorf("unmarshal frame: %w", err)
				return
			}
			c.inbox <- f
		}
	}()
}

func (c *smokeClient) mustRead(parent context.Context, stepTimeout time.Duration) frame {
	ctx, cancel := context.WithTimeout(parent, stepTimeout)
	defer cancel()

	select {
	case f := <-c.inbox:
		if f.Type == "error" && f.Error != nil {
			fatalf("server error frame (%s): %s %s", c.name, f.Error.Code, f.Error.Message)
		}
		return f
	case err := <-c.errCh:
		fatalf("read (%s): %v", c.name, err)
	case <-ctx.Done():
		fatalf("timeout waiting for frame (%s)", c.name)
	}
	return frame{}
}

func (c *smokeClient) mustReadUntilType(parent context.Context, wantType string, stepTimeout time.Duration) frame {
	deadline := time.Now().Add(stepTimeout)
	for time.Now().Before(deadline) {
		f := c.mustRead(parent, time.Until(deadline))
		if f.Type == wantType {
			return f
		}
	}
	fatalf("timeout waiting for %s (%s)", wantType, c.name)
	return frame{}
}

func mustWriteWithTimeout(parent context.Context, conn *websocket.Conn, msg string, stepTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(parent, stepTimeout)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, []byte(msg)); err != nil {
		fatalf("write: %v", err)
	}
}

func closeWS(conn *websocket.Conn) {
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "FAIL: "+format+"\n", args...)
	os.Exit(1)
}
