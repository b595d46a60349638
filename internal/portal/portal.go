// Package portal issues xdg-desktop-portal requests over the session bus and
// waits for their Request.Response signal.
package portal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"
)

const (
	Destination = "org.freedesktop.portal.Desktop"
	ObjectPath  = dbus.ObjectPath("/org/freedesktop/portal/desktop")

	requestInterface = "org.freedesktop.portal.Request"
	responseMember   = "Response"
)

// Response codes carried by Request.Response.
const (
	CodeSuccess   uint32 = 0
	CodeCancelled uint32 = 1
	CodeFailed    uint32 = 2
)

var (
	// ErrCancelled reports that the user dismissed the portal dialog.
	ErrCancelled = errors.New("portal request cancelled")
	// ErrFailed reports that the portal ended the interaction with an error.
	ErrFailed = errors.New("portal request failed")
	// ErrUnavailable reports that no session bus could be found.
	ErrUnavailable = errors.New("portal unavailable: no session bus")
)

// Response is the decoded body of a Request.Response signal.
type Response struct {
	Code    uint32
	Results map[string]dbus.Variant
}

// Err maps the response code onto ErrCancelled or ErrFailed.
func (r Response) Err() error {
	switch r.Code {
	case CodeSuccess:
		return nil
	case CodeCancelled:
		return ErrCancelled
	case CodeFailed:
		return ErrFailed
	default:
		return fmt.Errorf("%w: response code %d", ErrFailed, r.Code)
	}
}

// ParseResponse decodes a Request.Response signal body.
func ParseResponse(sig *dbus.Signal) (Response, error) {
	if sig == nil || len(sig.Body) < 2 {
		return Response{}, fmt.Errorf("portal response: malformed body")
	}
	code, ok := sig.Body[0].(uint32)
	if !ok {
		return Response{}, fmt.Errorf("portal response: code has type %T", sig.Body[0])
	}
	results, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return Response{}, fmt.Errorf("portal response: results have type %T", sig.Body[1])
	}
	return Response{Code: code, Results: results}, nil
}

var handleToken = newHandleToken

func newHandleToken() string {
	return "captionshare_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// RequestPath predicts the Request object path the portal creates for token
// on a connection with the given unique bus name.
func RequestPath(uniqueName, token string) dbus.ObjectPath {
	sender := strings.ReplaceAll(strings.TrimPrefix(uniqueName, ":"), ".", "_")
	return dbus.ObjectPath("/org/freedesktop/portal/desktop/request/" + sender + "/" + token)
}

// Available reports whether a session bus appears to be reachable.
func Available() bool {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") != "" {
		return true
	}
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, "bus"))
	return err == nil
}

// Connect opens a private session bus connection.
func Connect() (*dbus.Conn, error) {
	if !Available() {
		return nil, ErrUnavailable
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w", err)
	}
	return conn, nil
}

// Call invokes method on the portal with args followed by opts, injecting a
// fresh handle_token, and blocks until the matching Response arrives or ctx
// ends. Cancelling ctx closes the pending request.
func Call(ctx context.Context, conn *dbus.Conn, method string, opts map[string]dbus.Variant, args ...interface{}) (Response, error) {
	if opts == nil {
		opts = map[string]dbus.Variant{}
	}
	token := handleToken()
	opts["handle_token"] = dbus.MakeVariant(token)

	sigc := make(chan *dbus.Signal, 4)
	conn.Signal(sigc)
	defer conn.RemoveSignal(sigc)

	expected := RequestPath(conn.Names()[0], token)
	if err := addMatch(conn, expected); err != nil {
		return Response{}, fmt.Errorf("%s subscribe: %w", method, err)
	}
	defer removeMatch(conn, expected)

	var handle dbus.ObjectPath
	obj := conn.Object(Destination, ObjectPath)
	call := obj.CallWithContext(ctx, method, 0, append(args, opts)...)
	if call.Err != nil {
		return Response{}, fmt.Errorf("%s call: %w", method, call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return Response{}, fmt.Errorf("%s response: %w", method, err)
	}
	if handle != expected {
		// Older portals ignore handle_token and pick their own path.
		if err := addMatch(conn, handle); err != nil {
			return Response{}, fmt.Errorf("%s subscribe: %w", method, err)
		}
		defer removeMatch(conn, handle)
	}

	for {
		select {
		case <-ctx.Done():
			closeRequest(conn, handle)
			return Response{}, ctx.Err()
		case sig, ok := <-sigc:
			if !ok {
				return Response{}, fmt.Errorf("%s: connection closed", method)
			}
			if sig.Path != handle || sig.Name != requestInterface+"."+responseMember {
				continue
			}
			return ParseResponse(sig)
		}
	}
}

func addMatch(conn *dbus.Conn, path dbus.ObjectPath) error {
	return conn.AddMatchSignal(
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(requestInterface),
		dbus.WithMatchMember(responseMember),
	)
}

func removeMatch(conn *dbus.Conn, path dbus.ObjectPath) {
	if err := conn.RemoveMatchSignal(
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(requestInterface),
		dbus.WithMatchMember(responseMember),
	); err != nil {
		log.Printf("portal remove match: %v", err)
	}
}

func closeRequest(conn *dbus.Conn, handle dbus.ObjectPath) {
	if call := conn.Object(Destination, handle).Call(requestInterface+".Close", 0); call.Err != nil {
		log.Printf("portal close request: %v", call.Err)
	}
}
