// Package attach implements the HotSpot Dynamic Attach handshake over the
// JVM's UNIX domain control socket.
//
// A JVM does not listen for attach requests by default. The protocol to
// make it listen is filesystem based: a cooperating process creates an
// .attach_pid file the JVM can see and sends it SIGQUIT; the JVM answers
// by binding a UNIX socket in the shared temp directory. Once the socket
// exists any process that can connect to it may send a single command and
// read the VM's reply until the VM closes the connection.
package attach

import (
	"errors"
	"time"
)

// Errors reported by the attach stages. Callers distinguish an attach
// listener that never came up from a socket that refused the connection
// with errors.Is.
var (
	ErrActivationFailed = errors.New("could not start attach mechanism")
	ErrConnectFailed    = errors.New("could not connect to socket")
)

// Defaults for Options fields left at their zero value.
const (
	DefaultTmpDir        = "/tmp"
	DefaultRetries       = 10
	DefaultRetryInterval = 1 * time.Second
)

// Options configure a single attach transaction.
type Options struct {
	// TmpDir is the shared temp directory where HotSpot binds the attach
	// socket. Defaults to DefaultTmpDir.
	TmpDir string
	// Retries is the number of times ForceAttachListener polls for the
	// attach socket before giving up. Defaults to DefaultRetries.
	Retries int
	// RetryInterval is the time slept before each poll. Defaults to
	// DefaultRetryInterval.
	RetryInterval time.Duration
}

func (o *Options) fillDefaults() {
	if o.TmpDir == "" {
		o.TmpDir = DefaultTmpDir
	}
	if o.Retries <= 0 {
		o.Retries = DefaultRetries
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = DefaultRetryInterval
	}
}
