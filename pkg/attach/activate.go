package attach

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	sys "golang.org/x/sys/unix"

	"github.com/AndrewReloaded/jattach/pkg/logflags"
)

// retryPolicy is a bounded poll waiting on an action performed by
// another process: sleep one interval, check, up to attempts times.
type retryPolicy struct {
	attempts int
	interval time.Duration
}

// poll blocks until done reports true or the attempt budget is spent.
func (r retryPolicy) poll(done func() bool) bool {
	for attempt := 0; attempt < r.attempts; attempt++ {
		time.Sleep(r.interval)
		if done() {
			return true
		}
	}
	return false
}

// ForceAttachListener makes the target JVM start its attach listener.
// HotSpot starts the listener when it receives SIGQUIT while an
// .attach_pid file with its pid exists, so the sequence is: create the
// trigger file, signal the target, poll for the socket. The trigger file
// is removed whether or not the socket ever appeared.
func ForceAttachListener(pid int, opts Options) error {
	opts.fillDefaults()
	logger := logflags.AttachLogger()

	if logflags.Attach() {
		logTargetInfo(logger, pid)
	}

	trigger, err := createTriggerFile(pid, opts.TmpDir)
	if err != nil {
		return fmt.Errorf("%w: creating trigger file: %v", ErrActivationFailed, err)
	}
	defer os.Remove(trigger)
	logger.Debugf("created trigger file %s", trigger)

	if pid > 0 {
		if err := sys.Kill(pid, sys.SIGQUIT); err != nil {
			// A dead target still gets the full poll budget; the caller
			// only learns of a generic activation failure.
			logger.Debugf("kill(%d, SIGQUIT): %v", pid, err)
		}
	} else {
		// kill(0) would signal our own process group.
		logger.Debugf("not signaling nonpositive pid %d", pid)
	}

	retry := retryPolicy{attempts: opts.Retries, interval: opts.RetryInterval}
	if !retry.poll(func() bool { return CheckSocket(opts.TmpDir, pid) }) {
		return fmt.Errorf("%w: socket %s did not appear after %d attempts",
			ErrActivationFailed, SocketPath(opts.TmpDir, pid), opts.Retries)
	}
	logger.Debugf("attach listener is up at %s", SocketPath(opts.TmpDir, pid))
	return nil
}

func logTargetInfo(logger logflags.Logger, pid int) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		logger.Debugf("target process %d: %v", pid, err)
		return
	}
	name, _ := p.Name()
	user, _ := p.Username()
	logger.Debugf("target process %d is %q owned by %q", pid, name, user)
}
