package attach

import (
	"fmt"
	"net"
	"path/filepath"

	sys "golang.org/x/sys/unix"
)

// SocketPath returns the path of the UNIX domain socket the JVM binds for
// Dynamic Attach requests.
func SocketPath(tmpDir string, pid int) string {
	return filepath.Join(tmpDir, fmt.Sprintf(".java_pid%d", pid))
}

// CheckSocket reports whether the JVM identified by pid has already
// opened its attach socket. A stale regular file left at the socket path
// does not count as a live listener.
func CheckSocket(tmpDir string, pid int) bool {
	var st sys.Stat_t
	if err := sys.Stat(SocketPath(tmpDir, pid), &st); err != nil {
		return false
	}
	return st.Mode&sys.S_IFMT == sys.S_IFSOCK
}

// Connect opens a stream connection to the attach socket of pid. It is
// not retried: by the time Connect runs the caller has already verified
// or forced the listener, so a refused connection is terminal.
func Connect(tmpDir string, pid int) (*net.UnixConn, error) {
	addr := &net.UnixAddr{Name: SocketPath(tmpDir, pid), Net: "unix"}
	conn, err := net.DialUnix("unix", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}
	return conn, nil
}
