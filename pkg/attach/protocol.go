package attach

import (
	"fmt"
	"io"

	"github.com/AndrewReloaded/jattach/pkg/logflags"
)

// The handshake is NUL-terminated text: the protocol version tag, then
// exactly four fields (command word plus three arguments). The VM reads
// all five fields before acting, so unused fields are transmitted as
// empty strings rather than omitted.
const (
	protocolVersion = "1"
	commandFields   = 4
	responseBufSize = 1024
)

// WriteCommand frames the version tag, the command word and up to three
// arguments onto the connection. Arguments beyond the third are dropped;
// missing ones are sent as empty fields. Short writes are failures.
func WriteCommand(w io.Writer, command string, args ...string) error {
	fields := make([]string, commandFields)
	fields[0] = command
	for i := 1; i < commandFields && i-1 < len(args); i++ {
		fields[i] = args[i-1]
	}

	if err := writeField(w, protocolVersion); err != nil {
		return fmt.Errorf("sending protocol version: %w", err)
	}
	for _, field := range fields {
		if err := writeField(w, field); err != nil {
			return fmt.Errorf("sending %q: %w", field, err)
		}
	}
	if logflags.Wire() {
		logflags.WireLogger().Debugf("sent command %q args %q", command, fields[1:])
	}
	return nil
}

func writeField(w io.Writer, field string) error {
	buf := append([]byte(field), 0)
	n, err := w.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(buf))
	}
	return nil
}

// ReadResponse streams the VM's reply to out until the VM closes its end
// of the connection. The reply has no length framing and may be
// arbitrarily large, so each chunk is forwarded as soon as it is read
// rather than buffered. A clean end of stream is not an error.
func ReadResponse(out io.Writer, conn io.Reader) error {
	buf := make([]byte, responseBufSize)
	total := 0
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			wn, werr := out.Write(buf[:n])
			if werr != nil {
				return fmt.Errorf("relaying response: %w", werr)
			}
			if wn != n {
				return fmt.Errorf("relaying response: short write: %d of %d bytes", wn, n)
			}
			total += n
		}
		if err == io.EOF {
			if logflags.Wire() {
				logflags.WireLogger().Debugf("relayed %d response bytes", total)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
	}
}
