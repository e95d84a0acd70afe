package logflags

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

var attach = false
var wire = false

var logOut io.WriteCloser

func makeLogger(level logrus.Level, fields Fields) Logger {
	factory := loggerFactory
	if factory == nil {
		factory = newLogrusLogger
	}
	var out io.Writer = os.Stderr
	if logOut != nil {
		out = logOut
	}
	return factory(level, fields, out)
}

func makeFlaggableLogger(flag bool, fields Fields) Logger {
	if flag {
		return makeLogger(logrus.DebugLevel, fields)
	}
	return makeLogger(logrus.ErrorLevel, fields)
}

// Attach returns true if socket location and listener activation should
// produce debug output.
func Attach() bool {
	return attach
}

// AttachLogger returns a logger for the attach mechanism layer.
func AttachLogger() Logger {
	return makeFlaggableLogger(attach, Fields{"layer": "attach"})
}

// Wire returns true if command framing and response relay should produce
// debug output.
func Wire() bool {
	return wire
}

// WireLogger returns a logger for the attach wire protocol.
func WireLogger() Logger {
	return makeFlaggableLogger(wire, Fields{"layer": "wire"})
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup sets the logging flags based on the contents of logstr and
// redirects logging output to logDest, which is interpreted as a file
// descriptor number if numeric and as a file path otherwise.
func Setup(logFlag bool, logstr, logDest string) error {
	if logDest != "" {
		n, err := strconv.Atoi(logDest)
		if err == nil {
			logOut = os.NewFile(uintptr(n), "jattach-log")
		} else {
			fh, err := os.Create(logDest)
			if err != nil {
				return fmt.Errorf("could not create log file: %v", err)
			}
			logOut = fh
		}
	}
	if !logFlag {
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "attach"
	}
	for _, logcmd := range strings.Split(logstr, ",") {
		switch logcmd {
		case "attach":
			attach = true
		case "wire":
			wire = true
		default:
			fmt.Fprintf(os.Stderr, "Warning: unknown log output value %q\n", logcmd)
		}
	}
	return nil
}

// Close closes the logger output.
func Close() {
	if logOut != nil {
		logOut.Close()
	}
}

// textFormatter renders one line per entry: timestamp, level, sorted
// fields, message.
type textFormatter struct{}

func (f *textFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}
	b.WriteString(entry.Time.Format("2006-01-02T15:04:05.000Z07:00"))
	b.WriteByte(' ')
	b.WriteString(entry.Level.String())
	b.WriteByte(' ')
	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(b, "%s=%v ", key, entry.Data[key])
	}
	b.WriteString(entry.Message)
	b.WriteByte('\n')
	return b.Bytes(), nil
}

var textFormatterInstance = &textFormatter{}
