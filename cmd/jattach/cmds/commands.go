package cmds

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/AndrewReloaded/jattach/pkg/attach"
	"github.com/AndrewReloaded/jattach/pkg/config"
	"github.com/AndrewReloaded/jattach/pkg/logflags"
	"github.com/AndrewReloaded/jattach/pkg/version"
)

var (
	// log is whether to log debug statements.
	log bool
	// logOutput is a comma separated list of components that should produce debug output.
	logOutput string
	// logDest is the file path or file descriptor where logs should go.
	logDest string
	// tmpDir overrides the shared temp directory where the JVM binds its attach socket.
	tmpDir string
	// verbose makes the version subcommand print build information.
	verbose bool

	// rootCommand is the root of the command tree.
	rootCommand *cobra.Command

	conf *config.Config
)

const jattachLongDesc = `jattach sends a command to a running JVM through the HotSpot Dynamic
Attach mechanism, without requiring the JDK attach tooling.

If the target VM has not started its attach listener yet, jattach forces
it to start one, then connects to the listener socket and relays the VM's
response to standard output.

Commands understood by HotSpot:

	load            load agent library
	properties      print system properties
	agentProperties print agent properties
	datadump        show heap and thread summary
	threaddump      dump all stack traces (like jstack)
	dumpheap        dump heap (like jmap)
	inspectheap     heap histogram (like jmap -histo)
	setflag         modify manageable VM flag
	printflag       print VM flag
	jcmd            execute jcmd command

The command word is passed to the VM as-is; jattach does not interpret it.`

// New returns an initialized command tree.
func New() *cobra.Command {
	conf = config.LoadConfig()

	rootCommand = &cobra.Command{
		Use:   "jattach <pid> <command> [arg1] [arg2] [arg3]",
		Short: "jattach sends commands to a running JVM via Dynamic Attach.",
		Long:  jattachLongDesc,
		Args:  cobra.MinimumNArgs(2),
		Run:   attachCmd,
	}

	rootCommand.PersistentFlags().BoolVarP(&log, "log", "", false, "Enable debug logging.")
	rootCommand.PersistentFlags().StringVarP(&logOutput, "log-output", "", "", "Comma separated list of components that should produce debug output (attach, wire).")
	rootCommand.PersistentFlags().StringVarP(&logDest, "log-dest", "", "", "Writes logs to the specified file or file descriptor.")
	rootCommand.Flags().StringVar(&tmpDir, "tmp", "", "Shared temp directory where the JVM binds its attach socket (overrides tmp-dir in the config file).")

	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Prints version.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("jattach\n%s\n", version.JattachVersion)
			if verbose {
				fmt.Println(version.BuildInfo())
			}
		},
	}
	versionCommand.Flags().BoolVarP(&verbose, "verbose", "v", false, "print verbose version info")
	rootCommand.AddCommand(versionCommand)

	return rootCommand
}

func attachCmd(cmd *cobra.Command, args []string) {
	os.Exit(execute(conf, args, os.Stdout, os.Stderr))
}

// parsePid mirrors the original tool: a non-numeric pid is not rejected,
// it behaves as pid 0 and fails at the socket stage.
func parsePid(s string) int {
	pid, _ := strconv.Atoi(s)
	return pid
}

// attachOptions merges the config file values with the --tmp flag.
func attachOptions(conf *config.Config, tmpFlag string) attach.Options {
	opts := attach.Options{TmpDir: conf.TmpDir}
	if conf.AttachRetries != nil {
		opts.Retries = *conf.AttachRetries
	}
	if conf.AttachRetryInterval != nil {
		opts.RetryInterval = time.Duration(*conf.AttachRetryInterval) * time.Second
	}
	if tmpFlag != "" {
		opts.TmpDir = tmpFlag
	}
	return opts
}

// execute runs one attach transaction: locate or force the listener,
// connect, send the command, relay the response. The returned value is
// the process exit status.
func execute(conf *config.Config, args []string, stdout, stderr io.Writer) int {
	if err := logflags.Setup(log, logOutput, logDest); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	defer logflags.Close()

	pid := parsePid(args[0])
	opts := attachOptions(conf, tmpDir)
	opts.TmpDir = socketTmpDir(opts.TmpDir)

	if !attach.CheckSocket(opts.TmpDir, pid) {
		if err := attach.ForceAttachListener(pid, opts); err != nil {
			logflags.AttachLogger().Debugf("activation: %v", err)
			fmt.Fprintln(stderr, "Could not start attach mechanism")
			return 1
		}
	}

	conn, err := attach.Connect(opts.TmpDir, pid)
	if err != nil {
		logflags.AttachLogger().Debugf("connect: %v", err)
		fmt.Fprintln(stderr, "Could not connect to socket")
		return 1
	}
	defer conn.Close()

	fmt.Fprintln(stderr, connectedMessage(stderr))

	if err := attach.WriteCommand(conn, args[1], args[2:]...); err != nil {
		fmt.Fprintf(stderr, "Error sending command: %v\n", err)
		return 1
	}
	if err := attach.ReadResponse(stdout, conn); err != nil {
		// The response streamed up to the fault; report it, but the
		// transaction reached the relay stage.
		fmt.Fprintf(stderr, "Error reading response: %v\n", err)
	}
	fmt.Fprintln(stdout)
	return 0
}

func socketTmpDir(tmpDir string) string {
	if tmpDir == "" {
		return attach.DefaultTmpDir
	}
	return tmpDir
}

const (
	ansiGreen = "\033[32m"
	ansiReset = "\033[0m"
)

// connectedMessage colors the acknowledgement only when stderr is a
// terminal; stdout is reserved for the relayed response either way.
func connectedMessage(stderr io.Writer) string {
	const msg = "Connected to remote JVM"
	if f, ok := stderr.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return ansiGreen + msg + ansiReset
	}
	return msg
}
