package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetwise/internal/config"
	"github.com/theirongolddev/budgetwise/internal/server"
)

type serverRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
}

var (
	flagServeAddr         string
	flagServeOrigins      []string
	flagServeEventsBuffer int
	flagServeDetach       bool
	flagServePIDFile      string
	flagServeLogFile      string
	flagServeChild        bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the budget advice HTTP API",
	Long: "Serve POST /budget (and /v1/budget, /v1/message) plus catalog, status and\n" +
		"event endpoints. Runs in the foreground unless --detach is given.",
	RunE: runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server process and API status",
	RunE:  runServeStatus,
}

var serveStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a detached server",
	RunE:  runServeStop,
}

func init() {
	defaultPID := filepath.Join(config.DataDir(), "budgetwise.pid")
	defaultLog := filepath.Join(config.DataDir(), "budgetwise.log")

	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config, "+config.DefaultConfig().Server.Addr+")")
	serveCmd.PersistentFlags().StringVar(&flagServePIDFile, "pid-file", defaultPID, "PID file path")
	serveCmd.PersistentFlags().StringVar(&flagServeLogFile, "log-file", defaultLog, "Log file path for detached mode")

	serveCmd.Flags().StringSliceVar(&flagServeOrigins, "allow-origin", nil, "CORS allowed origin (repeatable; default from config)")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory session events retained")
	serveCmd.Flags().BoolVar(&flagServeDetach, "detach", false, "Run the server as a background process")
	serveCmd.Flags().BoolVar(&flagServeChild, "child", false, "Internal: mark detached child process")
	_ = serveCmd.Flags().MarkHidden("child")

	serveCmd.AddCommand(serveStatusCmd)
	serveCmd.AddCommand(serveStopCmd)
	rootCmd.AddCommand(serveCmd)
}

func serveAddr() string {
	if flagServeAddr != "" {
		return flagServeAddr
	}
	return appCfg.Server.Addr
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagServeDetach && flagServeChild {
		return errors.New("invalid server launch mode")
	}
	if flagServeDetach {
		return startServerDetached()
	}
	return runServerForeground()
}

func startServerDetached() error {
	if err := ensureServerNotRunning(flagServePIDFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagServePIDFile), 0o750); err != nil {
		return fmt.Errorf("create server directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagServeLogFile), 0o750); err != nil {
		return fmt.Errorf("create server log directory: %w", err)
	}

	//nolint:gosec // log path is configured by the local user
	logf, err := os.OpenFile(flagServeLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open server log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Env = os.Environ()

	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached server: %w", err)
	}

	fmt.Printf("  Started budget server (pid %d)\n", child.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagServePIDFile)
	fmt.Printf("  API: http://%s/budget\n", serveAddr())
	fmt.Printf("  Log: %s\n", flagServeLogFile)
	return nil
}

func runServerForeground() error {
	if err := ensureServerNotRunning(flagServePIDFile); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(flagServePIDFile), 0o750); err != nil {
		return fmt.Errorf("create server directory: %w", err)
	}

	pid := os.Getpid()
	if err := writePID(flagServePIDFile, pid); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagServePIDFile) }()

	addr := serveAddr()
	_ = writeState(statePath(flagServePIDFile), serverRuntimeState{PID: pid, Addr: addr, StartedAt: time.Now()})
	defer func() { _ = os.Remove(statePath(flagServePIDFile)) }()

	bc, err := budgetConfig()
	if err != nil {
		return err
	}
	origins := flagServeOrigins
	if len(origins) == 0 {
		origins = appCfg.Server.AllowedOrigins
	}

	svc := server.New(server.Config{
		Addr:           addr,
		AllowedOrigins: origins,
		EventsBuffer:   flagServeEventsBuffer,
		Budget:         bc,
		Logger:         serverLogger(),
	})

	fmt.Printf("  budgetwise listening on http://%s\n", addr)
	fmt.Printf("  Catalog: %d expenses, reduction order %s\n", bc.Catalog.Size(), policyLabel(bc.Policy))
	fmt.Printf("  Stop with: Ctrl+C or budgetwise serve stop --pid-file %s\n", flagServePIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	addr := serveAddr()
	pid, err := readPID(flagServePIDFile)
	switch {
	case err != nil:
		fmt.Printf("  Server: no pid file, probing %s\n", addr)
	case !processAlive(pid):
		fmt.Printf("  Server: stale pid file (pid %d not alive)\n", pid)
		return nil
	default:
		if st, err := readState(statePath(flagServePIDFile)); err == nil && st.Addr != "" {
			addr = st.Addr
		}
		fmt.Printf("  Server PID: %d\n", pid)
	}
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st server.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	fmt.Printf("  Up since: %s\n", st.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Catalog size: %d\n", st.CatalogSize)
	fmt.Printf("  Sessions: %d (%d below target)\n", st.Sessions, st.Shortfalls)
	fmt.Printf("  Rejected: %d\n", st.Rejected)
	if !st.LastSessionAt.IsZero() {
		fmt.Printf("  Last session: %s\n", st.LastSessionAt.Local().Format(time.RFC3339))
	}
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runServeStop(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagServePIDFile)
	if err != nil {
		return errors.New("server is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find server process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal server process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(flagServePIDFile)
			_ = os.Remove(statePath(flagServePIDFile))
			fmt.Printf("  Stopped budget server (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("server (pid %d) did not exit in time", pid)
}

// serverLogger logs requests at Info even without --verbose.
func serverLogger() *slog.Logger {
	if flagVerbose {
		return logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func ensureServerNotRunning(pidFile string) error {
	pid, err := readPID(pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("server already running (pid %d)", pid)
	}
	_ = os.Remove(pidFile)
	_ = os.Remove(statePath(pidFile))
	return nil
}

func writePID(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func readPID(path string) (int, error) {
	//nolint:gosec // pid path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func statePath(pidFile string) string {
	return pidFile + ".json"
}

func writeState(path string, st serverRuntimeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readState(path string) (serverRuntimeState, error) {
	var st serverRuntimeState
	//nolint:gosec // state path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}
