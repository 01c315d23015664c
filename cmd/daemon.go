package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hatamisg/rutin/internal/daemon"
)

var (
	daemonStartFlagForeground bool
	daemonLogsFlagTail        int
	daemonLogsFlagFollow      bool
	daemonInstallFlagForce    bool
)

var daemonCmd = &cobra.Command{
	Use:     "daemon [command]",
	Aliases: []string{"bg", "service"},
	Short:   "Manage the background daemon",
	Long: `Manage the Rutin background daemon that keeps the published snapshot
fresh, watches for habits at risk of losing their streak near the end of
the day, and republishes everything at midnight rollover.

Examples:
  rutin daemon start
  rutin daemon status
  rutin daemon stop
  rutin daemon logs --tail 20`,
	RunE: runDaemonStatus,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the background daemon",
	Long: `Start the Rutin background daemon.

The daemon republishes the snapshot as timers tick, warns via webhooks
when a due habit is still unmet late in the day, and rolls the snapshot
over at midnight.

Examples:
  rutin daemon start           # Start in background
  rutin daemon start --foreground`,
	RunE: runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background daemon",
	RunE:  runDaemonStop,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE:  runDaemonStatus,
}

var daemonLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View daemon logs",
	Long: `View the daemon log file.

Examples:
  rutin daemon logs
  rutin daemon logs --tail 50
  rutin daemon logs --follow`,
	RunE: runDaemonLogs,
}

var daemonInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install daemon as a system service",
	Long: `Install the Rutin daemon as a system service that starts automatically on login.

On macOS, this creates a launchd agent in ~/Library/LaunchAgents.
On Linux, this creates a systemd user service in ~/.config/systemd/user.`,
	RunE: runDaemonInstall,
}

var daemonUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall daemon system service",
	RunE:  runDaemonUninstall,
}

func init() {
	daemonStartCmd.Flags().BoolVar(&daemonStartFlagForeground, "foreground", false,
		"Run in foreground (don't daemonize)")
	daemonLogsCmd.Flags().IntVarP(&daemonLogsFlagTail, "tail", "n", 20,
		"Number of lines to show")
	daemonLogsCmd.Flags().BoolVar(&daemonLogsFlagFollow, "follow", false,
		"Follow log output (like tail -f)")
	daemonInstallCmd.Flags().BoolVar(&daemonInstallFlagForce, "force", false,
		"Force reinstall if already installed")

	daemonCmd.AddCommand(daemonStartCmd, daemonStopCmd, daemonStatusCmd,
		daemonLogsCmd, daemonInstallCmd, daemonUninstallCmd)
	rootCmd.AddCommand(daemonCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	if !daemonStartFlagForeground {
		return startDaemonDetached()
	}

	// Foreground mode shares the already-open context database.
	d := daemon.NewDaemon(ctx.DB, "")
	d.SetDebug(ctx.Debug)
	d.SetVersion(Version)

	if d.IsRunning() {
		pid := d.GetStatus().PID
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(daemonActionOutput{Status: "already_running", PID: pid})
		}
		return fmt.Errorf("daemon is already running (PID: %d)", pid)
	}

	if ctx.IsCLI() {
		if webhooks, err := ctx.WebhookRepo.ListEnabled(); err == nil && len(webhooks) == 0 {
			ctx.CLIFormatter().Warning("No webhooks configured. Add with: rutin webhook add")
		}
		ctx.Formatter.Println("Starting rutin daemon (foreground mode)...")
	}
	return d.Start(context.Background())
}

// daemonActionOutput is the JSON shape for daemon lifecycle commands.
type daemonActionOutput struct {
	Status  string `json:"status"`
	PID     int    `json:"pid,omitempty"`
	Message string `json:"message,omitempty"`
}

// startDaemonDetached spawns a child daemon process without holding the
// database lock; Badger allows only one writer process.
func startDaemonDetached() error {
	d := daemon.NewDaemon(nil, "")
	d.SetDebug(flagDebug)

	if d.IsRunning() {
		return fmt.Errorf("daemon is already running (PID: %d)", d.GetStatus().PID)
	}

	fmt.Println("Starting rutin daemon...")
	pid, err := d.StartBackground()
	if err != nil {
		return err
	}
	fmt.Printf("Daemon started (PID: %d)\n", pid)
	return nil
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	d := daemon.NewDaemon(nil, "")
	if !d.IsRunning() {
		fmt.Println("Daemon is not running")
		return nil
	}

	pid := d.GetStatus().PID
	fmt.Println("Stopping rutin daemon...")
	if err := d.Stop(); err != nil {
		return err
	}
	fmt.Printf("Daemon stopped (was PID: %d)\n", pid)
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	status := daemon.NewDaemon(nil, "").GetStatus()

	if ctx != nil && ctx.IsJSON() {
		return ctx.Formatter.JSON(status)
	}

	fmt.Println("Rutin Daemon Status")
	fmt.Println()
	if !status.Running {
		fmt.Println("  Status:    stopped")
		fmt.Println()
		fmt.Println("Start with: rutin daemon start")
		return nil
	}
	fmt.Printf("  Status:    running\n  PID:       %d\n  Uptime:    %s\n",
		status.PID, status.Uptime)
	if h := status.Health; h != nil {
		fmt.Printf("  Health:    %s (%.1f MB, %d goroutines)\n",
			h.Status, h.MemoryMB, h.Goroutines)
		if h.RunningTimers > 0 {
			fmt.Printf("  Timers:    %d running\n", h.RunningTimers)
		}
	}
	if m := status.Metrics; m != nil {
		fmt.Printf("  Notified:  %d sent, %d failed\n",
			m.NotificationsSentTotal, m.NotificationsFailedTotal)
	}
	return nil
}

func runDaemonLogs(cmd *cobra.Command, args []string) error {
	logPath := daemon.GetLogPath()
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Println("No log file found.")
		fmt.Printf("Log path: %s\n", logPath)
		return nil
	}

	if daemonLogsFlagFollow {
		return followLogs(logPath)
	}

	lines, err := tailFile(logPath, daemonLogsFlagTail)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

// tailFile returns the last n lines of the file at path.
func tailFile(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
		if len(lines) > n {
			lines = lines[1:]
		}
	}
	return lines, sc.Err()
}

// followLogs streams appended lines, polling on EOF.
func followLogs(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	f.Seek(0, 2)
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			time.Sleep(500 * time.Millisecond)
			continue
		}
		fmt.Print(line)
	}
}

func runDaemonInstall(cmd *cobra.Command, args []string) error {
	mgr, err := daemon.NewServiceManager()
	if err != nil {
		return err
	}
	mgr.SetDebug(ctx.Debug)

	if mgr.IsInstalled() {
		if !daemonInstallFlagForce {
			if ctx.IsJSON() {
				return ctx.Formatter.JSON(daemonActionOutput{Status: "already_installed"})
			}
			ctx.Formatter.Println("Service is already installed.")
			ctx.Formatter.Println("Use --force to reinstall.")
			return nil
		}
		if ctx.IsCLI() {
			ctx.Formatter.Println("Removing existing service...")
		}
		if err := mgr.Uninstall(); err != nil {
			return fmt.Errorf("failed to remove existing service: %w", err)
		}
	}

	if ctx.IsCLI() {
		ctx.Formatter.Println("Installing Rutin daemon as system service...")
	}
	if err := mgr.Install(); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(daemonActionOutput{
			Status:  "installed",
			Message: "Service will start automatically on login",
		})
	}
	cli := ctx.CLIFormatter()
	cli.Success("Service installed")
	ctx.Formatter.Println()
	ctx.Formatter.Println("The daemon will now start automatically when you log in.")
	ctx.Formatter.Println("To start it now: rutin daemon start")
	ctx.Formatter.Println("To remove: rutin daemon uninstall")
	return nil
}

func runDaemonUninstall(cmd *cobra.Command, args []string) error {
	mgr, err := daemon.NewServiceManager()
	if err != nil {
		return err
	}
	mgr.SetDebug(ctx.Debug)

	if !mgr.IsInstalled() {
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(daemonActionOutput{Status: "not_installed"})
		}
		ctx.Formatter.Println("Service is not installed.")
		return nil
	}
	if err := mgr.Uninstall(); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(daemonActionOutput{Status: "uninstalled"})
	}
	ctx.CLIFormatter().Success("Service uninstalled")
	return nil
}
