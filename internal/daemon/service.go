package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"text/template"

	"github.com/adrg/xdg"
)

// servicePlatform is the OS-specific half of service installation.
type servicePlatform interface {
	unitPath() string
	install(execPath string, debug bool) error
	uninstall(debug bool) error
}

// ServiceManager installs the daemon as a login service.
type ServiceManager struct {
	executablePath string
	platform       servicePlatform
	debug          bool
}

// NewServiceManager creates a service manager for the current OS.
func NewServiceManager() (*ServiceManager, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	var p servicePlatform
	switch runtime.GOOS {
	case "darwin":
		p = launchdPlatform{}
	case "linux":
		p = systemdPlatform{}
	default:
		return nil, fmt.Errorf("service installation not supported on %s", runtime.GOOS)
	}

	return &ServiceManager{executablePath: execPath, platform: p}, nil
}

// SetDebug enables debug output.
func (m *ServiceManager) SetDebug(debug bool) {
	m.debug = debug
}

// Install writes the service unit and activates it.
func (m *ServiceManager) Install() error {
	return m.platform.install(m.executablePath, m.debug)
}

// Uninstall deactivates the service and removes its unit.
func (m *ServiceManager) Uninstall() error {
	return m.platform.uninstall(m.debug)
}

// IsInstalled reports whether the service unit exists.
func (m *ServiceManager) IsInstalled() bool {
	_, err := os.Stat(m.platform.unitPath())
	return err == nil
}

// writeUnitFile renders tmplText with data into path, creating parent dirs.
func writeUnitFile(path, tmplText string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create service directory: %w", err)
	}

	tmpl, err := template.New(filepath.Base(path)).Parse(tmplText)
	if err != nil {
		return fmt.Errorf("failed to parse service template: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create service file: %w", err)
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// run executes a service-control command, returning combined output on error.
func run(name string, args ...string) error {
	if out, err := exec.Command(name, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s %v: %w: %s", name, args, err, string(out))
	}
	return nil
}

// macOS launchd

type launchdPlatform struct{}

const launchdPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>com.rutin.daemon</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.ExecutablePath}}</string>
        <string>daemon</string>
        <string>start</string>
        <string>--foreground</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <true/>
    <key>StandardOutPath</key>
    <string>{{.LogPath}}</string>
    <key>StandardErrorPath</key>
    <string>{{.LogPath}}</string>
    <key>WorkingDirectory</key>
    <string>{{.WorkingDirectory}}</string>
</dict>
</plist>
`

func (launchdPlatform) unitPath() string {
	return filepath.Join(os.Getenv("HOME"), "Library", "LaunchAgents", "com.rutin.daemon.plist")
}

func (p launchdPlatform) install(execPath string, debug bool) error {
	plistPath := p.unitPath()

	err := writeUnitFile(plistPath, launchdPlist, struct {
		ExecutablePath   string
		LogPath          string
		WorkingDirectory string
	}{execPath, GetLogPath(), filepath.Dir(execPath)})
	if err != nil {
		return err
	}

	if err := run("launchctl", "load", plistPath); err != nil {
		return fmt.Errorf("failed to load service: %w", err)
	}
	if debug {
		fmt.Printf("[DEBUG] Installed launchd service at %s\n", plistPath)
	}
	return nil
}

func (p launchdPlatform) uninstall(debug bool) error {
	plistPath := p.unitPath()

	// Unload before removing; ignore the error if it was never loaded.
	exec.Command("launchctl", "unload", plistPath).Run()

	if err := os.Remove(plistPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove plist file: %w", err)
	}
	if debug {
		fmt.Printf("[DEBUG] Uninstalled launchd service from %s\n", plistPath)
	}
	return nil
}

// Linux systemd (user unit)

type systemdPlatform struct{}

const systemdUnit = `[Unit]
Description=Rutin Background Daemon
After=network.target

[Service]
Type=simple
ExecStart={{.ExecutablePath}} daemon start --foreground
Restart=on-failure
RestartSec=5
StandardOutput=append:{{.LogPath}}
StandardError=append:{{.LogPath}}
Environment="HOME={{.HomeDirectory}}"
Environment="XDG_DATA_HOME={{.DataHome}}"
Environment="XDG_STATE_HOME={{.StateHome}}"

[Install]
WantedBy=default.target
`

func (systemdPlatform) unitPath() string {
	return filepath.Join(xdg.ConfigHome, "systemd", "user", "rutin.service")
}

func (p systemdPlatform) install(execPath string, debug bool) error {
	unitPath := p.unitPath()

	err := writeUnitFile(unitPath, systemdUnit, struct {
		ExecutablePath string
		LogPath        string
		HomeDirectory  string
		DataHome       string
		StateHome      string
	}{execPath, GetLogPath(), os.Getenv("HOME"), xdg.DataHome, xdg.StateHome})
	if err != nil {
		return err
	}

	for _, args := range [][]string{
		{"--user", "daemon-reload"},
		{"--user", "enable", "rutin.service"},
		{"--user", "start", "rutin.service"},
	} {
		if err := run("systemctl", args...); err != nil {
			return err
		}
	}
	if debug {
		fmt.Printf("[DEBUG] Installed systemd user service at %s\n", unitPath)
	}
	return nil
}

func (p systemdPlatform) uninstall(debug bool) error {
	unitPath := p.unitPath()

	// Stop and disable are best-effort; the unit may already be inactive.
	exec.Command("systemctl", "--user", "stop", "rutin.service").Run()
	exec.Command("systemctl", "--user", "disable", "rutin.service").Run()

	if err := os.Remove(unitPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove unit file: %w", err)
	}
	exec.Command("systemctl", "--user", "daemon-reload").Run()

	if debug {
		fmt.Printf("[DEBUG] Uninstalled systemd user service from %s\n", unitPath)
	}
	return nil
}
