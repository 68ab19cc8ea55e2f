package platform

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
	OSAndroid = "android"
)

// File permissions
const (
	DefaultDirPermissions = 0o755
)

// Command constants
const (
	OpenCommand    = "open"
	XDGOpenCommand = "xdg-open"
	RundllCommand  = "rundll32"
	RundllHandler  = "url.dll,FileProtocolHandler"
	AndroidCommand = "am"
)

// StateDirName is the directory under the home directory holding local state
const StateDirName = ".toolboard"

// Linux browsers tried when xdg-open is missing
var (
	LinuxBrowsers = []string{"sensible-browser", "x-www-browser", "firefox", "chromium", "google-chrome"}
)

// ErrUnsupportedURL is returned for URLs that are not absolute http(s) URLs
var ErrUnsupportedURL = errors.New("unsupported url")

// commandRunner runs an external command; replaced in tests
var commandRunner = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// lookPath finds an executable; replaced in tests
var lookPath = exec.LookPath

// StateDir returns ~/.toolboard, or dir with ~ expanded when it is not empty
func StateDir(dir string) (string, error) {
	if dir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		return filepath.Join(home, StateDirName), nil
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", dir, err)
	}
	return filepath.Clean(expanded), nil
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists and is not a directory", dirPath)
	}
	return nil
}

// ValidateURL accepts absolute http and https URLs only
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, raw)
	}
	return u, nil
}

// OpenURL opens the URL in the system browser
func OpenURL(raw string) error {
	u, err := ValidateURL(raw)
	if err != nil {
		return err
	}
	return openURLFor(runtime.GOOS, u.String())
}

func openURLFor(goos, target string) error {
	switch goos {
	case OSDarwin:
		return commandRunner(OpenCommand, target)
	case OSWindows:
		return commandRunner(RundllCommand, RundllHandler, target)
	case OSLinux:
		return openURLLinux(target)
	case OSAndroid:
		return commandRunner(AndroidCommand, "start", "-a", "android.intent.action.VIEW", "-d", target)
	default:
		return fmt.Errorf("unsupported operating system: %s", goos)
	}
}

// openURLLinux prefers xdg-open and falls back to well-known browsers
func openURLLinux(target string) error {
	if _, err := lookPath(XDGOpenCommand); err == nil {
		return commandRunner(XDGOpenCommand, target)
	}
	for _, b := range LinuxBrowsers {
		if _, err := lookPath(b); err == nil {
			return commandRunner(b, target)
		}
	}
	return fmt.Errorf("no suitable browser found")
}
