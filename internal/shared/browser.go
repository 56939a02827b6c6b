package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// OpenBrowser opens the default system browser at the specified URL, used to
// hand the user off to the streaming service's consent page.
//
// Supports macOS, Linux, and Windows.
func OpenBrowser(url string) error {
	var args []string
	switch rt := getRuntime(); rt {
	case "darwin":
		args = []string{"open", url}
	case "linux":
		args = []string{"xdg-open", url}
	case "windows":
		args = []string{"cmd", "/c", "start", url}
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := exec.Command(args[0], args[1:]...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
