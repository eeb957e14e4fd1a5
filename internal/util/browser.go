package util

import (
	"errors"
	"os/exec"
	"runtime"
)

// launchers commands that can show url on goos, most preferred first.
// rundll32 comes before explorer on Windows because "start" misbehaves on Windows 7.
func launchers(goos, url string) [][]string {
	switch goos {
	case "windows":
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	default:
		out := [][]string{{"xdg-open", url}}
		for _, b := range []string{"sensible-browser", "firefox", "google-chrome", "chromium"} {
			out = append(out, []string{b, url})
		}
		return out
	}
}

// OpenBrowser starts the first launcher that can be spawned; the process is not waited on
func OpenBrowser(url string) error {
	var errs []error
	for _, argv := range launchers(runtime.GOOS, url) {
		err := exec.Command(argv[0], argv[1:]...).Start()
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
