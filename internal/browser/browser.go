// Package browser opens external links with the platform's default handler.
package browser

import (
	"fmt"
	osexec "os/exec"
	"runtime"

	"aisettings/internal/utils"
)

// Starter launches a detached command
type Starter func(name string, args ...string) error

func startDetached(name string, args ...string) error {
	cmd := osexec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// Opener opens http(s) links
type Opener struct {
	GOOS  string
	Start Starter
}

// New returns an Opener for the running platform
func New() *Opener {
	return &Opener{GOOS: runtime.GOOS, Start: startDetached}
}

// Open hands url to the platform opener. Only http and https links are accepted.
func (o *Opener) Open(url string) error {
	if !utils.ValidateURL(url) {
		return fmt.Errorf("refusing to open invalid URL: %s", url)
	}

	name, args := Command(o.GOOS, url)
	start := o.Start
	if start == nil {
		start = startDetached
	}
	if err := start(name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// Command returns the opener command line for goos
func Command(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
