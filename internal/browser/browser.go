// Package browser opens URLs in the user's default web browser.
package browser

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// Opener opens a URL for the user to visit. It returns as soon as the request has been
// handed off; it does not wait for the page to be closed.
type Opener func(url string) error

// Open launches the platform's default URL handler
func Open(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New("empty url")
	}
	_, err := start(command(runtime.GOOS, url))
	return err
}

// start launches cmd and reaps it in the background; the returned channel is closed
// once the process has exited
func start(cmd *exec.Cmd) (<-chan struct{}, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		cmd.Wait()
	}()
	return exited, nil
}

func command(goos, url string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.Command("xdg-open", url)
	}
}
