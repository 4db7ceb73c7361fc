// Package instance maps compositor instance signatures to their socket
// files. It is the only place that reads the process environment.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

const (
	SignatureEnv  = "HYPRLAND_INSTANCE_SIGNATURE"
	RuntimeDirEnv = "XDG_RUNTIME_DIR"

	ControlSocketName = ".socket.sock"
	EventSocketName   = ".socket2.sock"

	legacyRuntimeDir = "/tmp/hypr"
)

var (
	// ErrNoInstance indicates the signature variable is unset.
	ErrNoInstance = errors.New("HYPRLAND_INSTANCE_SIGNATURE is not set; is Hyprland running?")
	// ErrInstanceNotFound indicates no socket directory exists for a signature.
	ErrInstanceNotFound = errors.New("hyprland instance not found")
)

// Paths are the resolved socket locations of one instance.
type Paths struct {
	Instance  string
	Directory string
	Control   string
	Events    string
}

// Resolver looks up instances. Zero-valued hooks fall back to the process
// environment, which keeps tests free of global state when they are set.
type Resolver struct {
	Getenv     func(string) string
	Getuid     func() int
	RuntimeDir string
	Stat       func(string) (os.FileInfo, error)
}

func (resolver Resolver) getenv(key string) string {
	if resolver.Getenv != nil {
		return resolver.Getenv(key)
	}
	return os.Getenv(key)
}

func (resolver Resolver) stat(path string) (os.FileInfo, error) {
	if resolver.Stat != nil {
		return resolver.Stat(path)
	}
	return os.Stat(path)
}

// Dir returns the directory holding one subdirectory per running instance.
func (resolver Resolver) Dir() string {
	if resolver.RuntimeDir != "" {
		return resolver.RuntimeDir
	}
	if dir := resolver.getenv(RuntimeDirEnv); dir != "" {
		return filepath.Join(dir, "hypr")
	}
	uid := os.Getuid()
	if resolver.Getuid != nil {
		uid = resolver.Getuid()
	}
	return filepath.Join("/run/user", strconv.Itoa(uid), "hypr")
}

// Current returns the signature of the instance this process runs under.
func (resolver Resolver) Current() (string, error) {
	signature := resolver.getenv(SignatureEnv)
	if signature == "" {
		return "", ErrNoInstance
	}
	return signature, nil
}

// Resolve returns the socket paths for signature. Older compositor releases
// kept their sockets under /tmp/hypr, which is checked second.
func (resolver Resolver) Resolve(signature string) (Paths, error) {
	if signature == "" {
		return Paths{}, ErrNoInstance
	}
	candidates := []string{filepath.Join(resolver.Dir(), signature)}
	if resolver.RuntimeDir == "" {
		candidates = append(candidates, filepath.Join(legacyRuntimeDir, signature))
	}
	for _, dir := range candidates {
		info, err := resolver.stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		return PathsIn(signature, dir), nil
	}
	return Paths{}, fmt.Errorf("%w: %s (looked in %s)", ErrInstanceNotFound, signature, candidates[0])
}

// List returns the signatures of every instance directory, sorted.
func (resolver Resolver) List() ([]string, error) {
	entries, err := os.ReadDir(resolver.Dir())
	if err != nil {
		return nil, err
	}
	signatures := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			signatures = append(signatures, entry.Name())
		}
	}
	sort.Strings(signatures)
	return signatures, nil
}

// PathsIn builds Paths for an instance directory without touching the disk.
func PathsIn(signature string, dir string) Paths {
	return Paths{
		Instance:  signature,
		Directory: dir,
		Control:   filepath.Join(dir, ControlSocketName),
		Events:    filepath.Join(dir, EventSocketName),
	}
}
