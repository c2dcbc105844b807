package platform

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/wagiedev/query-engine-go/internal/errors"
)

const (
	// EngineBinaryPrefix is the file name prefix of every engine build.
	EngineBinaryPrefix = "query-engine-"

	// DefaultOpenSSL is assumed when the OpenSSL version cannot be probed.
	DefaultOpenSSL = "1.1.x"

	// opensslProbeTimeout bounds the `openssl version` call.
	opensslProbeTimeout = 2 * time.Second
)

// Platform identifies an engine build target, e.g. "darwin" or "debian-openssl-1.1.x".
type Platform string

// Well-known non-Linux platforms.
const (
	Darwin      Platform = "darwin"
	DarwinArm64 Platform = "darwin-arm64"
	Windows     Platform = "windows"
	LinuxMusl   Platform = "linux-musl"
)

// Config controls platform detection. Zero values fall back to the host.
type Config struct {
	// GOOS and GOARCH override runtime.GOOS and runtime.GOARCH.
	GOOS   string
	GOARCH string

	// OSReleasePath overrides the location of os-release (default /etc/os-release).
	OSReleasePath string

	// OpenSSLVersion overrides the `openssl version` probe.
	OpenSSLVersion func(ctx context.Context) (string, error)

	Logger *slog.Logger
}

// Detector resolves the Platform of the current host.
type Detector struct {
	cfg *Config
	log *slog.Logger
}

// NewDetector creates a Detector with the given configuration.
func NewDetector(cfg *Config) *Detector {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Detector{cfg: cfg, log: log}
}

// Detect returns the platform of the current host.
func Detect(ctx context.Context) (Platform, error) {
	return NewDetector(nil).Detect(ctx)
}

// Detect resolves the engine platform for the configured host.
//
// Unknown operating systems return *errors.PlatformError; without a platform
// there is no binary to run, so callers should not retry.
func (d *Detector) Detect(ctx context.Context) (Platform, error) {
	goos, goarch := d.cfg.GOOS, d.cfg.GOARCH
	if goos == "" {
		goos = runtime.GOOS
	}

	if goarch == "" {
		goarch = runtime.GOARCH
	}

	switch goos {
	case "darwin":
		if goarch == "arm64" {
			return DarwinArm64, nil
		}

		return Darwin, nil
	case "windows":
		return Windows, nil
	case "linux":
		return d.detectLinux(ctx, goarch), nil
	case "freebsd", "openbsd", "netbsd":
		return Platform(goos), nil
	default:
		return "", &errors.PlatformError{GOOS: goos, GOARCH: goarch}
	}
}

func (d *Detector) detectLinux(ctx context.Context, goarch string) Platform {
	distro := d.distro()
	if distro == "musl" {
		return LinuxMusl
	}

	ssl := d.openSSL(ctx)

	if goarch == "arm64" {
		return Platform("linux-arm64-openssl-" + ssl)
	}

	return Platform(distro + "-openssl-" + ssl)
}

// distro maps /etc/os-release to one of "musl", "rhel" or "debian".
func (d *Detector) distro() string {
	path := d.cfg.OSReleasePath
	if path == "" {
		path = "/etc/os-release"
	}

	f, err := os.Open(path)
	if err != nil {
		d.log.Debug("Could not read os-release, assuming debian", "path", path, "error", err)

		return "debian"
	}
	defer f.Close()

	var id, idLike string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}

		value = strings.Trim(value, `"'`)

		switch key {
		case "ID":
			id = strings.ToLower(value)
		case "ID_LIKE":
			idLike = strings.ToLower(value)
		}
	}

	switch {
	case id == "alpine":
		return "musl"
	case id == "rhel", id == "centos", id == "fedora", id == "amzn",
		strings.Contains(idLike, "rhel"), strings.Contains(idLike, "fedora"), strings.Contains(idLike, "centos"):
		return "rhel"
	default:
		return "debian"
	}
}

var opensslVersionRe = regexp.MustCompile(`^OpenSSL\s+(\d+)\.(\d+)`)

// openSSL returns the OpenSSL series suffix used in engine file names.
func (d *Detector) openSSL(ctx context.Context) string {
	probe := d.cfg.OpenSSLVersion
	if probe == nil {
		probe = runOpenSSLVersion
	}

	out, err := probe(ctx)
	if err != nil {
		d.log.Debug("OpenSSL probe failed, using default", "error", err, "default", DefaultOpenSSL)

		return DefaultOpenSSL
	}

	return ParseOpenSSLVersion(out)
}

// ParseOpenSSLVersion converts `openssl version` output into the engine's
// series notation ("1.0.x", "1.1.x", "3.0.x").
func ParseOpenSSLVersion(out string) string {
	match := opensslVersionRe.FindStringSubmatch(strings.TrimSpace(out))
	if match == nil {
		return DefaultOpenSSL
	}

	switch {
	case match[1] == "1" && match[2] == "0":
		return "1.0.x"
	case match[1] == "1":
		return "1.1.x"
	case match[1] == "3":
		return "3.0.x"
	default:
		return DefaultOpenSSL
	}
}

func runOpenSSLVersion(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opensslProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "openssl", "version").Output()
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// Executable returns the engine file name for p, applying the ".exe"
// extension on Windows.
func Executable(p Platform) string {
	name := EngineBinaryPrefix + string(p)
	if p == Windows {
		name += ".exe"
	}

	return name
}
