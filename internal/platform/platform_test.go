package platform

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wagiedev/query-engine-go/internal/errors"
)

func writeOSRelease(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func staticSSL(version string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return version, nil }
}

func TestDetect_NonLinux(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         Platform
	}{
		{"darwin", "amd64", Darwin},
		{"darwin", "arm64", DarwinArm64},
		{"windows", "amd64", Windows},
		{"freebsd", "amd64", Platform("freebsd")},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			got, err := NewDetector(&Config{GOOS: tt.goos, GOARCH: tt.goarch}).Detect(context.Background())
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDetect_Linux(t *testing.T) {
	tests := []struct {
		name      string
		osRelease string
		goarch    string
		ssl       string
		want      Platform
	}{
		{"debian", "ID=debian\n", "amd64", "OpenSSL 1.1.1n  15 Mar 2022", "debian-openssl-1.1.x"},
		{"ubuntu openssl3", "ID=ubuntu\nID_LIKE=debian\n", "amd64", "OpenSSL 3.0.2 15 Mar 2022", "debian-openssl-3.0.x"},
		{"centos", "ID=\"centos\"\nID_LIKE=\"rhel fedora\"\n", "amd64", "OpenSSL 1.0.2k-fips", "rhel-openssl-1.0.x"},
		{"rocky via id_like", "ID=rocky\nID_LIKE=\"rhel centos fedora\"\n", "amd64", "OpenSSL 1.1.1k", "rhel-openssl-1.1.x"},
		{"alpine", "ID=alpine\n", "amd64", "OpenSSL 1.1.1", LinuxMusl},
		{"arm64", "ID=debian\n", "arm64", "OpenSSL 1.1.1", "linux-arm64-openssl-1.1.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(&Config{
				GOOS:           "linux",
				GOARCH:         tt.goarch,
				OSReleasePath:  writeOSRelease(t, tt.osRelease),
				OpenSSLVersion: staticSSL(tt.ssl),
			})

			got, err := d.Detect(context.Background())
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDetect_LinuxFallbacks(t *testing.T) {
	d := NewDetector(&Config{
		GOOS:          "linux",
		GOARCH:        "amd64",
		OSReleasePath: filepath.Join(t.TempDir(), "missing"),
		OpenSSLVersion: func(context.Context) (string, error) {
			return "", stderrors.New("openssl: not found")
		},
	})

	got, err := d.Detect(context.Background())
	require.NoError(t, err)
	require.Equal(t, Platform("debian-openssl-1.1.x"), got)
}

func TestDetect_Unsupported(t *testing.T) {
	_, err := NewDetector(&Config{GOOS: "plan9", GOARCH: "386"}).Detect(context.Background())

	require.Error(t, err)
	require.IsType(t, &errors.PlatformError{}, err)
	require.ErrorIs(t, err, errors.ErrUnsupportedPlatform)
}

func TestParseOpenSSLVersion(t *testing.T) {
	require.Equal(t, "1.0.x", ParseOpenSSLVersion("OpenSSL 1.0.2g  1 Mar 2016"))
	require.Equal(t, "1.1.x", ParseOpenSSLVersion("OpenSSL 1.1.0l  10 Sep 2019\n"))
	require.Equal(t, "3.0.x", ParseOpenSSLVersion("OpenSSL 3.1.4 24 Oct 2023"))
	require.Equal(t, DefaultOpenSSL, ParseOpenSSLVersion("LibreSSL 2.8.3"))
}

func TestExecutable(t *testing.T) {
	require.Equal(t, "query-engine-windows.exe", Executable(Windows))
	require.Equal(t, "query-engine-darwin", Executable(Darwin))
	require.Equal(t, "query-engine-debian-openssl-1.1.x", Executable("debian-openssl-1.1.x"))
}
