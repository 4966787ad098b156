package adapter

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	m "crucible.dev/pkg/crucible/internal/model"
)

// UnityArchiveURL is the pinned upstream archive for the Unity framework.
const UnityArchiveURL = "https://github.com/ThrowTheSwitch/Unity/archive/refs/heads/master.zip"

// unityArchivePrefix is the archive subtree retained after extraction.
const unityArchivePrefix = "Unity-master/src/"

// FrameworkFetcher retrieves test framework sources from the network when no
// local reference copy is available.
type FrameworkFetcher interface {
	// FetchUnity downloads the pinned Unity archive and extracts only the
	// framework's src subtree into dest/src.
	FetchUnity(ctx context.Context, dest m.Path) error
}

// HTTPFrameworkFetcher downloads framework archives over HTTP.
type HTTPFrameworkFetcher struct {
	client *http.Client
	url    string
}

// NewHTTPFrameworkFetcher constructs a fetcher pinned to UnityArchiveURL.
func NewHTTPFrameworkFetcher() *HTTPFrameworkFetcher {
	return &HTTPFrameworkFetcher{
		client: http.DefaultClient,
		url:    UnityArchiveURL,
	}
}

// FetchUnity downloads and extracts the Unity source subtree.
func (f *HTTPFrameworkFetcher) FetchUnity(ctx context.Context, dest m.Path) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download unity archive: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download unity archive: unexpected status %s", resp.Status)
	}

	archive, err := os.CreateTemp("", "unity-*.zip")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}

	archivePath := archive.Name()

	defer func() { _ = os.Remove(archivePath) }()

	if _, err := io.Copy(archive, resp.Body); err != nil {
		_ = archive.Close()
		return fmt.Errorf("save unity archive: %w", err)
	}

	if err := archive.Close(); err != nil {
		return fmt.Errorf("close unity archive: %w", err)
	}

	return f.extract(archivePath, string(dest))
}

// extract copies the src subtree of the archive into dest/src.
func (f *HTTPFrameworkFetcher) extract(archivePath, dest string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open unity archive: %w", err)
	}

	defer func() { _ = reader.Close() }()

	for _, member := range reader.File {
		if !strings.HasPrefix(member.Name, unityArchivePrefix) {
			continue
		}

		rel := strings.TrimPrefix(member.Name, unityArchivePrefix)
		target := filepath.Join(dest, "src", filepath.FromSlash(rel))

		if member.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o750); err != nil {
				return err
			}

			continue
		}

		if err := extractMember(member, target); err != nil {
			return fmt.Errorf("extract %s: %w", member.Name, err)
		}
	}

	return nil
}

func extractMember(member *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return err
	}

	src, err := member.Open()
	if err != nil {
		return err
	}

	defer func() { _ = src.Close() }()

	// #nosec G304 - target is derived from the pinned archive layout
	dst, err := os.Create(target)
	if err != nil {
		return err
	}

	defer func() { _ = dst.Close() }()

	// #nosec G110 - archive is the pinned upstream framework, not user input
	_, err = io.Copy(dst, src)

	return err
}
