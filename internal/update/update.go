// Package update checks, at most once a day, whether a newer gcop release
// exists. It only ever prints a notice; failures are logged and ignored.
package update

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/edhuardotierrez/gcop/internal/config"
)

const (
	DefaultURL    = "https://api.github.com/repos/edhuardotierrez/gcop/releases/latest"
	CheckInterval = 24 * time.Hour
	Timeout       = time.Second
	MetadataFile  = "metadata.toml"
)

// Metadata is the cached result of the last check.
type Metadata struct {
	LastCheck     time.Time `toml:"last_check"`
	LatestVersion string    `toml:"latest_version"`
}

// LoadMetadata reads path. A missing file yields zero Metadata.
func LoadMetadata(path string) (Metadata, error) {
	var m Metadata
	if _, err := toml.DecodeFile(path, &m); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Metadata{}, nil
		}
		return Metadata{}, fmt.Errorf("could not read %s: %w", path, err)
	}
	return m, nil
}

// SaveMetadata replaces path with m.
func SaveMetadata(path string, m Metadata) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return fmt.Errorf("could not encode metadata: %w", err)
	}
	return config.WriteFileAtomic(path, buf.Bytes(), 0o600)
}

// Checker compares Current with the latest published release.
type Checker struct {
	Dir     string
	Current string
	URL     string
	Client  *http.Client
	Now     func() time.Time
	Log     logrus.FieldLogger
}

// NewChecker returns a Checker caching into dir.
func NewChecker(dir, current string, log logrus.FieldLogger) *Checker {
	return &Checker{
		Dir:     dir,
		Current: current,
		URL:     DefaultURL,
		Client:  &http.Client{Timeout: Timeout},
		Now:     time.Now,
		Log:     log,
	}
}

func (c *Checker) path() string {
	return filepath.Join(c.Dir, MetadataFile)
}

func (c *Checker) log() logrus.FieldLogger {
	if c.Log != nil {
		return c.Log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Check returns the newer version when the release feed was consulted and
// differs from Current, "" otherwise. Development builds are never checked.
func (c *Checker) Check(ctx context.Context) string {
	current := normalize(c.Current)
	if current == "" || current == "dev" {
		return ""
	}

	now := c.Now()
	meta, err := LoadMetadata(c.path())
	if err != nil {
		c.log().WithError(err).Debug("ignoring unreadable update metadata")
	}
	if !meta.LastCheck.IsZero() && now.Sub(meta.LastCheck) < CheckInterval {
		return ""
	}

	latest, err := c.fetchLatest(ctx)
	if err != nil {
		c.log().WithError(err).Debug("update check failed")
		return ""
	}
	if err := SaveMetadata(c.path(), Metadata{LastCheck: now, LatestVersion: latest}); err != nil {
		c.log().WithError(err).Debug("could not save update metadata")
	}
	if normalize(latest) == current {
		return ""
	}
	return latest
}

func (c *Checker) fetchLatest(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: Timeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release feed returned HTTP %d", resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("parse release: %w", err)
	}
	if release.TagName == "" {
		return "", errors.New("release has no tag")
	}
	return release.TagName, nil
}

func normalize(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}
