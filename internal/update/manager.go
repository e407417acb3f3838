package update

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// The release channel is a single well-known artifact; its embedded VERSION
// marker doubles as the version endpoint. One GET per check, no retries — a
// failed check is terminal for that check and never mistaken for "no update
// available".
const releaseURL = "https://raw.githubusercontent.com/lakshaymaurya-felt/linmole/main/install/lm.sh"

const (
	checkTimeout    = 10 * time.Second
	downloadTimeout = 60 * time.Second
	// backgroundInterval is how long between silent update checks.
	backgroundInterval = 24 * time.Hour
	// backgroundTimeout keeps the silent check from delaying startup.
	backgroundTimeout = 3 * time.Second
)

// Status is the terminal state of an update attempt.
type Status int

const (
	StatusUpToDate Status = iota
	StatusUpdated
	StatusDeclined
)

// Candidate is a fetched release being considered for installation. It is
// created when a check finds a different remote version and destroyed —
// staging file removed — on validation failure or after a successful swap.
type Candidate struct {
	SourceURL         string
	ExpectedVersion   string
	StagingPath       string
	DownloadedVersion string
}

// Discard removes the candidate's staging file. Safe to call twice.
func (c *Candidate) Discard() {
	if c.StagingPath != "" {
		os.Remove(c.StagingPath)
		c.StagingPath = ""
	}
}

// Manager drives the check → download → validate → install pipeline.
type Manager struct {
	client     *resty.Client
	log        logrus.FieldLogger
	releaseURL string
}

// NewManager returns a Manager talking to the fixed release channel. log may
// be nil for tests.
func NewManager(log logrus.FieldLogger) *Manager {
	return &Manager{
		client:     resty.New().SetRetryCount(0),
		log:        log,
		releaseURL: releaseURL,
	}
}

// FetchRemoteVersion fetches the release artifact's head and extracts its
// version marker. Network failure or a missing marker is an error — never
// silently reported as "up to date".
func (m *Manager) FetchRemoteVersion(ctx context.Context, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := m.client.R().SetContext(ctx).Get(m.releaseURL)
	if err != nil {
		return "", fmt.Errorf("fetch release: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetch release: HTTP %d", resp.StatusCode())
	}
	return extractVersion(resp.Body())
}

// DownloadToStaging writes the release payload to a private temporary file
// and returns its path. An empty payload is a failed transfer.
func (m *Manager) DownloadToStaging(ctx context.Context, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := m.client.R().SetContext(ctx).Get(m.releaseURL)
	if err != nil {
		return "", fmt.Errorf("download release: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("download release: HTTP %d", resp.StatusCode())
	}
	payload := resp.Body()
	if len(payload) == 0 {
		return "", errors.New("download release: empty payload")
	}

	stage, err := os.CreateTemp("", "lm-update-*")
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}
	stagePath := stage.Name()
	if _, err := stage.Write(payload); err != nil {
		stage.Close()
		os.Remove(stagePath)
		return "", fmt.Errorf("write staging file: %w", err)
	}
	if err := stage.Close(); err != nil {
		os.Remove(stagePath)
		return "", fmt.Errorf("flush staging file: %w", err)
	}
	return stagePath, nil
}

// Validate checks that a staged artifact is a plausible release: it must
// start with a recognizable executable marker and its embedded version must
// byte-equal the version the check advertised. Either failing invalidates
// the candidate.
func Validate(stagingPath, expectedVersion string) error {
	f, err := os.Open(stagingPath)
	if err != nil {
		return fmt.Errorf("open staged artifact: %w", err)
	}
	head := make([]byte, headLimit)
	n, _ := f.Read(head)
	f.Close()
	head = head[:n]

	if !hasExecutableMarker(head) {
		return errors.New("staged artifact has no executable marker")
	}
	got, err := extractVersion(head)
	if err != nil {
		return fmt.Errorf("staged artifact: %w", err)
	}
	if got != expectedVersion {
		return fmt.Errorf("staged artifact is version %q, expected %q", got, expectedVersion)
	}
	return nil
}

// Run executes the full update pipeline against the given install target.
// confirm is consulted between check and download; nil means proceed. Every
// failure leaves the installed executable untouched.
func (m *Manager) Run(ctx context.Context, current, target string, confirm func(current, remote string) bool) (Status, error) {
	remote, err := m.FetchRemoteVersion(ctx, checkTimeout)
	if err != nil {
		return StatusUpToDate, fmt.Errorf("version check failed: %w", err)
	}
	if remote == current {
		return StatusUpToDate, nil
	}
	if confirm != nil && !confirm(current, remote) {
		return StatusDeclined, nil
	}

	staging, err := m.DownloadToStaging(ctx, downloadTimeout)
	if err != nil {
		return StatusUpToDate, err
	}
	cand := &Candidate{
		SourceURL:       m.releaseURL,
		ExpectedVersion: remote,
		StagingPath:     staging,
	}
	defer cand.Discard()

	if err := Validate(staging, remote); err != nil {
		return StatusUpToDate, err
	}
	cand.DownloadedVersion = remote

	if err := AtomicInstall(staging, target); err != nil {
		return StatusUpToDate, fmt.Errorf("install failed: %w", err)
	}
	if m.log != nil {
		m.log.WithField("version", remote).Info("updated")
	}
	return StatusUpdated, nil
}

// MaybeBackgroundCheck performs the silent periodic version check. All
// failures are swallowed from the interactive flow and emitted only to the
// diagnostic log; on success with a differing remote version it returns a
// one-line notice for the caller to print. record persists the check time
// regardless of outcome so a flaky network doesn't retry on every launch.
func (m *Manager) MaybeBackgroundCheck(current string, lastCheck time.Time, record func(time.Time)) string {
	if time.Since(lastCheck) < backgroundInterval {
		return ""
	}
	if record != nil {
		record(time.Now())
	}

	ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
	defer cancel()

	remote, err := m.FetchRemoteVersion(ctx, backgroundTimeout)
	if err != nil {
		if m.log != nil {
			m.log.WithError(err).Debug("background update check failed")
		}
		return ""
	}
	if remote == current {
		return ""
	}
	return fmt.Sprintf("A new version of linmole is available: %s (installed: %s). Run 'lm update' to install.", remote, current)
}
