// Package backup takes encrypted snapshots of the society database and keeps
// them in S3-compatible object storage.
package backup

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dukerupert/society/internal/events"
)

const keyPrefix = "society/"

var (
	ErrDisabled   = errors.New("backup not configured")
	ErrInProgress = errors.New("backup already in progress")
)

// s3Client is the subset of the S3 API the manager uses.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Config holds backup manager configuration. A zero Interval disables the
// schedule; a zero Retention keeps every snapshot.
type Config struct {
	S3         S3Config
	Passphrase string
	Interval   time.Duration
	Retention  time.Duration
}

func (c Config) enabled() bool {
	return c.S3.Bucket != "" && c.S3.AccessKey != "" && c.S3.SecretKey != "" && c.Passphrase != ""
}

type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

type Status struct {
	State      State      `json:"state"`
	LastBackup *time.Time `json:"lastBackup,omitempty"`
	LastKey    string     `json:"lastKey,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Result describes one uploaded snapshot.
type Result struct {
	Key       string    `json:"key"`
	SizeBytes int64     `json:"sizeBytes"`
	TakenAt   time.Time `json:"takenAt"`
	Pruned    int       `json:"pruned"`
}

// Manager runs snapshots on demand and on a fixed interval.
type Manager struct {
	mu     sync.Mutex
	cfg    Config
	status Status

	db     *sql.DB
	client s3Client
	feed   events.Broadcaster
	logger *slog.Logger
	now    func() time.Time
}

// NewManager returns a manager for db. When cfg is incomplete the manager is
// disabled and RunNow reports ErrDisabled.
func NewManager(cfg Config, db *sql.DB, feed events.Broadcaster, logger *slog.Logger) *Manager {
	var client s3Client
	if cfg.enabled() {
		client = newS3Client(cfg.S3)
	}
	return newManager(cfg, db, client, feed, logger)
}

func newManager(cfg Config, db *sql.DB, client s3Client, feed events.Broadcaster, logger *slog.Logger) *Manager {
	if feed == nil {
		feed = events.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		cfg:    cfg,
		db:     db,
		client: client,
		feed:   feed,
		logger: logger,
		now:    time.Now,
		status: Status{State: StateDisabled},
	}
	if client != nil {
		m.status.State = StateIdle
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether snapshots can be taken.
func (m *Manager) Enabled() bool {
	return m.client != nil
}

// Status returns the current backup status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Run takes a snapshot every Interval until ctx is cancelled. It returns
// immediately when the manager is disabled or has no schedule.
func (m *Manager) Run(ctx context.Context) {
	if m.client == nil || m.cfg.Interval <= 0 {
		return
	}
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.RunNow(ctx); err != nil && !errors.Is(err, ErrInProgress) {
				m.logger.Error("scheduled backup failed", "error", err)
			}
		}
	}
}

// RunNow snapshots the database, encrypts it, uploads it and prunes
// snapshots older than the retention window.
func (m *Manager) RunNow(ctx context.Context) (Result, error) {
	if m.client == nil {
		return Result{}, ErrDisabled
	}

	m.mu.Lock()
	if m.status.State == StateRunning {
		m.mu.Unlock()
		return Result{}, ErrInProgress
	}
	prev := m.status
	m.status = Status{State: StateRunning, LastBackup: prev.LastBackup, LastKey: prev.LastKey}
	m.mu.Unlock()

	res, err := m.upload(ctx)
	if err != nil {
		m.setStatus(Status{State: StateError, LastBackup: prev.LastBackup, LastKey: prev.LastKey, Error: err.Error()})
		return Result{}, err
	}

	m.setStatus(Status{State: StateIdle, LastBackup: &res.TakenAt, LastKey: res.Key})
	m.logger.Info("backup uploaded", "key", res.Key, "size_bytes", res.SizeBytes)

	if m.cfg.Retention > 0 {
		pruned, err := m.Prune(ctx)
		if err != nil {
			m.logger.Warn("backup prune failed", "error", err)
		}
		res.Pruned = pruned
	}

	m.feed.Broadcast(events.NewMessage(events.EntityBackup, events.ActionCompleted, res.Key, map[string]any{
		"sizeBytes": res.SizeBytes,
		"pruned":    res.Pruned,
	}))
	return res, nil
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}

func (m *Manager) upload(ctx context.Context) (Result, error) {
	takenAt := m.now().UTC()

	plain, err := m.snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	sealed, err := Seal(plain, m.cfg.Passphrase)
	if err != nil {
		return Result{}, fmt.Errorf("encrypt: %w", err)
	}

	key := snapshotKey(takenAt)
	if _, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.cfg.S3.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(sealed),
		ContentLength: aws.Int64(int64(len(sealed))),
	}); err != nil {
		return Result{}, fmt.Errorf("upload to s3: %w", err)
	}
	return Result{Key: key, SizeBytes: int64(len(sealed)), TakenAt: takenAt}, nil
}

// snapshotKey names an object by its UTC time, with a random suffix so two
// runs in the same millisecond never overwrite each other.
func snapshotKey(t time.Time) string {
	return keyPrefix + "backup-" + t.UTC().Format("2006-01-02T150405.000Z") + "-" + uuid.NewString()[:8] + ".db.enc"
}

// snapshot writes a consistent copy of the live database with VACUUM INTO
// and returns its bytes. It works for file and in-memory databases alike.
func (m *Manager) snapshot(ctx context.Context) ([]byte, error) {
	dir, err := os.MkdirTemp("", "society-backup-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "snapshot.db")
	if _, err := m.db.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return nil, fmt.Errorf("snapshot database: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// Prune deletes snapshots last modified before the retention window and
// returns how many were removed. Individual delete failures are logged.
func (m *Manager) Prune(ctx context.Context) (int, error) {
	if m.client == nil || m.cfg.Retention <= 0 {
		return 0, nil
	}
	cutoff := m.now().UTC().Add(-m.cfg.Retention)

	var stale []string
	p := s3.NewListObjectsV2Paginator(m.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.cfg.S3.Bucket),
		Prefix: aws.String(keyPrefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("list backups: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil && obj.LastModified != nil && obj.LastModified.Before(cutoff) {
				stale = append(stale, *obj.Key)
			}
		}
	}

	deleted := 0
	for _, key := range stale {
		if _, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(m.cfg.S3.Bucket),
			Key:    aws.String(key),
		}); err != nil {
			m.logger.Warn("failed to delete backup", "key", key, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}
