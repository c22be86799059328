package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/velorie/ticketarchive/internal/domain/transcript"
	"github.com/velorie/ticketarchive/internal/shared/logger"
)

const recordExt = ".json"

// FileStore keeps one JSON file per transcript in a directory.
//
// Every write goes to a temporary file in the same directory which is synced
// and then moved into place, so readers see the old file or the new one and
// never a partial write. Under ConflictReject the move is a hard link, which
// fails atomically when the target already exists.
type FileStore struct {
	dir    string
	policy transcript.ConflictPolicy
	logger logger.Interface
}

func NewFileStore(dir string, policy transcript.ConflictPolicy, logger logger.Interface) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if !policy.IsValid() {
		return nil, fmt.Errorf("unknown conflict policy %q", policy)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	return &FileStore{
		dir:    dir,
		policy: policy,
		logger: logger,
	}, nil
}

func (s *FileStore) path(transcriptID string) string {
	return filepath.Join(s.dir, transcriptID+recordExt)
}

func (s *FileStore) Create(ctx context.Context, t *transcript.Transcript) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := transcript.ValidateIdentifier(t.ID()); err != nil {
		return err
	}

	data, err := encodeRecord(t)
	if err != nil {
		return err
	}

	tmpPath, err := s.writeTemp(data)
	if err != nil {
		return err
	}
	defer os.Remove(tmpPath)

	target := s.path(t.ID())
	switch s.policy {
	case transcript.ConflictReject:
		if err := os.Link(tmpPath, target); err != nil {
			if stderrors.Is(err, fs.ErrExist) {
				return fmt.Errorf("%w: %s", transcript.ErrTranscriptExists, t.ID())
			}
			return fmt.Errorf("failed to publish transcript file: %w", err)
		}
	default:
		if err := os.Rename(tmpPath, target); err != nil {
			return fmt.Errorf("failed to publish transcript file: %w", err)
		}
	}

	if err := syncDir(s.dir); err != nil {
		s.logger.Warnw("failed to sync data directory", "dir", s.dir, "error", err)
	}

	s.logger.Debugw("transcript file written", "transcript_id", t.ID(), "path", target, "bytes", len(data))
	return nil
}

func (s *FileStore) writeTemp(data []byte) (string, error) {
	f, err := os.CreateTemp(s.dir, ".ingest-*"+recordExt+".tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to set file mode: %w", err)
	}
	return f.Name(), nil
}

func (s *FileStore) Fetch(ctx context.Context, transcriptID string) (*transcript.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := transcript.ValidateIdentifier(transcriptID); err != nil {
		return nil, fmt.Errorf("%w: %v", transcript.ErrTranscriptNotFound, err)
	}

	data, err := os.ReadFile(s.path(transcriptID))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", transcript.ErrTranscriptNotFound, transcriptID)
		}
		return nil, fmt.Errorf("failed to read transcript file: %w", err)
	}

	return decodeRecord(transcriptID, data)
}

// Ping checks that the data directory is still present and writable.
func (s *FileStore) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", s.dir)
	}
	f, err := os.CreateTemp(s.dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("data directory not writable: %w", err)
	}
	f.Close()
	return os.Remove(f.Name())
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
