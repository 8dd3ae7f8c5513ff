package organize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"

	"docshelf/internal/config"
	"docshelf/internal/logging"
	"docshelf/internal/retry"
	"docshelf/internal/services"
	"docshelf/internal/textutil"
)

// Organizer moves processed files into the organized root under their
// candidate names: sanitize, resolve conflicts with numeric suffixes, then
// rename with bounded retry on permission errors. The probe+rename sequence
// runs under a file lock scoped to the organized root so two docshelf
// processes sharing a root cannot race the existence check.
type Organizer struct {
	root    string
	policy  retry.Policy
	rootLck *flock.Flock
	logger  *slog.Logger
}

// NewOrganizer constructs the organizing service from application configuration.
func NewOrganizer(cfg *config.Config, logger *slog.Logger) *Organizer {
	root := ""
	policy := retry.Policy{MaxAttempts: 1}
	if cfg != nil {
		root = cfg.Paths.OrganizedDir
		policy = retry.Policy{
			MaxAttempts: cfg.Processing.RetryAttempts,
			Delay:       time.Duration(cfg.Processing.RetryDelaySeconds) * time.Second,
			ShouldRetry: func(err error) bool { return errors.Is(err, fs.ErrPermission) },
		}
	}
	return &Organizer{
		root:    root,
		policy:  policy,
		rootLck: flock.New(filepath.Join(root, ".docshelf.lock")),
		logger:  logging.NewComponentLogger(logger, "organize"),
	}
}

// Organize relocates sourcePath into the organized root as candidateName plus
// the source's original extension. It returns the final path, or an error
// tagged ErrNotFound, ErrPermission, or ErrOSFailure.
func (o *Organizer) Organize(ctx context.Context, sourcePath, candidateName string) (string, error) {
	logger := logging.WithContext(ctx, o.logger)

	if _, err := os.Stat(sourcePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrNotFound, "organize", "stat source", "Source file does not exist", err)
		}
		return "", services.Wrap(services.ErrOSFailure, "organize", "stat source", "Source file is not accessible", err)
	}

	sanitized := textutil.SanitizeFileName(candidateName)
	ext := filepath.Ext(sourcePath)
	newFilename := sanitized + ext

	if err := os.MkdirAll(o.root, 0o755); err != nil {
		return "", services.Wrap(services.ErrOSFailure, "organize", "ensure organized root", "Failed to create organized directory", err)
	}

	if err := o.rootLck.Lock(); err != nil {
		return "", services.Wrap(services.ErrOSFailure, "organize", "lock organized root", "Failed to acquire organized root lock", err)
	}
	defer func() {
		if err := o.rootLck.Unlock(); err != nil {
			logger.Warn("failed to release organized root lock", logging.Error(err))
		}
	}()

	target, err := o.resolveConflict(newFilename)
	if err != nil {
		return "", err
	}

	if err := o.moveWithRetry(ctx, logger, sourcePath, target); err != nil {
		return "", err
	}

	logger.Info("file organized",
		logging.String("final_path", target),
		logging.String("candidate", candidateName),
	)
	return target, nil
}

// maxConflictProbes bounds the suffix search so a pathological root cannot
// spin forever.
const maxConflictProbes = 10000

// resolveConflict returns the first non-existing path for name in the
// organized root: unsuffixed first, then stem_1, stem_2, ...
func (o *Organizer) resolveConflict(name string) (string, error) {
	candidate := filepath.Join(o.root, name)
	exists, err := pathExists(candidate)
	if err != nil {
		return "", services.Wrap(services.ErrOSFailure, "organize", "probe target", "Failed to probe target path", err)
	}
	if !exists {
		return candidate, nil
	}

	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	for counter := 1; counter <= maxConflictProbes; counter++ {
		candidate = filepath.Join(o.root, stem+"_"+strconv.Itoa(counter)+ext)
		exists, err := pathExists(candidate)
		if err != nil {
			return "", services.Wrap(services.ErrOSFailure, "organize", "probe target", "Failed to probe target path", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrOSFailure, "organize", "probe target",
		fmt.Sprintf("Exhausted conflict suffixes for %s", name), nil)
}

// moveWithRetry renames source to target. Permission errors retry under the
// configured policy; every other OS failure is immediately fatal.
func (o *Organizer) moveWithRetry(ctx context.Context, logger *slog.Logger, source, target string) error {
	attempt := 0
	err := o.policy.Do(ctx, func() error {
		attempt++
		renameErr := os.Rename(source, target)
		if renameErr != nil && errors.Is(renameErr, fs.ErrPermission) {
			logger.Warn("permission denied moving file, will retry",
				logging.Int("attempt", attempt),
				logging.Error(renameErr),
			)
		}
		return renameErr
	})
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, fs.ErrPermission):
		return services.Wrap(services.ErrPermission, "organize", "move file",
			fmt.Sprintf("Permission denied after %d attempts", attempt), err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return services.Wrap(services.ErrTransient, "organize", "move file", "Move interrupted by shutdown", err)
	default:
		return services.Wrap(services.ErrOSFailure, "organize", "move file", "OS error during file move", err)
	}
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
