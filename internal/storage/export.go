package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/usersvc/apiserver/types"
)

const exportPrefix = "exports/"

// UserLister returns every stored user.
type UserLister interface {
	GetAll(ctx context.Context) ([]types.User, error)
}

// ExportResult describes an uploaded user export.
type ExportResult struct {
	Bucket string
	Key    string
	Users  int
	Bytes  int64
}

// ExportKey names the export object written at t.
func ExportKey(t time.Time) string {
	return exportPrefix + "users-" + t.UTC().Format("20060102T150405Z") + ".json"
}

// ExportUsers uploads a JSON snapshot of all users with password hashes removed.
func ExportUsers(ctx context.Context, users UserLister, dst *Storage, now time.Time) (ExportResult, error) {
	all, err := users.GetAll(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("list users: %w", err)
	}

	if all == nil {
		all = []types.User{}
	}
	for i := range all {
		all[i].PasswordHash = nil
	}

	if err := dst.EnsureBucket(ctx); err != nil {
		return ExportResult{}, fmt.Errorf("ensure bucket %s: %w", dst.Bucket(), err)
	}

	key := ExportKey(now)
	size, err := dst.PutJSON(ctx, key, all)
	if err != nil {
		return ExportResult{}, err
	}

	return ExportResult{
		Bucket: dst.Bucket(),
		Key:    key,
		Users:  len(all),
		Bytes:  size,
	}, nil
}

// PruneExports deletes all but the newest keep exports and returns the removed keys.
// Export keys embed a sortable UTC timestamp, so lexical order is age order.
// keep <= 0 disables pruning.
func PruneExports(ctx context.Context, dst *Storage, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}

	keys, err := dst.List(ctx, exportPrefix+"users-")
	if err != nil {
		return nil, err
	}
	if len(keys) <= keep {
		return nil, nil
	}

	stale := keys[:len(keys)-keep]
	for _, key := range stale {
		if err := dst.Delete(ctx, key); err != nil {
			return nil, fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return stale, nil
}
