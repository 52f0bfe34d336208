// Package service holds orchestration that spans storage boundaries.
package service

import (
	"io"

	"github.com/startdash-dev/startdash/internal/logger"
	"github.com/startdash-dev/startdash/internal/validation"
)

// BackgroundStore is the settings-side of the background pointer.
type BackgroundStore interface {
	SetBackground(url string) (previous string, err error)
	ClearBackground() (previous string, err error)
}

// FileStore persists uploaded files under a managed public prefix.
type FileStore interface {
	Save(name string, data io.Reader) (publicURL string, err error)
	Remove(publicURL string) error
}

// Backgrounds runs the dashboard background pipeline: content validation,
// file persistence, pointer swap and reclamation of the replaced file.
type Backgrounds struct {
	store  BackgroundStore
	files  FileStore
	limits validation.UploadLimits
}

func NewBackgrounds(store BackgroundStore, files FileStore, limits validation.UploadLimits) *Backgrounds {
	return &Backgrounds{store: store, files: files, limits: limits}
}

// Upload validates the byte stream against the claimed filename and MIME
// type, persists it and points the settings background at the new URL.
// The file is written before the database commit; if the commit fails the
// just-written orphan is removed.
func (b *Backgrounds) Upload(filename, claimedMime string, data io.ReadSeeker) (string, error) {
	checked, err := validation.CheckUpload(filename, claimedMime, data, b.limits)
	if err != nil {
		return "", err
	}

	url, err := b.files.Save(checked.StoredName, data)
	if err != nil {
		return "", err
	}

	previous, err := b.store.SetBackground(url)
	if err != nil {
		if removeErr := b.files.Remove(url); removeErr != nil {
			logger.Log.Warn("failed to remove orphan upload", "url", url, "error", removeErr)
		}
		return "", err
	}

	b.reclaim(previous)
	return url, nil
}

// Clear empties the background pointer and reclaims the previous file.
func (b *Backgrounds) Clear() error {
	previous, err := b.store.ClearBackground()
	if err != nil {
		return err
	}
	b.reclaim(previous)
	return nil
}

// reclaim deletes a replaced background file, best effort. The file store
// refuses anything outside the managed prefix, so an externally hosted
// background URL is simply left alone.
func (b *Backgrounds) reclaim(previous string) {
	if previous == "" {
		return
	}
	if err := b.files.Remove(previous); err != nil {
		logger.Log.Warn("failed to remove previous background", "url", previous, "error", err)
	}
}
