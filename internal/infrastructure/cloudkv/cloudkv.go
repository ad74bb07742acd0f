// Package cloudkv implements the remote stores the archive is backed up to.
package cloudkv

import (
	"context"
	"strings"
)

// IDSource yields the user's cloud store id. An empty id disables the
// Pantry backend and falls back to "default" for namespaced backends.
type IDSource interface {
	PantryID(ctx context.Context) (string, error)
}

func namespace(ctx context.Context, ids IDSource) (string, error) {
	if ids == nil {
		return "default", nil
	}
	id, err := ids.PantryID(ctx)
	if err != nil {
		return "", err
	}
	if id = strings.TrimSpace(id); id == "" {
		return "default", nil
	}
	return id, nil
}
