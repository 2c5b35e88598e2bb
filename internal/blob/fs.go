package blob

import (
	fsstore "chemcore/internal/infra/blob/fs"
)

// NewFilesystem returns a filesystem-backed blob.Store rooted at the given
// directory, creating it if needed.
func NewFilesystem(root string) (Store, error) {
	return fsstore.New(root)
}
