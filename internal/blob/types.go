// Package blob is the facade over the bundle archive backends. Service code
// depends on this package alone; the driver implementations live under
// internal/infra/blob and are selected here.
package blob

import (
	"chemcore/internal/blob/core"
)

// Aliases into core keep the facade import stable while the backend types
// stay defined next to their implementations.
type (
	// Driver identifies a blob backend driver.
	Driver = core.Driver
	// Store is the interface every archive backend implements.
	Store = core.Store
	// Info describes stored blob metadata.
	Info = core.Info
	// PutOptions configures a blob write.
	PutOptions = core.PutOptions
	// SignedURLOptions configures URL pre-signing.
	SignedURLOptions = core.SignedURLOptions
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

// ErrUnsupported indicates an operation isn't supported by a driver.
var ErrUnsupported = core.ErrUnsupported
