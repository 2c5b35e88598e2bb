package blob

import (
	"context"
	"fmt"
	"os"
)

// Open selects a blob.Store implementation from the environment:
//
//	CHEMCORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	CHEMCORE_BLOB_FS_ROOT: directory root when driver=fs (default ./bundledata)
//	(S3 specific variables documented in s3.go)
func Open(ctx context.Context) (Store, error) {
	name := os.Getenv("CHEMCORE_BLOB_DRIVER")
	switch Driver(name) {
	case DriverFilesystem, Driver(""):
		return NewFilesystem(os.Getenv("CHEMCORE_BLOB_FS_ROOT"))
	case DriverS3:
		return OpenFromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", name)
	}
}
