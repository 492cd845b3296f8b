package config

import "time"

const (
	// DefaultMaxUploadBytes caps the size of an uploaded archive (512 MiB).
	DefaultMaxUploadBytes int64 = 512 << 20

	// DefaultMaxUncompressedBytes caps the declared total size of an archive's
	// entries (4 GiB). Documentation sites compress well, but anything past
	// this is more likely a zip bomb than a manual.
	DefaultMaxUncompressedBytes uint64 = 4 << 30

	// MultipartMemoryBytes is how much of a multipart form is kept in memory
	// before spilling to disk.
	MultipartMemoryBytes int64 = 32 << 20

	// DefaultLogMaxFiles is how many log files LOG_DIR keeps.
	DefaultLogMaxFiles = 10

	// DefaultSQLiteBusyTimeout is how long a write waits on SQLite's single
	// write lock. An upload keeps that lock for the whole extraction.
	DefaultSQLiteBusyTimeout = 60 * time.Second

	// DefaultRedisTTL bounds how long a cached listing may outlive a missed invalidation.
	DefaultRedisTTL = 10 * time.Minute
)
