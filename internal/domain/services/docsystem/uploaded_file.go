package docsystem

// UploadedFile is an upload spooled to local disk.
// Path is owned by the ingestion pipeline: a successful backup moves it away.
type UploadedFile struct {
	Filename string
	Path     string
	Size     int64
}
