package domain

// SupabaseClient exposes the storage client used for remote templates.
type SupabaseClient interface {
	Initialize() error
	DownloadObject(bucket, path string) ([]byte, error)
	ListObjects(bucket string) ([]string, error)
}
