package content

import (
	"time"

	"github.com/google/uuid"
)

// FileDescriptor is what clients see of a File.
type FileDescriptor struct {
	ID           uuid.UUID `json:"id"`
	Target       Target    `json:"target"`
	Path         string    `json:"path"`
	OriginalName string    `json:"original_name"`
	FileType     string    `json:"file_type"`
	Size         int64     `json:"size"`
	Temporary    bool      `json:"temporary"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type CommitResponse struct {
	Committed int64 `json:"committed"`
}

type DiscardResponse struct {
	Discarded int `json:"discarded"`
}

// DownloadPath is the API path serving the file, relative to the API base URL.
func DownloadPath(id uuid.UUID) string {
	return "/files/" + id.String()
}

func toDescriptor(f *File) *FileDescriptor {
	return &FileDescriptor{
		ID:           f.ID,
		Target:       f.Target,
		Path:         DownloadPath(f.ID),
		OriginalName: f.OriginalName,
		FileType:     f.FileType,
		Size:         f.Size,
		Temporary:    f.Temporary,
		UploadedAt:   f.UploadedAt,
	}
}
