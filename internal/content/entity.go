package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	coursemodule "github.com/saulo-duarte/classroom-lambda/internal/course_module"
)

// Target is the module section a file belongs to.
type Target string

const (
	Chapter   Target = "chapter"
	Syllabus  Target = "syllabus"
	Reference Target = "reference"
)

var AllTargets = []Target{Chapter, Syllabus, Reference}

func (t Target) IsValid() bool {
	switch t {
	case Chapter, Syllabus, Reference:
		return true
	}
	return false
}

// File is an uploaded module file. Temporary files were uploaded while the
// module was being edited and disappear unless committed.
type File struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ModuleID     uuid.UUID `gorm:"type:uuid;not null;index:idx_file_module_target"`
	Target       Target    `gorm:"type:text;not null;index:idx_file_module_target"`
	StorageKey   string    `gorm:"type:text;not null"`
	OriginalName string    `gorm:"type:text;not null"`
	FileType     string    `gorm:"type:text;not null"`
	Size         int64     `gorm:"not null"`
	Temporary    bool      `gorm:"not null;index"`
	UploadedBy   uuid.UUID `gorm:"type:uuid;not null"`
	UploadedAt   time.Time `gorm:"not null;index"`

	Module *coursemodule.Module `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}

func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
