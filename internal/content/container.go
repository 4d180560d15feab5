package content

import (
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lambda/internal/config"
	coursemodule "github.com/saulo-duarte/classroom-lambda/internal/course_module"
)

type ContentContainer struct {
	Handler *Handler
	Service ContentService
	Janitor *Janitor
}

func NewContentContainer(db *gorm.DB, settings *config.Settings, guard coursemodule.Guard) (*ContentContainer, error) {
	storage, err := NewStorage(settings)
	if err != nil {
		return nil, err
	}

	repo := NewRepository(db)
	service := NewService(repo, storage, guard, settings.MaxUploadBytes)
	handler := NewHandler(service, settings.MaxUploadBytes)

	janitor, err := NewJanitor(service, settings.JanitorSchedule, settings.TempFileTTL)
	if err != nil {
		return nil, err
	}

	return &ContentContainer{
		Handler: handler,
		Service: service,
		Janitor: janitor,
	}, nil
}

// NewStorage picks OSS when it is configured and local disk otherwise.
func NewStorage(settings *config.Settings) (Storage, error) {
	if settings.OSSEnabled() {
		config.Logger.WithField("bucket", settings.OSSBucket).Info("Storing files in OSS")
		return NewOSSStorage(settings.OSSEndpoint, settings.OSSAccessKey, settings.OSSSecretKey, settings.OSSBucket)
	}
	config.Logger.WithField("dir", settings.UploadDir).Info("Storing files on disk")
	return NewDiskStorage(settings.UploadDir)
}
