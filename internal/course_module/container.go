package coursemodule

import "gorm.io/gorm"

type ModuleContainer struct {
	Handler *Handler
	Service ModuleService
}

func NewModuleContainer(db *gorm.DB) *ModuleContainer {
	repo := NewRepository(db)
	service := NewService(repo)
	handler := NewHandler(service)

	return &ModuleContainer{
		Handler: handler,
		Service: service,
	}
}
