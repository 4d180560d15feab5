package coursemodule

type CreateModuleDTO struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	TeacherID   string `json:"teacher_id" validate:"required,uuid"`
}
