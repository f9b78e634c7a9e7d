package stores

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Record ids double as file names for FileStore.
	_ = v.RegisterValidation("recordid", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		return id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
	})
	return v
}

// ValidateTodo checks a record before it is created.
func ValidateTodo(todo *Todo) error {
	if todo == nil {
		return newValidationError("create", "", errNilTodo)
	}
	if err := validate.Struct(todo); err != nil {
		return newValidationError("create", todo.ID, err)
	}
	return nil
}

// ValidateID checks a record id used to address an existing record.
func ValidateID(op, id string) error {
	if err := validate.Var(id, "required,recordid"); err != nil {
		return newValidationError(op, id, err)
	}
	return nil
}

func validateUpdate(id string, update TodoUpdate) error {
	if err := ValidateID("update", id); err != nil {
		return err
	}
	if title, ok := update.Title.Get(); ok {
		if err := validate.Var(title, "required"); err != nil {
			return newValidationError("update", id, err)
		}
	}
	return nil
}
