package dto

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationMessages flattens validator errors into messages shown next to the form.
func ValidationMessages(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "max":
			messages = append(messages, fmt.Sprintf("%s cannot be longer than %s characters", fe.Field(), fe.Param()))
		case "numeric":
			messages = append(messages, fmt.Sprintf("%s must reference an existing id", fe.Field()))
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fe.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return messages
}
