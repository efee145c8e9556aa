package employee

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	MinNameLen     = 2
	MaxNameLen     = 64
	MinPasswordLen = 4
)

// Validator проверка данных нового сотрудника
type Validator interface {
	ValidateName(name string) error
	ValidatePassword(password string) error
}

type DefaultValidator struct{}

func NewValidator() DefaultValidator {
	return DefaultValidator{}
}

func (DefaultValidator) ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < MinNameLen {
		return fmt.Errorf("name must be at least %d characters", MinNameLen)
	}
	if len([]rune(name)) > MaxNameLen {
		return fmt.Errorf("name must be at most %d characters", MaxNameLen)
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' && r != '.' && r != '-' {
			return fmt.Errorf("name can only contain letters, digits, spaces, '.', '-'")
		}
	}
	return nil
}

func (DefaultValidator) ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	if strings.TrimSpace(password) != password {
		return fmt.Errorf("password must not start or end with spaces")
	}
	return nil
}
