package employee

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	"sitelog/internal/domain/entry"
)

// Admin учетные данные администратора из конфигурации
type Admin struct {
	Name     string
	Password string
}

type Service struct {
	repo      Repository
	validator Validator
	admin     Admin
	log       *slog.Logger
}

func NewService(repo Repository, validator Validator, admin Admin, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		admin:     admin,
		log:       log.With("component", "employee_service"),
	}
}

// Authenticate вход только по паролю: сначала администратор, затем сотрудники
func (s *Service) Authenticate(ctx context.Context, password string) (Identity, error) {
	if password == "" {
		return Identity{}, ErrInvalidAuth
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1 {
		return Identity{Role: entry.RoleAdmin, Name: s.admin.Name}, nil
	}

	employees, err := s.repo.List(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("list employees: %w", err)
	}

	for _, e := range employees {
		if bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) == nil {
			return Identity{Role: entry.RoleEmployee, Name: e.Name}, nil
		}
	}

	s.log.Debug("login failed")
	return Identity{}, ErrInvalidAuth
}

func (s *Service) Add(ctx context.Context, name, password string) (int, error) {
	name = strings.TrimSpace(name)
	if err := s.validator.ValidateName(name); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.validator.ValidatePassword(password); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if strings.EqualFold(name, s.admin.Name) || password == s.admin.Password {
		return 0, ErrAlreadyExists
	}

	// вход выполняется только по паролю, поэтому пароли не должны совпадать
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list employees: %w", err)
	}
	for _, e := range existing {
		if strings.EqualFold(e.Name, name) ||
			bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) == nil {
			return 0, ErrAlreadyExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.repo.Create(ctx, name, string(hash))
	if err != nil {
		return 0, err
	}

	s.log.Info("employee added", "id", id, "name", name)
	return id, nil
}

func (s *Service) List(ctx context.Context) ([]entry.Record, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]entry.Record, 0, len(employees))
	for _, e := range employees {
		out = append(out, e.Record())
	}
	return out, nil
}
