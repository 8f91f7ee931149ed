// Package auth is the placeholder account layer: a passenger "logs in" with
// email and national id. It is not a credential system.
package auth

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type LoginInput struct {
	Email string `json:"email" form:"email" validate:"required,email"`
	SSN   string `json:"ssn" form:"ssn" validate:"required"`
}

type RegisterInput struct {
	SSN         string `json:"ssn" form:"ssn" validate:"required,max=32"`
	FirstName   string `json:"first_name" form:"first_name" validate:"required,max=64"`
	LastName    string `json:"last_name" form:"last_name" validate:"required,max=64"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	Phone       string `json:"phone" form:"phone" validate:"required,max=32"`
	Gender      string `json:"gender" form:"gender" validate:"omitempty,oneof=M F U"`
	DateOfBirth string `json:"date_of_birth" form:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

type AuthUseCase interface {
	Login(ctx context.Context, in LoginInput) (*domain.Passenger, error)
	Register(ctx context.Context, in RegisterInput) (*domain.Passenger, error)
}

type AuthService struct {
	passengers repository.PassengerRepository
	validate   *validator.Validate
	log        *zap.Logger
}

func NewAuthService(passengers repository.PassengerRepository, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return &AuthService{passengers: passengers, validate: v, log: log}
}

// Login finds the passenger by email and national id. Unknown combinations
// are a validation failure so the page can say "wrong email or id".
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domain.Passenger, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.SSN = strings.TrimSpace(in.SSN)
	if err := s.validate.Struct(in); err != nil {
		return nil, fieldError(err)
	}

	p, err := s.passengers.FindByCredentials(ctx, in.Email, in.SSN)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.ValidationError{Msg: "wrong email or national id"}
		}
		return nil, err
	}
	return p, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Passenger, error) {
	in.SSN = strings.TrimSpace(in.SSN)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Gender = strings.ToUpper(strings.TrimSpace(in.Gender))
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
	if err := s.validate.Struct(in); err != nil {
		return nil, fieldError(err)
	}
	if in.Gender == "" {
		in.Gender = domain.GenderUnknown
	}
	dob, _ := time.Parse("2006-01-02", in.DateOfBirth)

	p := domain.Passenger{
		SSN:         in.SSN,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		Gender:      in.Gender,
		DateOfBirth: dob,
	}
	if err := s.passengers.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("passenger registered")
	return &p, nil
}

func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ValidationError{Msg: err.Error()}
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return domain.ValidationError{Field: fe.Field(), Msg: "is required"}
	}
	return domain.ValidationError{Field: fe.Field(), Msg: "is invalid"}
}

var _ AuthUseCase = (*AuthService)(nil)
