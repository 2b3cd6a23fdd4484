package validator

import (
	"context"
	"net/mail"
	"unicode"

	"app/internal/usecase"
)

// 入力検証だけを担う。DB照合はusecase側。
type AuthValidator struct{}

func NewAuthValidator() *AuthValidator {
	return &AuthValidator{}
}

const minPasswordLen = 8

func (v *AuthValidator) ValidateRegister(ctx context.Context, email string, password string) error {
	if email == "" || password == "" {
		return usecase.ErrValidation
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return usecase.ErrValidation
	}
	if len(password) < minPasswordLen {
		return usecase.ErrValidation
	}

	//英字と数字を最低1つずつ
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return usecase.ErrValidation
	}

	return nil
}

func (v *AuthValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	if email == "" || password == "" {
		return usecase.ErrValidation
	}
	return nil
}
