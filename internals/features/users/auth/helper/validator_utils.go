package helpers

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyLoginID  = errors.New("ログインIDを入力してください")
	ErrEmptyPassword = errors.New("パスワードを入力してください")
	ErrShortPassword = errors.New("パスワードは8文字以上で入力してください")
)

func ValidateLoginInput(loginID, password string) error {
	if strings.TrimSpace(loginID) == "" {
		return ErrEmptyLoginID
	}
	if password == "" {
		return ErrEmptyPassword
	}
	return nil
}

// ValidateNewPassword: dipakai saat admin membuat/mengganti password fasilitas
func ValidateNewPassword(password string) error {
	if len([]rune(password)) < 8 {
		return ErrShortPassword
	}
	return nil
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
