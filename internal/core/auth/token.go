// Package auth 解析 Bearer token：內容為 base64 編碼的電話號碼
package auth

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrMissingBearer 沒有 Bearer token
	ErrMissingBearer = errors.New("missing bearer token")
	// ErrInvalidToken 無法解碼或不是合法電話號碼
	ErrInvalidToken = errors.New("invalid token")
)

var phonePattern = regexp.MustCompile(`^\d{10,15}$`)

// PhoneFromHeader 從 Authorization 標頭取出電話號碼
func PhoneFromHeader(header string) (string, error) {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", ErrMissingBearer
	}
	return PhoneFromToken(header[7:])
}

// PhoneFromToken 解碼 token 並驗證電話格式
func PhoneFromToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingBearer
	}

	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		// 也接受省略補位的寫法
		decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(token, "="))
		if err != nil {
			return "", ErrInvalidToken
		}
	}

	phone := strings.TrimSpace(string(decoded))
	if !phonePattern.MatchString(phone) {
		return "", ErrInvalidToken
	}
	return phone, nil
}

// Token 產生電話號碼對應的 token（測試與 CLI 使用）
func Token(phone string) string {
	return base64.StdEncoding.EncodeToString([]byte(phone))
}
