package util

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrPhoneInvalidChars    = errors.New("phone contains invalid characters")
	ErrPhoneWrongDigitCount = errors.New("phone has wrong digit count")
)

// Символы оформления, допустимые в номере: пробелы, скобки, дефисы, точки и плюс
var phoneDecorationRe = regexp.MustCompile(`[\s().+-]`)

// NormalizePhone проверяет номер телефона и приводит его к виду 8-XXX-XXX-XX-XX.
// Номера с префиксом +7 или 8 должны содержать 11 цифр, остальные - 10.
func NormalizePhone(phone string) (string, error) {
	cleaned := phoneDecorationRe.ReplaceAllString(phone, "")

	if cleaned == "" {
		return "", ErrPhoneInvalidChars
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", ErrPhoneInvalidChars
		}
	}

	prefixed := strings.HasPrefix(phone, "+7") || strings.HasPrefix(phone, "8")
	if prefixed && len(cleaned) != 11 {
		return "", ErrPhoneWrongDigitCount
	}
	if !prefixed && len(cleaned) != 10 {
		return "", ErrPhoneWrongDigitCount
	}

	digits := cleaned
	if prefixed {
		// Отбрасываем код страны, остаются 10 значащих цифр
		digits = cleaned[1:]
	}

	return fmt.Sprintf("8-%s-%s-%s-%s", digits[:3], digits[3:6], digits[6:8], digits[8:]), nil
}
