package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength    = 3
	MaxUsernameLength    = 30
	MinDisplayNameLength = 2
	MaxDisplayNameLength = 100
	MinPostLength        = 1
	MaxPostLength        = 10000
	MinCommentLength     = 1
	MaxCommentLength     = 2000
	MinReasonLength      = 3
	MaxReasonLength      = 200
	MaxDescriptionLength = 2000
	MaxBioLength         = 1000
	MaxCityLength        = 100
	MaxInterestLength    = 50
	MaxInterestsCount    = 50
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	emailRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !emailRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidatePassword проверяет пароль на соответствие требованиям безопасности.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("пароль должен быть не менее 8 символов")
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("пароль должен содержать хотя бы одну заглавную букву")
	}
	if !hasLower {
		return fmt.Errorf("пароль должен содержать хотя бы одну строчную букву")
	}
	if !hasNumber {
		return fmt.Errorf("пароль должен содержать хотя бы одну цифру")
	}

	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	if unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateDisplayName проверяет отображаемое имя.
func ValidateDisplayName(displayName string) error {
	if displayName == "" {
		return fmt.Errorf("отображаемое имя обязательно")
	}

	displayName = strings.TrimSpace(displayName)

	if err := ValidateLength("отображаемое имя", displayName, MinDisplayNameLength, MaxDisplayNameLength); err != nil {
		return err
	}

	displayNameRegex := regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ0-9\s\-_.,!?()]+$`)
	if !displayNameRegex.MatchString(displayName) {
		return fmt.Errorf("отображаемое имя содержит недопустимые символы")
	}

	return nil
}

// ValidatePostContent проверяет текст публикации.
func ValidatePostContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("текст публикации не может быть пустым")
	}

	return ValidateLength("текст публикации", content, MinPostLength, MaxPostLength)
}

// ValidateCommentContent проверяет текст комментария.
func ValidateCommentContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("комментарий не может быть пустым")
	}

	return ValidateLength("комментарий", content, MinCommentLength, MaxCommentLength)
}

// ValidateReportReason проверяет причину жалобы.
func ValidateReportReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("причина жалобы обязательна")
	}

	return ValidateLength("причина жалобы", reason, MinReasonLength, MaxReasonLength)
}

// ValidateReportDescription проверяет описание жалобы.
func ValidateReportDescription(description *string) error {
	if description != nil && *description != "" {
		desc := strings.TrimSpace(*description)
		if err := ValidateLength("описание жалобы", desc, 0, MaxDescriptionLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBio проверяет биографию.
func ValidateBio(bio *string) error {
	if bio != nil && *bio != "" {
		bioStr := strings.TrimSpace(*bio)
		if err := ValidateLength("биография", bioStr, 0, MaxBioLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCity проверяет город.
func ValidateCity(city *string) error {
	if city != nil && *city != "" {
		c := strings.TrimSpace(*city)
		if err := ValidateLength("город", c, 0, MaxCityLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateInterests проверяет список интересов.
func ValidateInterests(interests []string) error {
	if len(interests) > MaxInterestsCount {
		return fmt.Errorf("количество интересов не может превышать %d", MaxInterestsCount)
	}

	seen := make(map[string]bool)
	for _, interest := range interests {
		interest = strings.TrimSpace(interest)
		if interest == "" {
			return fmt.Errorf("интерес не может быть пустым")
		}

		if utf8.RuneCountInString(interest) > MaxInterestLength {
			return fmt.Errorf("интерес не может быть длиннее %d символов", MaxInterestLength)
		}

		lower := strings.ToLower(interest)
		if seen[lower] {
			return fmt.Errorf("интерес '%s' указан дважды", interest)
		}
		seen[lower] = true
	}

	return nil
}
