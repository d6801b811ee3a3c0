package validation

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "u.ser+tag@sub.example.org"}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Fatalf("email %q должен проходить валидацию: %v", email, err)
		}
	}

	invalid := []string{"", "no-at-sign", "user@", "@example.com", "user@localhost"}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Fatalf("email %q должен отклоняться", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("Password123"); err != nil {
		t.Fatalf("валидный пароль отклонён: %v", err)
	}

	invalid := []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"}
	for _, password := range invalid {
		if err := ValidatePassword(password); err == nil {
			t.Fatalf("пароль %q должен отклоняться", password)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername("user_1"); err != nil {
		t.Fatalf("валидный username отклонён: %v", err)
	}

	invalid := []string{"", "ab", "1starts_with_digit", "has space", strings.Repeat("a", 31)}
	for _, username := range invalid {
		if err := ValidateUsername(username); err == nil {
			t.Fatalf("username %q должен отклоняться", username)
		}
	}
}

func TestValidatePostContent(t *testing.T) {
	if err := ValidatePostContent("нормальный пост"); err != nil {
		t.Fatalf("валидный текст отклонён: %v", err)
	}
	if err := ValidatePostContent("   "); err == nil {
		t.Fatalf("пустой текст должен отклоняться")
	}
	if err := ValidatePostContent(strings.Repeat("я", MaxPostLength+1)); err == nil {
		t.Fatalf("текст длиннее лимита должен отклоняться")
	}
}

func TestValidateReportReason(t *testing.T) {
	if err := ValidateReportReason("спам"); err != nil {
		t.Fatalf("валидная причина отклонена: %v", err)
	}
	if err := ValidateReportReason(""); err == nil {
		t.Fatalf("пустая причина должна отклоняться")
	}
	if err := ValidateReportReason("аб"); err == nil {
		t.Fatalf("слишком короткая причина должна отклоняться")
	}
}

func TestValidateInterests(t *testing.T) {
	if err := ValidateInterests([]string{"музыка", "спорт"}); err != nil {
		t.Fatalf("валидные интересы отклонены: %v", err)
	}
	if err := ValidateInterests([]string{"музыка", "Музыка"}); err == nil {
		t.Fatalf("дубликаты интересов должны отклоняться")
	}
	if err := ValidateInterests([]string{""}); err == nil {
		t.Fatalf("пустой интерес должен отклоняться")
	}
}
