package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestLocalizer_Match(t *testing.T) {
	l := NewLocalizer("vi")

	tests := []struct {
		name   string
		header string
		want   language.Tag
	}{
		{"empty header uses default", "", language.Vietnamese},
		{"english", "en", language.English},
		{"regional english", "en-US,en;q=0.9", language.English},
		{"vietnamese", "vi-VN", language.Vietnamese},
		{"quality ordering", "fr;q=0.9, en;q=0.8", language.English},
		{"unsupported falls back", "ja", language.Vietnamese},
		{"garbage falls back", ";;;", language.Vietnamese},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Match(tt.header))
		})
	}
}

func TestLocalizer_DefaultLocale(t *testing.T) {
	assert.Equal(t, language.English, NewLocalizer("en").Default())
	assert.Equal(t, language.English, NewLocalizer("en-GB").Default())
	assert.Equal(t, language.Vietnamese, NewLocalizer("").Default())
	assert.Equal(t, language.Vietnamese, NewLocalizer("not a locale!").Default())
}

func TestLocalizer_Message(t *testing.T) {
	l := NewLocalizer("vi")

	assert.Equal(t, "Không có file được cung cấp", l.Message("", ImportNoFile))
	assert.Equal(t, "No file provided", l.Message("en", ImportNoFile))
	assert.Equal(t, "Account not found", l.Message("en-US", AccountNotFound))

	assert.Equal(t, "File quá lớn. Giới hạn 1MB", l.Message("", ImportTooLarge, FormatSize(1<<20)))
	assert.Equal(t, "Too many accounts. Limit is 1000 accounts per import", l.Message("en", ImportTooMany, "1000"))
	assert.Equal(t, "Quá nhiều tài khoản. Giới hạn 1000 tài khoản mỗi lần import", l.Message("", ImportTooMany, "1000"))
	assert.Equal(t,
		`Format file không hợp lệ. Sử dụng format JSON: [{"username": "user", "password": "pass"}]`,
		l.Message("vi", ImportSyntax))
}

func TestTranslationsComplete(t *testing.T) {
	vi := translations[language.Vietnamese]
	en := translations[language.English]

	assert.Equal(t, len(vi), len(en))
	for key := range vi {
		_, ok := en[key]
		assert.True(t, ok, "missing English message for %s", key)
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "1MB", FormatSize(1<<20))
	assert.Equal(t, "2MB", FormatSize(2<<20))
	assert.Equal(t, "512KB", FormatSize(512<<10))
	assert.Equal(t, "100B", FormatSize(100))
}
