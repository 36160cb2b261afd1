// Package i18n holds the user-facing messages of the account API in
// Vietnamese and English.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Key identifies a translatable message.
type Key string

const (
	FetchAccountsFailed Key = "accounts.fetch_failed"
	CreateAccountFailed Key = "accounts.create_failed"
	UpdateAccountFailed Key = "accounts.update_failed"
	DeleteAccountFailed Key = "accounts.delete_failed"
	FetchStatsFailed    Key = "accounts.stats_failed"
	AccountNotFound     Key = "accounts.not_found"
	InvalidData         Key = "accounts.invalid_data"
	InvalidID           Key = "accounts.invalid_id"
	UsernameTaken       Key = "accounts.username_taken"

	ImportNoFile         Key = "import.no_file"
	ImportTooLarge       Key = "import.too_large" // %s: size limit
	ImportNoArray        Key = "import.no_array"
	ImportSyntax         Key = "import.syntax"
	ImportNotArray       Key = "import.not_array"
	ImportTooMany        Key = "import.too_many" // %s: record limit
	ImportFailed         Key = "import.failed"
	ImportDuplicateFile  Key = "import.duplicate_in_file"
	ImportDuplicateStore Key = "import.duplicate_in_store"
	ImportUnknownError   Key = "import.unknown_error"

	FetchAuditFailed Key = "audit.fetch_failed"
	TooManyRequests  Key = "http.too_many_requests"
)

const importFormat = `[{"username": "user", "password": "pass"}]`

var translations = map[language.Tag]map[Key]string{
	language.Vietnamese: {
		FetchAccountsFailed: "Không thể tải danh sách tài khoản",
		CreateAccountFailed: "Không thể tạo tài khoản",
		UpdateAccountFailed: "Không thể cập nhật tài khoản",
		DeleteAccountFailed: "Không thể xóa tài khoản",
		FetchStatsFailed:    "Không thể tải thống kê",
		AccountNotFound:     "Không tìm thấy tài khoản",
		InvalidData:         "Dữ liệu không hợp lệ",
		InvalidID:           "ID tài khoản không hợp lệ",
		UsernameTaken:       "Tên tài khoản đã tồn tại",

		ImportNoFile:         "Không có file được cung cấp",
		ImportTooLarge:       "File quá lớn. Giới hạn %s",
		ImportNoArray:        "File phải chứa một mảng JSON. Format: " + importFormat,
		ImportSyntax:         "Format file không hợp lệ. Sử dụng format JSON: " + importFormat,
		ImportNotArray:       "File phải chứa một mảng tài khoản",
		ImportTooMany:        "Quá nhiều tài khoản. Giới hạn %s tài khoản mỗi lần import",
		ImportFailed:         "Không thể import tài khoản",
		ImportDuplicateFile:  "Tên tài khoản trùng lặp trong file",
		ImportDuplicateStore: "Tên tài khoản đã tồn tại trong database",
		ImportUnknownError:   "Lỗi không xác định",

		FetchAuditFailed: "Không thể tải nhật ký kiểm toán",
		TooManyRequests:  "Quá nhiều yêu cầu, vui lòng thử lại sau",
	},
	language.English: {
		FetchAccountsFailed: "Failed to fetch accounts",
		CreateAccountFailed: "Failed to create account",
		UpdateAccountFailed: "Failed to update account",
		DeleteAccountFailed: "Failed to delete account",
		FetchStatsFailed:    "Failed to fetch statistics",
		AccountNotFound:     "Account not found",
		InvalidData:         "Invalid data",
		InvalidID:           "Invalid account ID",
		UsernameTaken:       "Username already exists",

		ImportNoFile:         "No file provided",
		ImportTooLarge:       "File too large. Limit is %s",
		ImportNoArray:        "File must contain a JSON array. Format: " + importFormat,
		ImportSyntax:         "Invalid file format. Use JSON format: " + importFormat,
		ImportNotArray:       "File must contain an array of accounts",
		ImportTooMany:        "Too many accounts. Limit is %s accounts per import",
		ImportFailed:         "Failed to import accounts",
		ImportDuplicateFile:  "duplicate username within file",
		ImportDuplicateStore: "username already exists in database",
		ImportUnknownError:   "unknown error",

		FetchAuditFailed: "Failed to fetch audit events",
		TooManyRequests:  "Too many requests, please try again later",
	},
}

func newCatalog(fallback language.Tag) (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(fallback))
	for tag, messages := range translations {
		for key, msg := range messages {
			if err := b.SetString(tag, string(key), msg); err != nil {
				return nil, fmt.Errorf("i18n: register %s/%s: %w", tag, key, err)
			}
		}
	}
	return b, nil
}

// FormatSize renders a byte limit the way it is shown to users: 1MB, 512KB.
func FormatSize(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
