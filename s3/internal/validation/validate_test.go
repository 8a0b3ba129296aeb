package validation

import (
	"strings"
	"testing"
)

func TestValidateBucketName(t *testing.T) {
	tests := []struct {
		name      string
		bucket    string
		wantError bool
		errMsg    string
	}{
		// Valid bucket names
		{"valid_simple", "my-bucket", false, ""},
		{"valid_with_numbers", "my-bucket123", false, ""},
		{"valid_with_dots", "my.bucket", false, ""},
		{"valid_with_hyphens", "my-bucket-name", false, ""},
		{"valid_starts_with_number", "1bucket", false, ""},
		{"valid_min_length", "abc", false, ""},
		{"valid_max_length", strings.Repeat("a", 63), false, ""},

		// Invalid bucket names
		{"empty", "", true, "bucket name cannot be empty"},
		{"too_short", "ab", true, "bucket name must be between 3 and 63 characters long"},
		{
			"too_long",
			strings.Repeat("a", 64),
			true,
			"bucket name must be between 3 and 63 characters long",
		},
		{
			"starts_with_hyphen",
			"-bucket",
			true,
			"bucket name cannot start or end with a hyphen or dot",
		},
		{
			"ends_with_hyphen",
			"bucket-",
			true,
			"bucket name cannot start or end with a hyphen or dot",
		},
		{
			"starts_with_dot",
			".bucket",
			true,
			"bucket name cannot start or end with a hyphen or dot",
		},
		{"ends_with_dot", "bucket.", true, "bucket name cannot start or end with a hyphen or dot"},
		{
			"contains_uppercase",
			"MyBucket",
			true,
			"bucket name can only contain lowercase letters, numbers, dots, and hyphens",
		},
		{
			"contains_underscore",
			"my_bucket",
			true,
			"bucket name can only contain lowercase letters, numbers, dots, and hyphens",
		},
		{
			"contains_space",
			"my bucket",
			true,
			"bucket name can only contain lowercase letters, numbers, dots, and hyphens",
		},
		{"ip_address", "192.168.1.1", true, "bucket name cannot be formatted as an IP address"},
		{
			"double_dots",
			"my..bucket",
			true,
			"bucket name cannot contain two adjacent periods or hyphens",
		},
		{
			"double_hyphens",
			"my--bucket",
			true,
			"bucket name cannot contain two adjacent periods or hyphens",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketName(tt.bucket)
			if tt.wantError {
				if err == nil {
					t.Errorf("ValidateBucketName(%q) expected error, got nil", tt.bucket)
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateBucketName(%q) error = %q, want to contain %q", tt.bucket, err.Error(), tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("ValidateBucketName(%q) expected no error, got %q", tt.bucket, err)
				}
			}
		})
	}
}

func TestValidateObjectKey(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantError bool
		errMsg    string
	}{
		// Valid object keys
		{"valid_simple", "my-file.txt", false, ""},
		{"valid_with_path", "folder/subfolder/file.txt", false, ""},
		{"valid_unicode", "файл.txt", false, ""},
		{"valid_numbers", "file123.txt", false, ""},
		{"valid_special_chars", "file_with-dashes.and.dots.txt", false, ""},
		{"valid_spaces", "file with spaces.txt", false, ""},
		{"valid_max_length", strings.Repeat("a", 1024), false, ""},

		// Invalid object keys
		{"empty", "", true, "object key cannot be empty"},
		{"too_long", strings.Repeat("a", 1025), true, "object key cannot exceed 1024 characters"},
		{
			"path_traversal_dot_dot",
			"../secret.txt",
			true,
			"object key cannot contain path traversal sequences",
		},
		{
			"path_traversal_embedded",
			"folder/../../../secret.txt",
			true,
			"object key cannot contain path traversal sequences",
		},
		{
			"path_traversal_absolute",
			"/etc/passwd",
			true,
			"object key cannot contain path traversal sequences",
		},
		{
			"control_characters",
			"bad\x00key.txt",
			true,
			"object key cannot contain control characters",
		},
		{
			"newline",
			"bad\nkey.txt",
			true,
			"object key cannot contain control characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectKey(tt.key)
			if tt.wantError {
				if err == nil {
					t.Errorf("ValidateObjectKey(%q) expected error, got nil", tt.key)
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateObjectKey(%q) error = %q, want to contain %q", tt.key, err.Error(), tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("ValidateObjectKey(%q) expected no error, got %q", tt.key, err)
				}
			}
		})
	}
}

// Path traversal attempts beyond the basic table, including Windows forms.
func TestValidateObjectKeyTraversalVariations(t *testing.T) {
	traversalKeys := []string{
		"..",
		"../",
		"/..",
		"folder/..",
		"folder/../",
		"../../../etc/passwd",
		"..\\..\\..\\windows\\system32\\config\\system",
		"C:\\Windows\\System32",
		"/etc/passwd",
		"/absolute/path",
	}

	for _, key := range traversalKeys {
		err := ValidateObjectKey(key)
		if err == nil {
			t.Errorf("ValidateObjectKey(%q) should reject path traversal attempt", key)
		} else if !strings.Contains(err.Error(), "path traversal") {
			t.Errorf("ValidateObjectKey(%q) error should mention path traversal, got: %s", key, err.Error())
		}
	}
}

func TestSanitizeMetadata(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
		want     map[string]string
	}{
		{"nil_metadata", nil, nil},
		{"empty_metadata", map[string]string{}, map[string]string{}},
		{
			"clean_metadata",
			map[string]string{"author": "jane", "project": "reports"},
			map[string]string{"author": "jane", "project": "reports"},
		},
		{
			"control_chars_in_value",
			map[string]string{"note": "line1\x00line2"},
			map[string]string{"note": "line1line2"},
		},
		{
			"newlines_and_tabs_preserved",
			map[string]string{"note": "line1\nline2\tend"},
			map[string]string{"note": "line1\nline2\tend"},
		},
		{
			"control_chars_in_key",
			map[string]string{"bad\x01key": "value"},
			map[string]string{"badkey": "value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeMetadata(tt.metadata)
			if tt.want == nil {
				if got != nil {
					t.Errorf("SanitizeMetadata(nil) = %v, want nil", got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("SanitizeMetadata() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("SanitizeMetadata()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func BenchmarkValidateObjectKey(b *testing.B) {
	keys := []string{
		"simple-file.txt",
		"folder/subfolder/deep/nested/file.txt",
		"unicode-文件名.txt",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ValidateObjectKey(keys[i%len(keys)])
	}
}
