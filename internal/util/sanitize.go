package util

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"course-portal/internal/model"
)

const maxFilenameRunes = 128

var unsafeFilenameChars = regexp.MustCompile(`[<>:"|?*#%&{}$!'@+=` + "`" + `\s]+`)

// UploadFilename reduces a browser-supplied file name to a base name the
// upload endpoint can store as is.
func UploadFilename(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if idx := strings.LastIndexAny(trimmed, `/\`); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}

	var builder strings.Builder
	builder.Grow(len(trimmed))
	for _, char := range trimmed {
		if unicode.IsControl(char) || unicode.Is(unicode.Cf, char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := strings.Trim(unsafeFilenameChars.ReplaceAllString(builder.String(), "_"), "_ ")
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "", fmt.Errorf("file name %q: %w", name, model.ErrInvalidInput)
	}
	if strings.HasPrefix(cleaned, ".") {
		return "", fmt.Errorf("hidden file name %q: %w", name, model.ErrInvalidInput)
	}

	// Keep the extension when truncating so the type check still applies.
	runes := []rune(cleaned)
	if len(runes) > maxFilenameRunes {
		ext := []rune(extensionOf(cleaned))
		stem := runes[:maxFilenameRunes-len(ext)]
		cleaned = string(stem) + string(ext)
	}

	return cleaned, nil
}

func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 || len(name)-idx > 10 {
		return ""
	}
	return name[idx:]
}
