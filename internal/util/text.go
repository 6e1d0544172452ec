package util

import "strings"

// Yes is the affirmative value German form answers carry.
const Yes = "Ja"

func IsYes(value string) bool {
	return value == Yes
}

// SanitizeFilename strips characters that break filenames on common
// filesystems and caps the length.
func SanitizeFilename(input string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", "\"", "_")
	out := strings.TrimSpace(repl.Replace(input))
	if len(out) > 120 {
		out = out[:120]
	}
	return out
}
