package hikvision

import (
	"regexp"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
)

var enabledPattern = regexp.MustCompile(`<enabled>\s*(true|false)\s*</enabled>`)

var errEmptyPicture = custerror.FormatUpstream("camera returned an empty picture")

// SetEnabled rewrites the first <enabled> element of a detection document.
// Nested trigger sections carry their own flags and are left untouched.
func SetEnabled(doc []byte, enable bool) ([]byte, error) {
	loc := enabledPattern.FindIndex(doc)
	if loc == nil {
		return nil, custerror.FormatUpstream("detection settings have no enabled flag")
	}
	value := "false"
	if enable {
		value = "true"
	}
	out := make([]byte, 0, len(doc)+1)
	out = append(out, doc[:loc[0]]...)
	out = append(out, "<enabled>"+value+"</enabled>"...)
	out = append(out, doc[loc[1]:]...)
	return out, nil
}
