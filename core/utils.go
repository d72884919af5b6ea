package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CleanString trims all leading and trailing white space in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Date returns the UTC midnight time for the given calendar day.
// All attendance dates are normalized this way before being compared.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates `t` to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return Date(y, m, d)
}

// ParseDate parses a YYYY-MM-DD date string into a UTC midnight time.
func ParseDate(val string) (time.Time, error) {
	return time.Parse(dateLayout, val)
}

// FormatDate formats `t` as a YYYY-MM-DD date string.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Getwd returns the project root: the nearest ancestor of the working
// directory containing a go.mod. go-test runs each package from its own
// directory, which would otherwise break relative paths (config/.env.*).
// see: https://stackoverflow.com/questions/23847003/golang-tests-and-working-directory
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == currDir {
			return wd // no go.mod found; fall back to the working directory
		}
		currDir = newDir
	}
}
