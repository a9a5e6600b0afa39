// Package referral extracts referral codes from shared invite links.
package referral

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// query parameters an invite link may carry the code in, by priority
var params = []string{"ref", "referralCode"}

var codeRe = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}$`)

var (
	ErrNoCode      = errors.New("link carries no referral code")
	ErrInvalidCode = errors.New("invalid referral code")
)

// Parse accepts either an invite URL (https://host/signup?ref=CODE) or a
// bare code and returns the code.
func Parse(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrNoCode
	}

	if !strings.Contains(input, "?") && !strings.Contains(input, "/") {
		return validate(input)
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for _, p := range params {
		if v := q.Get(p); v != "" {
			return validate(v)
		}
	}
	return "", ErrNoCode
}

func validate(code string) (string, error) {
	if !codeRe.MatchString(code) {
		return "", ErrInvalidCode
	}
	return code, nil
}
