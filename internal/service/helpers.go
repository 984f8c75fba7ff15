package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/anchorhq/anchor/internal/domain"
)

// ErrInvalidInput marks request payloads that fail domain validation.
// Callers match it with errors.Is to map to a 400.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidCredentials is returned on a failed login. Deliberately the
// same for an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

const dateLayout = "2006-01-02"

// userLocation resolves the user's IANA timezone, falling back to UTC for
// unknown names.
func userLocation(u *domain.User) *time.Location {
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// userToday returns today's date in the user's timezone.
func userToday(u *domain.User) string {
	return time.Now().In(userLocation(u)).Format(dateLayout)
}

// userDateOffset returns the date the given number of days from today in
// the user's timezone. Negative offsets reach into the past.
func userDateOffset(u *domain.User, days int) string {
	return time.Now().In(userLocation(u)).AddDate(0, 0, days).Format(dateLayout)
}

// emotionScore maps an emotion state onto a 1-4 scale for trend math.
// Unknown or empty states score as neutral.
func emotionScore(e domain.EmotionState) int {
	switch e {
	case domain.EmotionEnergized:
		return 4
	case domain.EmotionOkay:
		return 3
	case domain.EmotionLow:
		return 2
	case domain.EmotionOverwhelmed:
		return 1
	default:
		return 3
	}
}
