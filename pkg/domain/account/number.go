package account

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
)

// NumberPrefix is the country code and check digits every generated number starts with.
const NumberPrefix = "FR76"

// ErrInvalidNumber is returned for account numbers that do not match the expected shape.
var ErrInvalidNumber = fmt.Errorf("%w: invalid account number", domain.ErrValidation)

var numberPattern = regexp.MustCompile(`^[A-Z]{2}\d{2}\d+$`)

// ValidNumber reports whether number looks like an account number.
func ValidNumber(number string) bool {
	return numberPattern.MatchString(number)
}

// GenerateNumber returns NumberPrefix, the last ten digits of the current
// unix-millisecond timestamp and four random digits.
func GenerateNumber() (string, error) {
	return generateNumberAt(time.Now())
}

func generateNumberAt(t time.Time) (string, error) {
	ts := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ts) > 10 {
		ts = ts[len(ts)-10:]
	}
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("generate account number: %w", err)
	}
	return fmt.Sprintf("%s%s%04d", NumberPrefix, ts, n.Int64()), nil
}
