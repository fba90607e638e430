package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// KST is the zone of every string-encoded timestamp the site emits.
var KST = time.FixedZone("KST", 9*60*60)

const localLayout = "2006-01-02 15:04:05"

// Timestamp is an absolute instant normalised to UTC.
//
// Older payloads encode times as "2006-01-02 15:04:05" strings in KST; newer ones as
// epoch milliseconds, sometimes quoted. All of them decode to the same value.
type Timestamp struct {
	time.Time
}

// At wraps t.
func At(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Time: t.UTC()}
}

// UnmarshalJSON accepts null, "", epoch milliseconds (number or string) and KST date strings.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}

	parsed, err := fromMillis(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON emits RFC 3339, or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// ParseTimestamp parses any of the string encodings the site has used.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}

	if isDigits(s) {
		return fromMillis(s)
	}

	if parsed, err := time.ParseInLocation(localLayout, s, KST); err == nil {
		return At(parsed), nil
	}

	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		return At(parsed), nil
	}

	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func fromMillis(s string) (Timestamp, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return Timestamp{}, fmt.Errorf("unrecognised timestamp %s", s)
		}
		ms = int64(f)
	}
	if ms == 0 {
		return Timestamp{}, nil
	}
	return At(time.UnixMilli(ms)), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
