package identity

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"strconv"
	"unicode/utf8"
)

// Session payloads come from several generations of the portal backend.
// The primary "id" may be a small integer, a decimal string, or an opaque
// identifier minted by an external auth provider. Some generations carry
// the numeric actor id aside, as "user_id".
//
// Identifiers longer than this are assumed opaque, never decimal actor ids.
const opaqueIDThreshold = 20

type record struct {
	ID     json.RawMessage `json:"id"`
	UserID json.RawMessage `json:"user_id"`
}

// Resolve extracts the numeric actor id out of a raw session payload.
//
// The checks run in order, first match wins:
//
//  1. "id" is an integer: that value.
//  2. "user_id" is an integer: that value.
//  3. "id" is a string longer than opaqueIDThreshold: no usable id
//     (the side "user_id" would have matched in 2. already).
//  4. "id" is a shorter string: parse it base-10, accept only strictly
//     positive values.
//
// Malformed or missing payloads never fail loudly; they resolve to
// (0, false), which downstream treats as "unauthenticated".
func Resolve(raw []byte) (int64, bool) {
	return Resolver{}.Resolve(raw)
}

// Resolver is Resolve with a place to send diagnostics.
//
// The zero Resolver is valid and silent.
type Resolver struct {
	Logger *log.Logger
}

func (r Resolver) Resolve(raw []byte) (int64, bool) {
	rec := record{}
	if err := json.Unmarshal(raw, &rec); err != nil {
		r.logf("session payload is not a JSON object: %s", err)
		return 0, false
	}

	if id, ok := asInteger(rec.ID); ok {
		if id < 0 {
			r.logf("session id is negative: %d", id)
			return 0, false
		}
		return id, true
	}

	if id, ok := asInteger(rec.UserID); ok {
		if id < 0 {
			r.logf("session user_id is negative: %d", id)
			return 0, false
		}
		return id, true
	}

	s, ok := asString(rec.ID)
	if !ok {
		r.logf("session payload has no usable identity field")
		return 0, false
	}

	if utf8.RuneCountInString(s) > opaqueIDThreshold {
		// opaque external identifier; not a decimal actor id
		r.logf("session id looks opaque (%d runes), no side user_id", utf8.RuneCountInString(s))
		return 0, false
	}

	if id, err := strconv.ParseInt(s, 10, 64); err == nil && 0 < id {
		return id, true
	}

	r.logf("session id %q is not a positive decimal", s)
	return 0, false
}

func (r Resolver) logf(format string, args ...any) {
	if r.Logger == nil {
		return
	}
	r.Logger.Printf(format, args...)
}

// asInteger reports raw as an int64 when it is a JSON number without a
// fractional part. json.Number keeps 7 and 7.5 apart where float64 cannot.
func asInteger(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return 0, false
	}
	num, ok := tok.(json.Number)
	if !ok {
		return 0, false
	}
	n, err := num.Int64()
	if err != nil {
		return 0, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return 0, false
	}
	return n, true
}

func asString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
