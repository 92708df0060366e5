package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID is a backend identifier. The backend encodes ids as JSON numbers but
// some payloads carry them as strings.
type ID int64

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		// Non-numeric ids are not addressable and read as absent.
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			*id = 0
			return nil
		}
		*id = ID(n)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	v, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return err
		}
		v = int64(f)
	}
	*id = ID(v)
	return nil
}

// String formats the id for URLs.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Int64 returns the id as int64.
func (id ID) Int64() int64 {
	return int64(id)
}
