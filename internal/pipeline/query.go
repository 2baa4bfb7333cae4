package pipeline

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/moovfinancial/moov-go/internal/apierror"
)

// Query is an ordered set of query parameters. Unlike url.Values it keeps
// keys in insertion order, and it drops empty values on insert.
type Query struct {
	keys   []string
	values []string
}

// Add appends key=value unless value is empty.
func (q *Query) Add(key, value string) *Query {
	if value == "" {
		return q
	}
	q.keys = append(q.keys, key)
	q.values = append(q.values, value)
	return q
}

// AddInt appends key=value unless value is zero.
func (q *Query) AddInt(key string, value int) *Query {
	if value == 0 {
		return q
	}
	return q.Add(key, strconv.Itoa(value))
}

// AddFloat appends key=value unless value is zero.
func (q *Query) AddFloat(key string, value float64) *Query {
	if value == 0 {
		return q
	}
	return q.Add(key, strconv.FormatFloat(value, 'f', -1, 64))
}

func (q *Query) Len() int {
	if q == nil {
		return 0
	}
	return len(q.keys)
}

// Encode renders the parameters in insertion order using form encoding, so
// spaces become "+".
func (q *Query) Encode() string {
	if q.Len() == 0 {
		return ""
	}

	var b strings.Builder
	for i, key := range q.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(q.values[i]))
	}
	return b.String()
}

// JoinPath escapes each segment and joins them with "/". The result is a
// relative path suitable for Request.Path. Dots are escaped in segments made
// only of dots, which url.PathEscape leaves alone.
func JoinPath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		if s != "" && strings.Trim(s, ".") == "" {
			escaped[i] = strings.Repeat("%2E", len(s))
			continue
		}
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}

// checkPath rejects an escaped path with a segment that a server would
// resolve as "." or "..".
func checkPath(escaped string) error {
	for _, segment := range strings.Split(escaped, "/") {
		unescaped, err := url.PathUnescape(segment)
		if err != nil {
			return fmt.Errorf("invalid request path %q: %w", escaped, err)
		}
		if unescaped == "." || unescaped == ".." {
			return apierror.ErrInvalidPathSegment
		}
	}
	return nil
}
