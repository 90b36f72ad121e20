package cache

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest is a normalized page/limit pair. Build it with NormalizePage or
// ParsePageRequest so that equivalent inputs share one cache key.
type PageRequest struct {
	Page  int
	Limit int
}

// NormalizePage clamps raw paging input. Non positive pages become 1, non positive
// limits become 20 and limits above 100 become 100.
func NormalizePage(page, limit int) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

// ParsePageRequest normalizes query string values. Like a lenient integer parse, a
// leading integer is honoured ("3abc" is 3) and anything unparsable falls back to
// the defaults.
func ParsePageRequest(pageRaw, limitRaw string) PageRequest {
	return NormalizePage(leadingInt(pageRaw), leadingInt(limitRaw))
}

// Skip is the number of records preceding the page. Check Overflows first: a
// page far past the end wraps around.
func (p PageRequest) Skip() int {
	return (p.Page - 1) * p.Limit
}

// Overflows reports whether Skip does not fit in an int. No store holds that many
// records, so such a page is always empty.
func (p PageRequest) Overflows() bool {
	return p.Limit > 0 && p.Page-1 > math.MaxInt/p.Limit
}

func leadingInt(raw string) int {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) {
		c := raw[end]
		if (c == '-' || c == '+') && end == 0 {
			end++
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		end++
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0
	}
	return n
}
