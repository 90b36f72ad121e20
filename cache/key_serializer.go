package cache

import (
	"strconv"
	"strings"
)

// Kind names an entity family sharing one key space (movie, actor, genre).
type Kind string

const (
	KindMovie Kind = "movie"
	KindActor Kind = "actor"
	KindGenre Kind = "genre"
)

func (k Kind) String() string { return string(k) }

const (
	// KeySeparator joins the segments of a cache key.
	KeySeparator = "_"
	// NamespaceSeparator joins an optional namespace to the key.
	NamespaceSeparator = ":"
)

// KeySerializer derives cache keys for entity items and pages.
// Keys must be deterministic: the same inputs always produce the same key.
type KeySerializer interface {
	// ItemKey addresses a single entity: "{kind}_{id}".
	ItemKey(kind Kind, id int64) string
	// PageKey addresses one page of a listing: "{kind}_page_{page}_limit_{limit}".
	PageKey(kind Kind, page, limit int) string
	// PagePrefix is shared by every PageKey of a kind.
	PagePrefix(kind Kind) string
}

type defaultKeySerializer struct {
	namespace string
}

// NewDefaultKeySerializer creates the default serializer. A non empty namespace is
// prepended as "{namespace}:" so several catalogs can share one backend.
func NewDefaultKeySerializer(namespace ...string) KeySerializer {
	s := &defaultKeySerializer{}
	if len(namespace) > 0 {
		s.namespace = strings.TrimSpace(namespace[0])
	}
	return s
}

func (s *defaultKeySerializer) ItemKey(kind Kind, id int64) string {
	return s.qualify(normalizeKind(kind) + KeySeparator + strconv.FormatInt(id, 10))
}

func (s *defaultKeySerializer) PageKey(kind Kind, page, limit int) string {
	var b strings.Builder
	b.WriteString(s.PagePrefix(kind))
	b.WriteString(strconv.Itoa(page))
	b.WriteString(KeySeparator)
	b.WriteString("limit")
	b.WriteString(KeySeparator)
	b.WriteString(strconv.Itoa(limit))
	return b.String()
}

func (s *defaultKeySerializer) PagePrefix(kind Kind) string {
	return s.qualify(normalizeKind(kind) + KeySeparator + "page" + KeySeparator)
}

func (s *defaultKeySerializer) qualify(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + NamespaceSeparator + key
}

// normalizeKind lower cases a kind and collapses anything outside [a-z0-9] into a
// single underscore, so "Movie Genre" and "movie-genre" both become "movie_genre".
func normalizeKind(kind Kind) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(string(kind)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			pending = false
			continue
		}
		pending = true
	}
	return b.String()
}
