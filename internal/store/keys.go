package store

import (
	"strings"

	domainerrors "github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/errors"
)

// Key layout. User ids and item ids are key segments, so they may not
// contain the separator.
const (
	sep = ":"

	shelfPrefix        = "shelf:"             // shelf:{user}:{item}
	shelfByTypePrefix  = "idx:shelf:"         // idx:shelf:{user}:{shelf}:{item}
	favoritePrefix     = "fav:"               // fav:{user}:{item}
	requestOutPrefix   = "freq:out:"          // freq:out:{sender}:{recipient}
	requestInPrefix    = "freq:in:"           // freq:in:{recipient}:{sender}
	friendPrefix       = "friend:"            // friend:{user}:{friend}
	notificationPrefix = "notif:"             // notif:{recipient}:{id}
	reviewPrefix       = "review:"            // review:{item}:{author}
	reviewByAuthor     = "idx:review:author:" // idx:review:author:{author}:{item}
	userPrefix         = "user:"              // user:{id}
)

func key(prefix string, parts ...string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for i, p := range parts {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(p)
	}
	return b.String()
}

// scope returns the prefix that lists every document below parts.
func scope(prefix string, parts ...string) string {
	return key(prefix, parts...) + sep
}

// lastSegment returns the part of k after the final separator.
func lastSegment(k string) string {
	if i := strings.LastIndex(k, sep); i >= 0 {
		return k[i+1:]
	}
	return k
}

// checkSegments rejects ids that would corrupt the key layout.
func checkSegments(parts ...string) error {
	for _, p := range parts {
		if p == "" {
			return domainerrors.Validation("identifier is required")
		}
		if strings.Contains(p, sep) {
			return domainerrors.Validationf("identifier %q may not contain %q", p, sep)
		}
	}
	return nil
}
