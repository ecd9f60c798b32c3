package static

import (
	"strconv"
	"strings"
)

// encoding is a content coding that Handler can serve from a precompressed
// sibling file.
type encoding struct {
	coding string // Accept-Encoding token, e.g. "br"
	suffix string // appended to the original file name, e.g. ".br"
}

// encodings are tried in order. The first one the client accepts and that has
// a sibling file on disk wins, regardless of the client's q-values.
var encodings = []encoding{
	{"br", ".br"},
	{"gzip", ".gz"},
}

// acceptedCodings records, for each coding a client listed in its
// Accept-Encoding header, whether it is acceptable (q > 0).
type acceptedCodings map[string]bool

// parseAcceptEncoding parses an Accept-Encoding header per RFC 9110 section
// 12.5.3. Malformed q-values are treated as q=1, since rejecting a coding the
// client probably wanted is worse than serving it.
func parseAcceptEncoding(header string) acceptedCodings {
	ac := make(acceptedCodings)
	for part := range strings.SplitSeq(header, ",") {
		coding, params, _ := strings.Cut(part, ";")
		coding = strings.ToLower(strings.TrimSpace(coding))
		if coding == "" {
			continue
		}
		if coding == "x-gzip" {
			coding = "gzip"
		}
		ac[coding] = qvalue(params) > 0
	}
	return ac
}

func qvalue(params string) float64 {
	for param := range strings.SplitSeq(params, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 1
		}
		return q
	}
	return 1
}

// allows reports whether the client accepts coding, either by name or through
// a "*" wildcard.
func (ac acceptedCodings) allows(coding string) bool {
	if ok, listed := ac[coding]; listed {
		return ok
	}
	return ac["*"]
}
