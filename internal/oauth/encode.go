package oauth

import (
	"net/url"
	"sort"
	"strings"

	"github.com/dghubble/oauth1"
)

// normalizeParameters produces the sorted, encoded parameter string that's included in
// the signature base string (RFC 5849 section 3.4.1.3.2): pairs are sorted by encoded
// name, then by encoded value
func normalizeParameters(params url.Values) string {
	type pair struct{ k, v string }
	pairs := make([]pair, 0, len(params))
	for k, values := range params {
		for _, v := range values {
			pairs = append(pairs, pair{oauth1.PercentEncode(k), oauth1.PercentEncode(v)})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].k != pairs[j].k {
			return pairs[i].k < pairs[j].k
		}
		return pairs[i].v < pairs[j].v
	})
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.k+"="+p.v)
	}
	return strings.Join(parts, "&")
}

// baseStringURI strips the query and fragment from a request URL and lowercases its
// scheme and host (RFC 5849 section 3.4.1.2)
func baseStringURI(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	if (scheme == "http" && strings.HasSuffix(host, ":80")) || (scheme == "https" && strings.HasSuffix(host, ":443")) {
		host = host[:strings.LastIndex(host, ":")]
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return scheme + "://" + host + path
}

func signatureBase(method string, u *url.URL, params url.Values) string {
	return strings.Join([]string{
		oauth1.PercentEncode(strings.ToUpper(method)),
		oauth1.PercentEncode(baseStringURI(u)),
		oauth1.PercentEncode(normalizeParameters(params)),
	}, "&")
}
