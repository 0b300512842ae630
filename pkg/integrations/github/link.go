package github

import (
	"net/url"
	"strings"
)

// NextPagePath extracts the path and query of the rel="next" target from an
// RFC 8288 Link header, for example:
//
//	<https://api.github.com/repositories/1726649/forks?page=2>; rel="next",
//	<https://api.github.com/repositories/1726649/forks?page=4>; rel="last"
//
// yields "/repositories/1726649/forks?page=2". The host is dropped because
// every page is fetched from the client's own base URL.
//
// It returns ("", false) when the header is empty, carries no next relation,
// or cannot be parsed. Relation order is not assumed, a rel value may list
// several space-separated relation types, and commas inside <...> do not
// split entries.
func NextPagePath(header string) (string, bool) {
	for _, l := range parseLinks(header) {
		if !l.has("next") {
			continue
		}
		u, err := url.Parse(l.target)
		if err != nil || (u.Path == "" && u.RawQuery == "") {
			return "", false
		}
		return u.RequestURI(), true
	}
	return "", false
}

type link struct {
	target string
	rels   []string
}

func (l link) has(rel string) bool {
	for _, r := range l.rels {
		if strings.EqualFold(r, rel) {
			return true
		}
	}
	return false
}

// parseLinks splits a Link header into its entries. Malformed entries are
// skipped up to the next top-level comma.
func parseLinks(header string) []link {
	var links []link
	s := header
	for {
		s = strings.TrimLeft(s, " \t,")
		if s == "" {
			return links
		}
		if s[0] != '<' {
			s = skipEntry(s)
			continue
		}
		end := strings.IndexByte(s, '>')
		if end < 0 {
			return links
		}
		l := link{target: strings.TrimSpace(s[1:end])}
		var params string
		params, s = splitEntry(s[end+1:])
		l.rels = relParam(params)
		if l.target != "" {
			links = append(links, l)
		}
	}
}

// splitEntry returns the parameter text of the current entry and the rest
// of the header after the entry's terminating comma. Commas inside quoted
// strings do not terminate.
func splitEntry(s string) (params, rest string) {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if quoted {
				i++
			}
		case '"':
			quoted = !quoted
		case ',':
			if !quoted {
				return s[:i], s[i+1:]
			}
		}
	}
	return s, ""
}

func skipEntry(s string) string {
	_, rest := splitEntry(s)
	return rest
}

// relParam returns the relation types of the rel parameter in params.
func relParam(params string) []string {
	for _, p := range strings.Split(params, ";") {
		key, value, ok := strings.Cut(p, "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.TrimPrefix(value, `"`)
		value = strings.TrimSuffix(value, `"`)
		return strings.Fields(value)
	}
	return nil
}
