package regex

import "regexp"

type re2Matcher struct {
	re *regexp.Regexp
}

func (m *re2Matcher) Match(s string) bool { return m.re.MatchString(s) }

func (m *re2Matcher) Dispose() {}

func newRE2Matcher(pattern string) (Matcher, Disposer, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, nil, err
	}
	m := &re2Matcher{re: re}
	return m, m, nil
}
