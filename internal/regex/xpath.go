package regex

import "github.com/dlclark/regexp2"

type xpathMatcher struct {
	re *regexp2.Regexp
}

func (m *xpathMatcher) Match(s string) bool {
	ok, err := m.re.MatchString(s)
	return err == nil && ok
}

func (m *xpathMatcher) Dispose() {}

func newXPathMatcher(pattern string) (Matcher, Disposer, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, nil, err
	}
	m := &xpathMatcher{re: re}
	return m, m, nil
}

// newXPathMatcherWithFlags compiles pattern honoring SPARQL REGEX's "i"
// (case-insensitive), "s" (dot matches newline), "m" (multiline), and "x"
// (extended whitespace) flags, translated to regexp2's RegexOptions.
func newXPathMatcherWithFlags(pattern, flags string) (Matcher, Disposer, error) {
	opts := regexp2.None
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 's':
			opts |= regexp2.Singleline
		case 'm':
			opts |= regexp2.Multiline
		case 'x':
			opts |= regexp2.IgnorePatternWhitespace
		}
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, nil, err
	}
	m := &xpathMatcher{re: re}
	return m, m, nil
}
