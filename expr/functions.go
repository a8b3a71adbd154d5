package expr

import (
	"strings"

	"github.com/sparqlcore/engine/compare"
	"github.com/sparqlcore/engine/internal/regex"
	"github.com/sparqlcore/engine/rdfterm"
)

// callFunction dispatches a parenthesized call whose name has already been
// consumed (up to and including the opening '('). It handles BOUND, IF,
// COALESCE, REGEX, CONTAINS, STRSTARTS, STRENDS, STR, LANG, DATATYPE,
// isIRI/isBlank/isLiteral, and the xsd:* cast constructors.
func (e *evaluator) callFunction(name string) (rdfterm.Term, error) {
	upper := strings.ToUpper(name)
	switch upper {
	case "BOUND":
		v, err := e.parseOr()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		if err := e.expectClose(); err != nil {
			return rdfterm.UnboundTerm, err
		}
		return boolTerm(v.IsBound()), nil

	case "IF":
		cond, err := e.parseOr()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		if err := e.expectComma(); err != nil {
			return rdfterm.UnboundTerm, err
		}
		thenV, err := e.parseOr()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		if err := e.expectComma(); err != nil {
			return rdfterm.UnboundTerm, err
		}
		elseV, err := e.parseOr()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		if err := e.expectClose(); err != nil {
			return rdfterm.UnboundTerm, err
		}
		if EBV(cond) {
			return thenV, nil
		}
		return elseV, nil

	case "COALESCE":
		var result = rdfterm.UnboundTerm
		found := false
		for {
			e.skipWS()
			if e.matchOp(")") {
				break
			}
			v, err := e.parseOr()
			if err != nil {
				return rdfterm.UnboundTerm, err
			}
			if !found && v.IsBound() {
				result = v
				found = true
			}
			e.skipWS()
			if e.matchOp(",") {
				continue
			}
			if e.matchOp(")") {
				break
			}
			return rdfterm.UnboundTerm, ErrEval.New("expected ',' or ')' in COALESCE")
		}
		return result, nil

	case "REGEX":
		return e.callRegex()

	case "CONTAINS":
		a, b, err := e.twoStringArgs()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		return boolTerm(strings.Contains(a, b)), nil

	case "STRSTARTS":
		a, b, err := e.twoStringArgs()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		return boolTerm(strings.HasPrefix(a, b)), nil

	case "STRENDS":
		a, b, err := e.twoStringArgs()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		return boolTerm(strings.HasSuffix(a, b)), nil

	case "STR":
		v, err := e.oneArg()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		return rdfterm.NewPlainLiteral(v.Lexical), nil

	case "LANG":
		v, err := e.oneArg()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		return rdfterm.NewPlainLiteral(v.Lang), nil

	case "DATATYPE":
		v, err := e.oneArg()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		if v.Kind != rdfterm.TypedLiteral {
			return rdfterm.UnboundTerm, nil
		}
		return rdfterm.NewIRI(v.Datatype), nil

	case "ISIRI", "ISURI":
		v, err := e.oneArg()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		return boolTerm(v.Kind == rdfterm.IRI), nil

	case "ISBLANK":
		v, err := e.oneArg()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		return boolTerm(v.Kind == rdfterm.BlankNode), nil

	case "ISLITERAL":
		v, err := e.oneArg()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		k := v.Kind
		return boolTerm(k == rdfterm.PlainLiteral || k == rdfterm.LangLiteral || k == rdfterm.TypedLiteral), nil
	}

	if cast, ok := castFunctionFor(name); ok {
		v, err := e.oneArg()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		result, ok := cast(v)
		if !ok {
			return rdfterm.UnboundTerm, nil
		}
		return result, nil
	}

	return rdfterm.UnboundTerm, ErrEval.New("unknown function " + name)
}

func castFunctionFor(name string) (func(rdfterm.Term) (rdfterm.Term, bool), bool) {
	switch name {
	case "xsd:integer":
		return compare.CastInteger, true
	case "xsd:decimal":
		return compare.CastDecimal, true
	case "xsd:double", "xsd:float":
		return compare.CastDouble, true
	case "xsd:boolean":
		return compare.CastBoolean, true
	case "xsd:string":
		return compare.CastString, true
	case "xsd:dateTime":
		return compare.CastDateTime, true
	}
	return nil, false
}

func (e *evaluator) oneArg() (rdfterm.Term, error) {
	v, err := e.parseOr()
	if err != nil {
		return rdfterm.UnboundTerm, err
	}
	if err := e.expectClose(); err != nil {
		return rdfterm.UnboundTerm, err
	}
	return v, nil
}

func (e *evaluator) twoStringArgs() (string, string, error) {
	a, err := e.parseOr()
	if err != nil {
		return "", "", err
	}
	if err := e.expectComma(); err != nil {
		return "", "", err
	}
	b, err := e.parseOr()
	if err != nil {
		return "", "", err
	}
	if err := e.expectClose(); err != nil {
		return "", "", err
	}
	return a.Lexical, b.Lexical, nil
}

func (e *evaluator) expectComma() error {
	e.skipWS()
	if !e.matchOp(",") {
		return ErrEval.New("expected ','")
	}
	return nil
}

func (e *evaluator) expectClose() error {
	e.skipWS()
	if !e.matchOp(")") {
		return ErrEval.New("expected ')'")
	}
	return nil
}

// callRegex parses REGEX(str, pattern[, flags]) and evaluates it via the
// registered default regex engine, honoring the "i" case-insensitive flag.
func (e *evaluator) callRegex() (rdfterm.Term, error) {
	subject, err := e.parseOr()
	if err != nil {
		return rdfterm.UnboundTerm, err
	}
	if err := e.expectComma(); err != nil {
		return rdfterm.UnboundTerm, err
	}
	pattern, err := e.parseOr()
	if err != nil {
		return rdfterm.UnboundTerm, err
	}

	flags := ""
	e.skipWS()
	if e.matchOp(",") {
		f, err := e.parseOr()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		flags = f.Lexical
	}
	if err := e.expectClose(); err != nil {
		return rdfterm.UnboundTerm, err
	}

	pat := pattern.Lexical
	if strings.Contains(flags, "i") {
		pat = "(?i)" + pat
	}
	m, d, err := regex.New(regex.Default(), pat)
	if err != nil {
		return rdfterm.UnboundTerm, nil
	}
	defer d.Dispose()
	return boolTerm(m.Match(subject.Lexical)), nil
}
