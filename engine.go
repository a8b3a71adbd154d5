// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sparqlcore wires the parser, filter analyzer, streaming
// operators, and aggregator into one query engine over a temporal quad
// store: query text in, an ExecutionResult out, per §2's
// "query text → parser → parsed query → analyzer → physical plan →
// streaming iterator → materialized result view" pipeline.
package sparqlcore

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/yaml.v3"

	"github.com/sparqlcore/engine/agg"
	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/auth"
	"github.com/sparqlcore/engine/binding"
	"github.com/sparqlcore/engine/exec"
	"github.com/sparqlcore/engine/expr"
	"github.com/sparqlcore/engine/parser"
	"github.com/sparqlcore/engine/rdfterm"
	"github.com/sparqlcore/engine/store"
)

// ErrPermission is raised when an authenticated request lacks the
// Permission a query's form requires.
var ErrPermission = errors.NewKind("permission denied: %s requires %s")

// Config configures a new Engine. It is loadable from YAML the way the
// teacher's server configuration is, via LoadConfig.
type Config struct {
	// LogLevel sets the engine's logrus level ("debug", "info", "warn",
	// "error"); defaults to "info".
	LogLevel string `yaml:"log_level"`
	// Audit wraps the engine's Auth in auth.Audit, so every permission
	// check is also logged through logrus. Permission checks run either way.
	Audit bool `yaml:"audit"`
}

// DefaultConfig returns the Config a bare NewDefault engine uses.
func DefaultConfig() *Config {
	return &Config{LogLevel: "info"}
}

// LoadConfig parses YAML configuration text into a Config.
func LoadConfig(text []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(text, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Engine executes SPARQL 1.1 queries against a store.QuadStore.
type Engine struct {
	Store store.QuadStore
	Auth  auth.Auth
	// User names the identity Query runs as when checking Auth; defaults
	// to "admin", the name NewDefault's Native grants every permission.
	User string
	Log  *logrus.Logger
}

// New constructs an Engine over st using cfg.
func New(st store.QuadStore, cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	var a auth.Auth = auth.NewNativeSingle("admin", "", auth.AllPermissions)
	if cfg.Audit {
		a = auth.NewAudit(a, auth.NewAuditLog(log))
	}
	return &Engine{Store: st, Auth: a, User: "admin", Log: log}
}

// NewDefault constructs an Engine over a fresh in-memory store.
func NewDefault() *Engine {
	return New(store.NewMemStore(), DefaultConfig())
}

// Close releases the engine's store.
func (e *Engine) Close() error {
	return e.Store.Close()
}

// ResultKind is the §6 ExecutionResult taxonomy.
type ResultKind int

const (
	ResultEmpty ResultKind = iota
	ResultSelect
	ResultAsk
	ResultConstruct
	ResultDescribe
	ResultUpdate
	ResultPrefixRegistered
	ResultBaseSet
	ResultCommand
	ResultError
)

func (k ResultKind) String() string {
	switch k {
	case ResultSelect:
		return "Select"
	case ResultAsk:
		return "Ask"
	case ResultConstruct:
		return "Construct"
	case ResultDescribe:
		return "Describe"
	case ResultUpdate:
		return "Update"
	case ResultPrefixRegistered:
		return "PrefixRegistered"
	case ResultBaseSet:
		return "BaseSet"
	case ResultCommand:
		return "Command"
	case ResultError:
		return "Error"
	default:
		return "Empty"
	}
}

// ExecutionResult carries the outcome of one Query call, per §6.
type ExecutionResult struct {
	Kind    ResultKind
	Success bool
	Message string

	// Variables names the SELECT projection in output order; valid when
	// Kind == ResultSelect.
	Variables []string
	// Rows holds the materialized binding rows; valid when Kind ==
	// ResultSelect.
	Rows []*binding.Row

	// AskResult is the boolean result; valid when Kind == ResultAsk.
	AskResult bool

	// Triples holds the constructed/described quads; valid when Kind ==
	// ResultConstruct or ResultDescribe.
	Triples []rdfterm.Quad

	// Affected is the number of quads an update touched; valid when Kind
	// == ResultUpdate.
	Affected int64

	ParseTime     time.Duration
	ExecutionTime time.Duration
}

// TotalTime is ParseTime + ExecutionTime.
func (r *ExecutionResult) TotalTime() time.Duration {
	return r.ParseTime + r.ExecutionTime
}

func errorResult(msg string, parseTime time.Duration) *ExecutionResult {
	return &ExecutionResult{Kind: ResultError, Success: false, Message: msg, ParseTime: parseTime}
}

// Query parses and executes one SPARQL 1.1 query, holding the store's read
// lock across the whole execution per §4.7/§5.
func (e *Engine) Query(ctx context.Context, sparql string) *ExecutionResult {
	parseStart := time.Now()
	q, err := parser.Parse(sparql)
	parseTime := time.Since(parseStart)
	if err != nil {
		return errorResult(err.Error(), parseTime)
	}

	if err := e.checkPermission(sparql, q); err != nil {
		return errorResult(err.Error(), parseTime)
	}

	execStart := time.Now()
	result, err := e.execute(ctx, q)
	execTime := time.Since(execStart)
	if err != nil {
		res := errorResult(err.Error(), parseTime)
		res.ExecutionTime = execTime
		return res
	}
	result.ParseTime = parseTime
	result.ExecutionTime = execTime
	result.Success = true
	return result
}

func formName(f ast.QueryForm) string {
	switch f {
	case ast.Select:
		return "SELECT"
	case ast.Ask:
		return "ASK"
	case ast.Construct:
		return "CONSTRUCT"
	case ast.Describe:
		return "DESCRIBE"
	default:
		return "query"
	}
}

func (e *Engine) checkPermission(sparql string, q *ast.Query) error {
	if e.Auth == nil {
		return nil
	}
	reqCtx := &auth.RequestContext{User: e.User, Query: sparql}
	if err := e.Auth.Allowed(reqCtx, auth.ReadPerm); err != nil {
		return ErrPermission.New(formName(q.Form), "read")
	}
	return nil
}

func (e *Engine) execute(ctx context.Context, q *ast.Query) (*ExecutionResult, error) {
	switch q.Form {
	case ast.Select:
		return e.executeSelect(ctx, q)
	case ast.Ask:
		return e.executeAsk(ctx, q)
	case ast.Construct:
		return e.executeConstruct(ctx, q)
	case ast.Describe:
		return e.executeDescribe(ctx, q)
	}
	return &ExecutionResult{Kind: ResultEmpty, Success: true}, nil
}

// runSubSelect is the exec.SelectRunner the engine hands down into
// ExecuteGraphPattern for nested SELECTs, closing the loop between exec's
// pattern executor and the engine's own group/modifier pipeline without an
// import cycle.
func (e *Engine) runSubSelect(ctx context.Context, st store.QuadStore, q *ast.Query) ([]*binding.Row, error) {
	rows, _, err := e.runSelectPipeline(ctx, st, q)
	return rows, err
}

func (e *Engine) executeSelect(ctx context.Context, q *ast.Query) (*ExecutionResult, error) {
	rows, vars, err := e.runSelectPipeline(ctx, e.Store, q)
	if err != nil {
		return nil, err
	}
	return &ExecutionResult{Kind: ResultSelect, Variables: vars, Rows: rows}, nil
}

// runSelectPipeline runs the full join → aggregate/HAVING → project →
// ORDER BY → DISTINCT/REDUCED → OFFSET → LIMIT pipeline per §4.3's
// solution-modifier ordering, returning projected rows and their variable
// header.
func (e *Engine) runSelectPipeline(ctx context.Context, st store.QuadStore, q *ast.Query) ([]*binding.Row, []string, error) {
	it, err := exec.ExecuteGraphPattern(ctx, st, q, q.Where.Pattern, nil, nil, e.runSubSelect)
	if err != nil {
		return nil, nil, err
	}
	rows, err := exec.Collect(ctx, it)
	if err != nil {
		return nil, nil, err
	}

	sel := q.Select
	modifier := q.Modifier

	var projected []*binding.Row
	if len(modifier.GroupBy) > 0 || len(sel.Aggregates) > 0 {
		groups, err := agg.GroupBy(q.Source, rows, modifier.GroupBy, sel.Aggregates)
		if err != nil {
			return nil, nil, err
		}
		for _, g := range groups {
			ok, err := agg.Having(q.Source, modifier.Having, sel.Aggregates, g)
			if err != nil {
				return nil, nil, err
			}
			if !ok {
				continue
			}
			projected = append(projected, projectGroup(q, sel, g))
		}
	} else {
		for _, r := range rows {
			projected = append(projected, projectRow(q, sel, r))
		}
	}

	pit := RowIter(exec.NewSliceIter(projected))
	if len(modifier.OrderBy) > 0 {
		pit, err = exec.OrderBy(ctx, pit, q.Source, modifier.OrderBy)
		if err != nil {
			return nil, nil, err
		}
	}
	if sel.Distinct {
		pit = exec.NewDistinct(pit)
	} else if sel.Reduced {
		pit = exec.NewReduced(pit)
	}
	pit = exec.LimitOffset(pit, modifier.Offset, modifier.Limit)

	out, err := exec.Collect(ctx, pit)
	if err != nil {
		return nil, nil, err
	}
	return out, selectVariables(sel, out), nil
}

// RowIter is an alias for exec.RowIter, so callers outside exec can name
// the pipeline's intermediate cursor type.
type RowIter = exec.RowIter

func projectRow(q *ast.Query, sel *ast.SelectClause, row *binding.Row) *binding.Row {
	if sel.Star {
		return row
	}
	out := binding.NewRow()
	for _, item := range sel.Items {
		switch {
		case item.Var != nil:
			if v, ok := row.Get(item.Var.Name); ok {
				out = out.With(item.Var.Name, v)
			}
		case item.Agg == nil:
			v, err := expr.Eval(item.Expr.Text(q.Source), row)
			if err != nil {
				v = rdfterm.UnboundTerm
			}
			out = out.With(item.Alias, v)
		}
	}
	return out
}

func projectGroup(q *ast.Query, sel *ast.SelectClause, g *agg.Group) *binding.Row {
	if sel.Star {
		return g.Rep
	}
	out := binding.NewRow()
	for _, item := range sel.Items {
		switch {
		case item.Agg != nil:
			name, v := g.Result(item.Agg)
			out = out.With(name, v)
		case item.Var != nil:
			if v, ok := g.Rep.Get(item.Var.Name); ok {
				out = out.With(item.Var.Name, v)
			}
		default:
			v, err := expr.Eval(item.Expr.Text(q.Source), g.Rep)
			if err != nil {
				v = rdfterm.UnboundTerm
			}
			out = out.With(item.Alias, v)
		}
	}
	return out
}

func selectVariables(sel *ast.SelectClause, rows []*binding.Row) []string {
	if !sel.Star {
		names := make([]string, len(sel.Items))
		for i, item := range sel.Items {
			if item.Var != nil {
				names[i] = item.Var.Name
			} else {
				names[i] = item.Alias
			}
		}
		return names
	}
	seen := map[string]bool{}
	var names []string
	for _, r := range rows {
		for _, n := range r.Names() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}

func (e *Engine) executeAsk(ctx context.Context, q *ast.Query) (*ExecutionResult, error) {
	it, err := exec.ExecuteGraphPattern(ctx, e.Store, q, q.AskWhere, nil, nil, e.runSubSelect)
	if err != nil {
		return nil, err
	}
	defer it.Close(ctx)
	_, err = it.Next(ctx)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return &ExecutionResult{Kind: ResultAsk, AskResult: err == nil}, nil
}

func (e *Engine) executeConstruct(ctx context.Context, q *ast.Query) (*ExecutionResult, error) {
	it, err := exec.ExecuteGraphPattern(ctx, e.Store, q, q.Construct.Where, nil, nil, e.runSubSelect)
	if err != nil {
		return nil, err
	}
	rows, err := exec.Collect(ctx, it)
	if err != nil {
		return nil, err
	}

	seen := map[rdfterm.Quad]bool{}
	var out []rdfterm.Quad
	for _, row := range rows {
		fresh := map[string]rdfterm.Term{}
		for _, tp := range q.Construct.Template {
			quad, ok := instantiateTemplate(q, tp, row, fresh)
			if !ok {
				continue
			}
			if !seen[quad] {
				seen[quad] = true
				out = append(out, quad)
			}
		}
	}
	return &ExecutionResult{Kind: ResultConstruct, Triples: out}, nil
}

// instantiateTemplate substitutes row's bindings into a CONSTRUCT template
// triple, synthesizing a fresh blank node label per template blank-node
// label (fresh holds the labels already issued for the current row) so
// distinct rows never collide on the same template blank node.
func instantiateTemplate(q *ast.Query, tp ast.TriplePattern, row *binding.Row, fresh map[string]rdfterm.Term) (rdfterm.Quad, bool) {
	s, ok := templateTerm(q, tp.Subject, row)
	if !ok {
		return rdfterm.Quad{}, false
	}
	p, ok := templateTerm(q, tp.Predicate, row)
	if !ok {
		return rdfterm.Quad{}, false
	}
	o, ok := templateTerm(q, tp.Object, row)
	if !ok {
		return rdfterm.Quad{}, false
	}
	relabel := func(slot ast.TermOrVar, t rdfterm.Term) rdfterm.Term {
		if slot.Kind != ast.TermBlank {
			return t
		}
		if f, ok := fresh[t.Lexical]; ok {
			return f
		}
		f := rdfterm.NewBlankNode(store.NewBlankNodeID())
		fresh[t.Lexical] = f
		return f
	}
	return rdfterm.Quad{Subject: relabel(tp.Subject, s), Predicate: p, Object: relabel(tp.Object, o), ValidTo: rdfterm.PosInf}, true
}

func templateTerm(q *ast.Query, t ast.TermOrVar, row *binding.Row) (rdfterm.Term, bool) {
	if !t.IsVariable() {
		return exec.ConstantTerm(q, t), true
	}
	v, ok := row.Get(t.Var.Name)
	return v, ok
}

func (e *Engine) executeDescribe(ctx context.Context, q *ast.Query) (*ExecutionResult, error) {
	var resources []rdfterm.Term
	if q.Describe.Where != nil {
		it, err := exec.ExecuteGraphPattern(ctx, e.Store, q, q.Describe.Where, nil, nil, e.runSubSelect)
		if err != nil {
			return nil, err
		}
		rows, err := exec.Collect(ctx, it)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			for _, res := range q.Describe.Resources {
				if t, ok := templateTerm(q, res, r); ok {
					resources = append(resources, t)
				}
			}
		}
	} else {
		for _, res := range q.Describe.Resources {
			resources = append(resources, exec.ConstantTerm(q, res))
		}
	}

	var out []rdfterm.Quad
	for _, res := range resources {
		cur := res
		e.Store.AcquireReadLock()
		c, err := e.Store.QueryCurrent(ctx, &cur, nil, nil, nil)
		if err != nil {
			e.Store.ReleaseReadLock()
			return nil, err
		}
		for {
			quad, err := c.Next(ctx)
			if err == io.EOF {
				break
			}
			if err != nil {
				c.Close(ctx)
				e.Store.ReleaseReadLock()
				return nil, err
			}
			out = append(out, quad)
		}
		c.Close(ctx)
		e.Store.ReleaseReadLock()
	}
	return &ExecutionResult{Kind: ResultDescribe, Triples: out}, nil
}
