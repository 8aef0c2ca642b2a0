// Package directhttp defines an analyzer that reports requests made through
// the net/http package-level client instead of a configured transport.
package directhttp

import (
	"errors"
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const netHTTP = "net/http"

var forbiddenFuncs = map[string]struct{}{
	"Get":      {},
	"Head":     {},
	"Post":     {},
	"PostForm": {},
}

var Analyzer = &analysis.Analyzer{
	Name:     "directhttp",
	Doc:      "reports http.Get/Head/Post/PostForm calls and http.DefaultClient uses; requests must go through a client with a timeout",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (any, error) {
	insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, errors.New("inspect result is not an *inspector.Inspector")
	}

	insp.Preorder([]ast.Node{(*ast.SelectorExpr)(nil)}, func(n ast.Node) {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return
		}
		switch obj := pass.TypesInfo.Uses[sel.Sel].(type) {
		case *types.Func:
			if fromNetHTTP(obj) && isForbiddenFunc(obj) {
				pass.Reportf(sel.Pos(), "http.%s uses the default client without a timeout; use a configured transport", obj.Name())
			}
		case *types.Var:
			if fromNetHTTP(obj) && obj.Name() == "DefaultClient" {
				pass.Reportf(sel.Pos(), "http.DefaultClient has no timeout; use a configured transport")
			}
		}
	})
	return nil, nil
}

func fromNetHTTP(obj types.Object) bool {
	return obj.Pkg() != nil && obj.Pkg().Path() == netHTTP
}

// isForbiddenFunc matches package-level helpers only; (*http.Client).Get is fine.
func isForbiddenFunc(fn *types.Func) bool {
	if sig, ok := fn.Type().(*types.Signature); !ok || sig.Recv() != nil {
		return false
	}
	_, bad := forbiddenFuncs[fn.Name()]
	return bad
}
