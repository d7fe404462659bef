// Package noosexit запрещает завершать процесс из функции main пакета main
// через os.Exit или log.Fatal*: отложенные вызовы при этом не выполняются.
package noosexit

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

// Analyzer — анализатор noosexit
var Analyzer = &analysis.Analyzer{
	Name: "noosexit",
	Doc:  "запрещает os.Exit и log.Fatal* в функции main пакета main",
	Run:  run,
}

// forbidden — запрещённые функции по пути пакета
var forbidden = map[string]map[string]bool{
	"os":  {"Exit": true},
	"log": {"Fatal": true, "Fatalf": true, "Fatalln": true},
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Name.Name != "main" || fn.Recv != nil || fn.Body == nil {
				continue
			}

			ast.Inspect(fn.Body, func(n ast.Node) bool {
				// замыкания внутри main выполняются не обязательно в main
				if _, ok := n.(*ast.FuncLit); ok {
					return false
				}

				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				sel, ok := call.Fun.(*ast.SelectorExpr)
				if !ok {
					return true
				}

				callee, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
				if !ok || callee.Pkg() == nil {
					return true
				}
				if forbidden[callee.Pkg().Path()][callee.Name()] {
					pass.Reportf(call.Pos(), "вызов %s.%s в main запрещён, верните ошибку из run", callee.Pkg().Name(), callee.Name())
				}
				return true
			})
		}
	}
	return nil, nil
}
