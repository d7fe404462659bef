/*
Staticlint запускает multichecker проекта pastelite.

В набор входят:

1. Стандартные анализаторы golang.org/x/tools:
  - printf, structtag, errorsas, sortslice, httpresponse, shadow, nilness

2. Анализаторы Staticcheck (https://staticcheck.io):
  - все SA-анализаторы (вероятные ошибки)
  - S1000..S1039 из класса simple (упрощение кода)

3. Сторонние анализаторы:
  - asciicheck: запрещает не-ASCII символы в идентификаторах

4. Собственный анализатор:
  - noosexit: запрещает os.Exit и log.Fatal* в функции main пакета main

Запуск:

	go run ./cmd/staticlint ./...
*/
package main

import (
	"strings"

	"github.com/tdakkota/asciicheck"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/sortslice"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"

	"github.com/issafronov/pastelite/cmd/staticlint/noosexit"
)

func main() {
	multichecker.Main(analyzers()...)
}

func analyzers() []*analysis.Analyzer {
	var list []*analysis.Analyzer
	seen := make(map[string]bool)
	add := func(a *analysis.Analyzer) {
		if !seen[a.Name] {
			list = append(list, a)
			seen[a.Name] = true
		}
	}

	for _, a := range []*analysis.Analyzer{
		printf.Analyzer,
		structtag.Analyzer,
		errorsas.Analyzer,
		sortslice.Analyzer,
		httpresponse.Analyzer,
		shadow.Analyzer,
		nilness.Analyzer,
	} {
		add(a)
	}

	for _, a := range staticcheck.Analyzers {
		if strings.HasPrefix(a.Analyzer.Name, "SA") {
			add(a.Analyzer)
		}
	}
	for _, a := range simple.Analyzers {
		if strings.HasPrefix(a.Analyzer.Name, "S10") {
			add(a.Analyzer)
		}
	}

	add(asciicheck.NewAnalyzer())
	add(noosexit.Analyzer)
	return list
}
