// Package main содержит multichecker для статического анализа кода сервиса.
//
// Multichecker объединяет следующие группы анализаторов:
//
// 1. Стандартные анализаторы из golang.org/x/tools/go/analysis/passes:
//   - nilness: проверяет возможные разыменования nil указателей
//   - shadow: обнаруживает затенение переменных
//   - unreachable: находит недостижимый код
//   - printf: проверяет корректность форматных строк
//   - assign: обнаруживает бесполезные присваивания
//   - atomic: проверяет правильность использования sync/atomic
//   - bools: анализирует булевы выражения
//   - buildtag: проверяет корректность build tags
//   - copylocks: обнаруживает копирование значений с мьютексами
//
// 2. Все анализаторы класса SA из staticcheck.io.
//
// 3. Дополнительные анализаторы staticcheck.io: ST1000 (именование пакетов)
// и S1000 (упрощения кода).
//
// 4. Публичный анализатор errcheck: проверка обработки возвращаемых ошибок.
//
// 5. Собственный анализатор noexit: запрещает прямой вызов os.Exit в функции
// main пакета main.
//
// Использование:
//
//	go run cmd/staticlint/main.go ./...
package main

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/buildtag"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"

	"github.com/kisielk/errcheck/errcheck"

	"github.com/tempizhere/tinylink/cmd/staticlint/noexit"
)

func main() {
	var analyzers []*analysis.Analyzer

	// Стандартные анализаторы из golang.org/x/tools/go/analysis/passes
	analyzers = append(analyzers,
		nilness.Analyzer,
		shadow.Analyzer,
		unreachable.Analyzer,
		printf.Analyzer,
		assign.Analyzer,
		atomic.Analyzer,
		bools.Analyzer,
		buildtag.Analyzer,
		copylock.Analyzer,
	)

	// Все анализаторы класса SA из staticcheck.io
	for _, analyzer := range staticcheck.Analyzers {
		analyzers = append(analyzers, analyzer.Analyzer)
	}

	// ST класс - проверки стиля кода
	for _, analyzer := range stylecheck.Analyzers {
		if analyzer.Analyzer.Name == "ST1000" {
			analyzers = append(analyzers, analyzer.Analyzer)
		}
	}

	// S класс - упрощения кода
	for _, analyzer := range simple.Analyzers {
		if analyzer.Analyzer.Name == "S1000" {
			analyzers = append(analyzers, analyzer.Analyzer)
		}
	}

	// Публичные анализаторы
	analyzers = append(analyzers, errcheck.Analyzer)

	// Собственный анализатор
	analyzers = append(analyzers, noexit.NoExitAnalyzer)

	multichecker.Main(analyzers...)
}
