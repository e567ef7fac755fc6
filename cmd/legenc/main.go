package main

import (
	"flag"
	"fmt"
	"os"

	"legen/internal/ast"
	"legen/internal/irmodule"
	"legen/internal/parser"
	"legen/pkg/codegen"
)

const sampleSource = `fn fib(n: i32) -> i32 {
	if (n < 2) {
		return n;
	}
	return fib(n - 1) + fib(n - 2);
}
`

func main() {
	out := flag.String("o", "", "write LLVM IR text to this file instead of stdout")
	printSrc := flag.Bool("S", false, "print the source text before compiling")
	moduleName := flag.String("module", "legen_module", "name of the emitted LLVM module")
	flag.Parse()

	var tu *ast.TranslationUnit
	var err error
	if flag.NArg() > 0 {
		if *printSrc {
			data, readErr := os.ReadFile(flag.Arg(0))
			if readErr != nil {
				fmt.Fprintln(os.Stderr, "read error:", readErr)
				os.Exit(1)
			}
			fmt.Printf("Source:\n%s\n", string(data))
		}
		tu, err = parser.ParseFile(flag.Arg(0))
	} else {
		if *printSrc {
			fmt.Printf("Source:\n%s\n", sampleSource)
		}
		tu, err = parser.Parse(sampleSource)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}

	module := irmodule.New(*moduleName)
	defer module.Dispose()

	if err := codegen.Compile(module, tu); err != nil {
		fmt.Fprintln(os.Stderr, "codegen error:", err)
		os.Exit(1)
	}

	ir := module.String()
	if *out == "" {
		fmt.Print(ir)
		return
	}
	if err := os.WriteFile(*out, []byte(ir), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "write error:", err)
		os.Exit(1)
	}
}
