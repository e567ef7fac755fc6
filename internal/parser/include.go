package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"legen/internal/ast"
	"legen/pkg/utils"
)

// ResolveIncludes expands `#include "file.le"` directives into the
// referenced file's contents, resolved relative to baseDir, before
// lexing ever sees them. Unlike the C-preprocessor ancestor this is
// descended from, there is no `#define` macro layer and no system
// (angle-bracket) include path — LE has no macro language and no
// bundled standard headers, only source-local file composition.
func ResolveIncludes(src string, baseDir string) (string, error) {
	return resolveIncludesRecursive(src, baseDir, make(map[string]bool))
}

func resolveIncludesRecursive(src, baseDir string, visited map[string]bool) (string, error) {
	lines := strings.Split(src, "\n")
	var out strings.Builder

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#include") {
			out.WriteString(line)
			out.WriteString("\n")
			continue
		}

		rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "#include"))
		if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
			return "", fmt.Errorf("invalid include directive: %s", line)
		}
		filename := rest[1 : len(rest)-1]

		fullPath, parentDir, err := utils.GetPathInfo(filepath.Join(baseDir, filename))
		if err != nil {
			return "", err
		}
		if visited[fullPath] {
			return "", fmt.Errorf("circular include detected: %q", filename)
		}

		contents, err := os.ReadFile(fullPath)
		if err != nil {
			return "", fmt.Errorf("failed to read included file %q: %v", filename, err)
		}

		childVisited := make(map[string]bool, len(visited)+1)
		for k, v := range visited {
			childVisited[k] = v
		}
		childVisited[fullPath] = true

		expanded, err := resolveIncludesRecursive(string(contents), parentDir, childVisited)
		if err != nil {
			return "", err
		}
		out.WriteString(expanded)
		out.WriteString("\n")
	}
	return out.String(), nil
}

// ParseFile reads path, expands #include directives relative to its
// directory, and parses the result into a translation unit.
func ParseFile(path string) (*ast.TranslationUnit, error) {
	_, parentDir, err := utils.GetPathInfo(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	expanded, err := ResolveIncludes(string(data), parentDir)
	if err != nil {
		return nil, err
	}
	return Parse(expanded)
}
