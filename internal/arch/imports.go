package arch

import (
	"bufio"
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
)

// ImportRef is one import statement found in a source file.
type ImportRef struct {
	// Module is the imported module or package target as written.
	Module string
	// Line is the 1-based line number of the import statement.
	Line int
}

// maxImportScanLines caps how far into a file imports are looked for;
// import sections live at the top.
const maxImportScanLines = 200

var (
	goImportLine     = regexp.MustCompile(`^\s*(?:import\s+)?(?:[_.\w]+\s+)?"([^"]+)"`)
	pyImport         = regexp.MustCompile(`^\s*import\s+([\w.]+)`)
	pyFromImport     = regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import\b`)
	tsImportFrom     = regexp.MustCompile(`^\s*import\b.*\bfrom\s+['"]([^'"]+)['"]`)
	tsBareImport     = regexp.MustCompile(`^\s*import\s+['"]([^'"]+)['"]`)
	tsRequire        = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	rustUseStatement = regexp.MustCompile(`^\s*(?:pub\s+)?use\s+([\w:]+)`)
)

// detectLanguage determines the source language from the file extension.
func detectLanguage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".ts", ".tsx", ".js", ".jsx":
		return "typescript"
	case ".rs":
		return "rust"
	default:
		return ""
	}
}

// IsSourceFile returns true for files whose imports the engine understands.
func IsSourceFile(path string) bool {
	return detectLanguage(path) != ""
}

// ExtractImports parses import statements out of source text. The language
// is chosen from the path's extension; unsupported extensions yield nil.
func ExtractImports(path string, src []byte) []ImportRef {
	lang := detectLanguage(path)
	if lang == "" {
		return nil
	}

	var imports []ImportRef
	scanner := bufio.NewScanner(bytes.NewReader(src))
	lineNum := 0
	inGoBlock := false

	for scanner.Scan() && lineNum < maxImportScanLines {
		lineNum++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || isComment(trimmed, lang) {
			continue
		}

		switch lang {
		case "go":
			if strings.HasPrefix(trimmed, "import (") {
				inGoBlock = true
				continue
			}
			if inGoBlock && trimmed == ")" {
				inGoBlock = false
				continue
			}
			if inGoBlock || strings.HasPrefix(trimmed, "import ") {
				if m := goImportLine.FindStringSubmatch(line); m != nil {
					imports = append(imports, ImportRef{Module: m[1], Line: lineNum})
				}
			}

		case "python":
			if m := pyFromImport.FindStringSubmatch(line); m != nil {
				imports = append(imports, ImportRef{Module: m[1], Line: lineNum})
			} else if m := pyImport.FindStringSubmatch(line); m != nil {
				imports = append(imports, ImportRef{Module: m[1], Line: lineNum})
			}

		case "typescript":
			if m := tsImportFrom.FindStringSubmatch(line); m != nil {
				imports = append(imports, ImportRef{Module: m[1], Line: lineNum})
			} else if m := tsBareImport.FindStringSubmatch(line); m != nil {
				imports = append(imports, ImportRef{Module: m[1], Line: lineNum})
			} else if m := tsRequire.FindStringSubmatch(line); m != nil {
				imports = append(imports, ImportRef{Module: m[1], Line: lineNum})
			}

		case "rust":
			if m := rustUseStatement.FindStringSubmatch(line); m != nil {
				imports = append(imports, ImportRef{Module: m[1], Line: lineNum})
			}
		}
	}

	return imports
}

// isComment checks if a line is a comment for the given language.
func isComment(line, lang string) bool {
	switch lang {
	case "go", "typescript", "rust":
		return strings.HasPrefix(line, "//") || strings.HasPrefix(line, "/*") || strings.HasPrefix(line, "*")
	case "python":
		return strings.HasPrefix(line, "#")
	default:
		return false
	}
}
