package service

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// The core packages must not depend on the HTTP layer or on infrastructure.
func TestCorePackagesStayFreeOfOuterLayers(t *testing.T) {
	forbidden := []string{
		"github.com/pressroom/blog-api/internal/api",
		"github.com/pressroom/blog-api/internal/infrastructure",
	}

	for _, dir := range []string{".", "../domain", "../ports"} {
		files, err := filepath.Glob(filepath.Join(dir, "*.go"))
		if err != nil {
			t.Fatalf("glob %s: %v", dir, err)
		}
		if len(files) == 0 {
			t.Fatalf("no go files in %s", dir)
		}

		fset := token.NewFileSet()
		for _, file := range files {
			f, err := parser.ParseFile(fset, file, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatalf("parse %s: %v", file, err)
			}
			for _, imp := range f.Imports {
				path, _ := strconv.Unquote(imp.Path.Value)
				for _, prefix := range forbidden {
					if strings.HasPrefix(path, prefix) {
						t.Errorf("%s imports %s", file, path)
					}
				}
			}
		}
	}
}
