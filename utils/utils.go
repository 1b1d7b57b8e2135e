package utils

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/takoeight0821/rill/token"
	"gopkg.in/yaml.v3"
)

// SourceExt is the file extension of rill programs.
const SourceExt = ".rill"

// MsgAt prefixes msg with the position of where.
func MsgAt(where token.Token, msg string) string {
	if where.Kind == token.EOF {
		return fmt.Sprintf("at end: %s", msg)
	}
	return fmt.Sprintf("at %d: `%s`, %s", where.Line, where.Lexeme, msg)
}

type ErrorAt struct {
	Where token.Token
	Err   error
}

func (e ErrorAt) Error() string {
	return MsgAt(e.Where, e.Err.Error())
}

func (e ErrorAt) Unwrap() error {
	return e.Err
}

// TestData is one entry of testdata/testcase.yaml.
// Expected is keyed by stage: "parser" holds the AST dump, "output" the printed lines,
// and "error" a substring of the expected failure.
type TestData struct {
	Label    string
	Enable   bool
	Input    string
	Expected map[string]string
}

func ReadTestData(s []byte) []TestData {
	var data []TestData
	if err := yaml.Unmarshal(s, &data); err != nil {
		panic(err)
	}

	// Remove disabled test cases.
	i := 0
	for _, d := range data {
		if d.Enable {
			data[i] = d
			i++
		}
	}
	data = data[:i]

	return data
}

// FindSourceFiles returns every rill program under root in lexical order.
func FindSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == SourceExt {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
