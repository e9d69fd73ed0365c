package swagger

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/russross/blackfriday/v2"
)

// Methods in the order they are listed for one path.
var methodOrder = []string{"get", "put", "post", "patch", "delete", "head", "options"}

// Operation is one method of one path in the OpenAPI document.
type Operation struct {
	Method    string
	Path      string
	Summary   string
	Responses []string
}

// Operations lists the operations of a parsed OpenAPI document ordered by
// path, then method.
func Operations(doc map[string]interface{}) []Operation {
	paths, _ := doc["paths"].(map[string]interface{})
	var ops []Operation
	for _, p := range sortedKeys(paths) {
		methods, _ := paths[p].(map[string]interface{})
		for _, m := range methodOrder {
			op, ok := methods[m].(map[string]interface{})
			if !ok {
				continue
			}
			summary, _ := op["summary"].(string)
			responses, _ := op["responses"].(map[string]interface{})
			ops = append(ops, Operation{
				Method:    strings.ToUpper(m),
				Path:      p,
				Summary:   summary,
				Responses: sortedKeys(responses),
			})
		}
	}
	return ops
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

const docsHead = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>picarena API Docs</title>
    <style>body{font-family:sans-serif;max-width:60rem;margin:2rem auto;padding:0 1rem}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.3rem .6rem;text-align:left}</style>
  </head>
  <body>
`

const docsTail = `  </body>
</html>
`

// markdown writes the reference page for spec as Markdown.
func markdown(spec []byte) ([]byte, error) {
	doc, err := yaml.Parser().Unmarshal(spec)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	info, _ := doc["info"].(map[string]interface{})
	title, _ := info["title"].(string)
	version, _ := info["version"].(string)
	description, _ := info["description"].(string)

	var md bytes.Buffer
	fmt.Fprintf(&md, "# %s %s\n\n", title, version)
	if description != "" {
		md.WriteString(strings.TrimSpace(description))
		md.WriteString("\n\n")
	}
	md.WriteString("| Method | Path | Summary | Responses |\n")
	md.WriteString("|--------|------|---------|-----------|\n")
	for _, op := range Operations(doc) {
		fmt.Fprintf(&md, "| %s | `%s` | %s | %s |\n",
			op.Method, op.Path, strings.ReplaceAll(op.Summary, "|", `\|`), strings.Join(op.Responses, ", "))
	}
	md.WriteString("\nThe full document is served at [/openapi.yaml](/openapi.yaml).\n")
	return md.Bytes(), nil
}

var (
	docsOnce sync.Once
	docs     []byte
	docsErr  error
)

// Docs returns the HTML reference page rendered from the embedded document.
func Docs() ([]byte, error) {
	docsOnce.Do(func() {
		md, err := markdown(OpenAPI)
		if err != nil {
			docsErr = err
			return
		}
		var buf bytes.Buffer
		buf.WriteString(docsHead)
		buf.Write(blackfriday.Run(md))
		buf.WriteString(docsTail)
		docs = buf.Bytes()
	})
	return docs, docsErr
}
