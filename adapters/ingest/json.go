package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tidwall/gjson"

	"gomlready/domain/core"
	"gomlready/domain/dataset"
)

const payloadSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["rows"],
	"properties": {
		"name": {"type": "string"},
		"columns": {
			"type": "array",
			"items": {"type": "string", "minLength": 1},
			"uniqueItems": true
		},
		"rows": {
			"type": "array",
			"items": {"type": "object"}
		}
	}
}`

// payloadSchema is the compiled schema for {"columns": [...], "rows": [...]}.
var payloadSchema = mustCompileSchema(payloadSchemaJSON, "payload.schema.json")

func mustCompileSchema(raw, name string) *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// ParseJSON builds a dataset from a JSON document. With an empty dataPath
// the body must be a {"columns", "rows"} payload; otherwise dataPath is a
// gjson path to an array of objects (a single object is one row). Columns
// default to the first row's keys in document order.
func ParseJSON(body []byte, dataPath string) (*dataset.Dataset, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", core.ErrInvalidInput)
	}

	var columns []string
	name := ""
	rowsPath := dataPath
	if dataPath == "" {
		if err := validatePayload(body); err != nil {
			return nil, err
		}
		for _, c := range gjson.GetBytes(body, "columns").Array() {
			columns = append(columns, c.String())
		}
		name = gjson.GetBytes(body, "name").String()
		rowsPath = "rows"
	}

	result := gjson.GetBytes(body, rowsPath)
	if !result.Exists() {
		return nil, fmt.Errorf("%w: data path '%s' not found", core.ErrInvalidInput, rowsPath)
	}

	var records []gjson.Result
	switch {
	case result.IsArray():
		records = result.Array()
	case result.IsObject():
		records = []gjson.Result{result}
	default:
		return nil, fmt.Errorf("%w: data path '%s' is not an array or object", core.ErrInvalidInput, rowsPath)
	}

	if columns == nil && len(records) > 0 {
		records[0].ForEach(func(key, _ gjson.Result) bool {
			columns = append(columns, key.String())
			return true
		})
	}

	rows := make([]dataset.Row, 0, len(records))
	for i, rec := range records {
		if !rec.IsObject() {
			return nil, fmt.Errorf("%w: record %d is not an object", core.ErrMalformedRow, i)
		}
		row := make(dataset.Row, len(columns))
		for _, col := range columns {
			row[col] = cellValue(rec.Get(gjson.Escape(col)))
		}
		rows = append(rows, row)
	}
	return dataset.New(name, columns, rows)
}

func validatePayload(body []byte) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	if err := payloadSchema.Validate(doc); err != nil {
		return fmt.Errorf("%w: payload does not match schema: %v", core.ErrInvalidInput, err)
	}
	return nil
}

// cellValue keeps integers as int64 so identifier sequences survive.
func cellValue(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		if !strings.ContainsAny(r.Raw, ".eE") {
			if n, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
				return n
			}
		}
		return r.Float()
	case gjson.String:
		if IsNullToken(r.Str) {
			return nil
		}
		return r.Str
	}
	// Nested arrays and objects are kept as their raw text.
	if r.Exists() {
		return r.Raw
	}
	return nil
}
