package task

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var schemaSource string

const schemaURL = "tasks.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
			schemaErr = fmt.Errorf("add tasks schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Encode serializes tasks, in order, to the persisted string form.
func Encode(tasks []Task) (string, error) {
	if tasks == nil {
		tasks = []Task{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tasks); err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}

	// Encoder terminates each value with a newline
	return unescapeLineSeparators(strings.TrimSuffix(buf.String(), "\n")), nil
}

// unescapeLineSeparators writes U+2028 and U+2029 as raw characters, the
// way JSON.stringify does; encoding/json always escapes them. Every
// backslash in encoder output starts an escape sequence.
func unescapeLineSeparators(s string) string {
	if !strings.Contains(s, `\u202`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		if s[i+1] == 'u' && i+6 <= len(s) {
			switch s[i+2 : i+6] {
			case "2028":
				b.WriteRune('\u2028')
				i += 5
				continue
			case "2029":
				b.WriteRune('\u2029')
				i += 5
				continue
			}
		}
		b.WriteString(s[i : i+2])
		i++
	}
	return b.String()
}

// Decode parses a persisted string back into tasks. An empty, absent, or
// "null" value yields an empty collection. Anything else that does not
// describe a valid collection yields a *DecodeError.
func Decode(s string) ([]Task, error) {
	doc, empty, err := parseDocument(s)
	if err != nil {
		return nil, err
	}
	if empty {
		return []Task{}, nil
	}

	if errs := schemaErrors(doc); len(errs) > 0 {
		return nil, errs[0]
	}

	var tasks []Task
	if err := json.Unmarshal([]byte(s), &tasks); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if errs := checkTasks(tasks); len(errs) > 0 {
		return nil, errs[0]
	}
	return tasks, nil
}

// Validate reports every problem found in a persisted string. An empty
// value is valid.
func Validate(s string) []error {
	doc, empty, err := parseDocument(s)
	if err != nil {
		return []error{err}
	}
	if empty {
		return nil
	}

	errs := schemaErrors(doc)
	if len(errs) > 0 {
		return errs
	}

	var tasks []Task
	if err := json.Unmarshal([]byte(s), &tasks); err != nil {
		return []error{&DecodeError{Err: err}}
	}
	return checkTasks(tasks)
}

// parseDocument decodes s into a generic JSON value for schema checks.
func parseDocument(s string) (doc interface{}, empty bool, err error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "null" {
		return nil, true, nil
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, false, &DecodeError{Err: err}
	}
	var extra interface{}
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, false, &DecodeError{Err: fmt.Errorf("unexpected data after collection")}
	}
	return doc, false, nil
}

func schemaErrors(doc interface{}) []error {
	sch, err := compiledSchema()
	if err != nil {
		return []error{&DecodeError{Err: err}}
	}
	if err := sch.Validate(doc); err != nil {
		var errs []error
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return []error{&DecodeError{Err: err}}
		}
		collectSchemaErrors(&errs, ve)
		return errs
	}
	return nil
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*errs = append(*errs, &DecodeError{
			Path: pointerPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// checkTasks reports what the schema cannot express. Names and types must
// survive Unicode trimming, ids must be unique, and no id may be the
// largest int since it has no successor.
func checkTasks(tasks []Task) []error {
	var errs []error
	seen := make(map[int]int, len(tasks))
	for i, t := range tasks {
		if t.ID == math.MaxInt {
			errs = append(errs, &DecodeError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("id %d leaves no room for another task", t.ID),
			})
		}
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, &DecodeError{Path: fmt.Sprintf("[%d].name", i), Err: ErrEmpty})
		}
		if strings.TrimSpace(t.Type) == "" {
			errs = append(errs, &DecodeError{Path: fmt.Sprintf("[%d].type", i), Err: ErrEmpty})
		}
		if j, dup := seen[t.ID]; dup {
			errs = append(errs, &DecodeError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("duplicate id %d (also at [%d])", t.ID, j),
			})
			continue
		}
		seen[t.ID] = i
	}
	return errs
}

// pointerPath turns a JSON pointer such as "/0/name" into "[0].name".
func pointerPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.NewReplacer("~1", "/", "~0", "~").Replace(part)
		if part == "" {
			continue
		}
		if _, err := strconv.Atoi(part); err == nil {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
