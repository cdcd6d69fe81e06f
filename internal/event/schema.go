package event

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed event.schema.json
var schemaData []byte

const schemaName = "event.schema.json"

// Schema definitions, one per wire shape.
const (
	defSuiteStarted  = "suiteStarted"
	defSuiteFinished = "suiteFinished"
	defTestLifecycle = "testLifecycle"
	defTestFailed    = "testFailed"
)

var (
	schemas     map[string]*jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
)

// compileSchemas compiles the embedded event schema once.
func compileSchemas() error {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal event schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaName, doc); err != nil {
			compileErr = fmt.Errorf("add event schema resource: %w", err)
			return
		}

		compiled := make(map[string]*jsonschema.Schema, 4)
		for _, def := range []string{defSuiteStarted, defSuiteFinished, defTestLifecycle, defTestFailed} {
			sch, err := compiler.Compile(schemaName + "#/$defs/" + def)
			if err != nil {
				compileErr = fmt.Errorf("compile event schema %s: %w", def, err)
				return
			}
			compiled[def] = sch
		}
		schemas = compiled
	})

	return compileErr
}

// validate checks a parsed record against one schema definition.
func validate(def string, doc any) error {
	if err := compileSchemas(); err != nil {
		return err
	}
	if err := schemas[def].Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}
