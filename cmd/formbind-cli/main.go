// Command formbind-cli binds a url-encoded form payload against a schema
// document and prints the result as JSON. Useful for inspecting how a
// submission decodes, coerces, and fails validation without wiring a handler.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/formdata"
	"github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/schema"
)

type report struct {
	Valid       bool              `json:"valid"`
	Model       map[string]any    `json:"model,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	FormErrors  []string          `json:"form_errors,omitempty"`
}

func main() {
	schemaPath := flag.String("schema", "", "schema document path (JSON or YAML)")
	operation := flag.String("operation", "", "OpenAPI operation ID; when set, -schema is read as an OpenAPI 3 document")
	data := flag.String("data", "", "url-encoded payload to bind ('-' reads stdin)")
	prefix := flag.String("prefix", "", "submission key prefix")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	descriptor, err := loadSchema(ctx, *schemaPath, *operation)
	if err != nil {
		log.Fatalf("load schema: %v", err)
	}

	payload, err := readPayload(*data)
	if err != nil {
		log.Fatalf("read payload: %v", err)
	}
	values, err := formdata.ParseQuery(payload)
	if err != nil {
		log.Fatalf("parse payload: %v", err)
	}

	var opts []form.Option
	if *prefix != "" {
		opts = append(opts, form.WithPrefix(*prefix))
	}

	result, err := form.New(descriptor, opts...).Bind(ctx, values)
	if err != nil {
		log.Fatalf("bind: %v", err)
	}

	out, err := json.MarshalIndent(report{
		Valid:       result.Valid,
		Model:       result.Model,
		FieldErrors: result.FieldErrors(),
		FormErrors:  result.FormErrors,
	}, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, append(out, '\n'), 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("Result written to %s\n", *output)
		return
	}
	fmt.Println(string(out))
}

func loadSchema(ctx context.Context, path, operation string) (schema.Schema, error) {
	if path == "" {
		return schema.Schema{}, fmt.Errorf("a -schema document is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return schema.Schema{}, err
	}
	if operation != "" {
		return openapi.New(openapi.Options{}).SchemaForOperation(ctx, raw, operation)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return schema.ParseJSON(raw)
	}
	return schema.ParseYAML(raw)
}

func readPayload(data string) (string, error) {
	if data != "-" {
		return data, nil
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
