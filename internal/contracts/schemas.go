// Package contracts хранит JSON-схемы исходящих сообщений сервиса и проверяет тела сообщений по ним.
package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed schemas/events
var schemasFS embed.FS

const schemasRoot = "schemas/events"

var compiledSchemas = mustCompileSchemas()

// mustCompileSchemas компилирует все встроенные схемы. Схемы вшиты в бинарник,
// поэтому ошибка здесь - ошибка сборки, а не окружения.
func mustCompileSchemas() map[string]*jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	err := fs.WalkDir(schemasFS, schemasRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := schemasFS.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		// ресурс регистрируется под путем относительно корня, как в $id схемы
		id := strings.TrimPrefix(path, "schemas/")
		if err := compiler.AddResource(id, file); err != nil {
			return fmt.Errorf("add schema resource %s: %w", path, err)
		}
		paths = append(paths, id)
		return nil
	})
	if err != nil {
		panic(fmt.Sprintf("contracts: %v", err))
	}

	out := make(map[string]*jsonschema.Schema, len(paths))
	for _, id := range paths {
		schema, err := compiler.Compile(id)
		if err != nil {
			panic(fmt.Sprintf("contracts: compile %s: %v", id, err))
		}
		out[keyFromPath(id)] = schema
	}
	return out
}

// keyFromPath: "events/run-report/v1.json" -> "RunReportEvent/1.0.0".
func keyFromPath(path string) string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "events/"), ".json")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 {
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString("Event")

	return fmt.Sprintf("%s/%s.0.0", name.String(), strings.TrimPrefix(parts[1], "v"))
}

// ValidateEvent проверяет тело сообщения по схеме события нужной версии.
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	key := eventType + "/" + eventVersion
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
