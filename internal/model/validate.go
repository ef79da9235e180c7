package model

import (
	"fmt"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateMap validates a generic document/payload map against the document
// JSON schema shipped in the templates directory. Bulk saves run through this
// gate before any transaction is opened.
func ValidateMap(templatesDir string, m map[string]interface{}) error {
	abs, err := filepath.Abs(filepath.Join(templatesDir, "document.schema.json"))
	if err != nil {
		return err
	}
	schemaLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs))
	docLoader := gojsonschema.NewGoLoader(m)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := ""
	for _, e := range res.Errors() {
		msgs += fmt.Sprintf("%s; ", e.String())
	}
	return fmt.Errorf("document validation failed: %s", msgs)
}
