package infrastructure

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyenthenguyen/docx"
)

// DocxExporter produces the Word export by injecting WordprocessingML body
// content (serialized from the presentation tree) into a skeleton .docx in
// the templates directory. The skeleton's body holds a single {{body}}
// placeholder paragraph; it is materialized on first use if absent.
type DocxExporter struct {
	templatePath string
}

func NewDocxExporter(templatesDir string) *DocxExporter {
	return &DocxExporter{templatePath: filepath.Join(templatesDir, "export.docx")}
}

// Export replaces the placeholder with the rendered body and returns the
// bytes of the finished document.
func (e *DocxExporter) Export(bodyXML string) ([]byte, error) {
	if err := e.ensureTemplate(); err != nil {
		return nil, err
	}

	r, err := docx.ReadDocxFile(e.templatePath)
	if err != nil {
		return nil, fmt.Errorf("open docx template: %w", err)
	}
	defer r.Close()

	doc := r.Editable()
	doc.ReplaceRaw(placeholderParagraph, bodyXML, -1)

	tmp, err := os.CreateTemp("", "resume-*.docx")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := doc.WriteToFile(tmpPath); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return os.ReadFile(tmpPath)
}

const placeholderParagraph = `<w:p><w:r><w:t>{{body}}</w:t></w:r></w:p>`

const skeletonContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const skeletonRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const skeletonDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + placeholderParagraph + `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr></w:body></w:document>`

// ensureTemplate writes the minimal skeleton container when the templates
// directory does not already ship one, so deployments can still drop in a
// branded template by placing their own export.docx.
func (e *DocxExporter) ensureTemplate() error {
	if _, err := os.Stat(e.templatePath); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(e.templatePath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(e.templatePath)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	parts := []struct{ name, body string }{
		{"[Content_Types].xml", skeletonContentTypes},
		{"_rels/.rels", skeletonRels},
		{"word/document.xml", skeletonDocument},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return err
		}
	}
	return zw.Close()
}
