// Package shader generates shader sources from the argtable binding index
// table and compiles them with naga.
//
// The WGSL module holds three entry points sharing one vertex layout:
//
//	vertexThrough     passes position and texture coordinate through
//	fragmentThrough   samples the source texture as-is
//	fragmentTurnOver  samples the source texture mirrored vertically
//
// Every @location, @group and @binding in the generated source comes from
// the table, so shader and host cannot drift apart.
package shader

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"unicode"

	"github.com/gogpu/argtable"
)

// Entry point names of the generated WGSL module.
const (
	EntryVertexThrough    = "vertexThrough"
	EntryFragmentThrough  = "fragmentThrough"
	EntryFragmentTurnOver = "fragmentTurnOver"
)

// HeaderGuard is the include guard of the generated C/Metal header.
const HeaderGuard = "ARGTABLE_H"

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	// ErrEmptyTemplate is returned when an embedded template is empty.
	ErrEmptyTemplate = errors.New("shader: template source is empty")

	// ErrMissingBinding is returned when the table lacks an entry the
	// WGSL template references.
	ErrMissingBinding = errors.New("shader: binding missing from table")
)

var (
	templatesOnce sync.Once
	templates     *template.Template
	templatesErr  error
)

// loadTemplates parses the embedded templates once.
func loadTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		for _, name := range []string{"templates/quad.wgsl.tmpl", "templates/argtable.h.tmpl"} {
			data, err := templateFS.ReadFile(name)
			if err != nil {
				templatesErr = fmt.Errorf("shader: read %s: %w", name, err)
				return
			}
			if len(bytes.TrimSpace(data)) == 0 {
				templatesErr = fmt.Errorf("%w: %s", ErrEmptyTemplate, name)
				return
			}
		}
		templates, templatesErr = template.ParseFS(templateFS, "templates/*.tmpl")
	})
	return templates, templatesErr
}

// wgslData is the template input of quad.wgsl.tmpl.
type wgslData struct {
	Position          argtable.Binding
	TextureCoordinate argtable.Binding
	Texture           argtable.Binding
	Sampler           argtable.Binding
	TextureGroup      uint32
	SamplerGroup      uint32
}

func newWGSLData() (wgslData, error) {
	d := wgslData{
		TextureGroup: argtable.TextureGroup,
		SamplerGroup: argtable.SamplerGroup,
	}
	for _, f := range []struct {
		name string
		dst  *argtable.Binding
	}{
		{"Position", &d.Position},
		{"TextureCoordinate", &d.TextureCoordinate},
		{"Texture", &d.Texture},
		{"Sampler", &d.Sampler},
	} {
		b, ok := argtable.Lookup(f.name)
		if !ok {
			return wgslData{}, fmt.Errorf("%w: %s", ErrMissingBinding, f.name)
		}
		*f.dst = b
	}
	return d, nil
}

// WGSL renders the WGSL module from the binding table.
func WGSL() (string, error) {
	t, err := loadTemplates()
	if err != nil {
		return "", err
	}
	data, err := newWGSLData()
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := t.ExecuteTemplate(&buf, "quad.wgsl.tmpl", data); err != nil {
		return "", fmt.Errorf("shader: render wgsl: %w", err)
	}

	argtable.Logger().Debug("shader: rendered wgsl", "bytes", buf.Len())
	return buf.String(), nil
}

// headerEntry is one enumerator of the generated header.
type headerEntry struct {
	Symbol string
	Value  uint32
}

// headerSection groups the enumerators of one namespace.
type headerSection struct {
	Title   string
	Entries []headerEntry
}

type headerData struct {
	Guard    string
	Sections []headerSection
}

// HeaderSymbol returns the C enumerator name of b, for example
// kVertexBuffer_Position or kFragmentTexture_Texture.
func HeaderSymbol(b argtable.Binding) string {
	return "k" + title(b.Stage.String()) + title(b.Kind.String()) + "_" + b.Name
}

func title(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Header renders a C header declaring every table entry as an enumerator,
// for Metal shader sources and host code compiled outside Go.
func Header() (string, error) {
	t, err := loadTemplates()
	if err != nil {
		return "", err
	}

	data := headerData{Guard: HeaderGuard}
	for _, ns := range []struct {
		stage argtable.Stage
		kind  argtable.Kind
	}{
		{argtable.StageVertex, argtable.KindBuffer},
		{argtable.StageFragment, argtable.KindTexture},
		{argtable.StageFragment, argtable.KindSampler},
	} {
		bs := argtable.Namespace(ns.stage, ns.kind)
		if len(bs) == 0 {
			continue
		}
		sec := headerSection{
			Title: fmt.Sprintf("%s shader argument table: %s index", title(ns.stage.String()), ns.kind),
		}
		for _, b := range bs {
			sec.Entries = append(sec.Entries, headerEntry{Symbol: HeaderSymbol(b), Value: b.Value})
		}
		data.Sections = append(data.Sections, sec)
	}

	var buf strings.Builder
	if err := t.ExecuteTemplate(&buf, "argtable.h.tmpl", data); err != nil {
		return "", fmt.Errorf("shader: render header: %w", err)
	}
	return buf.String(), nil
}
