// Package bindcheck verifies that a WGSL module declares its arguments at
// the slots of the argtable binding index table.
//
// Host code and shaders meet at positional slots with no name-based check
// in between. bindcheck parses the shader with naga, reflects the vertex
// inputs and the bound resources of every entry point, and compares them
// with the table. Run it at build time (go test or the argtable command)
// so a drifting slot fails the build instead of rendering garbage.
package bindcheck

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gogpu/argtable"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// Declaration is one shader-side argument declaration.
type Declaration struct {
	// EntryPoint is the entry point declaring the argument. Empty for
	// module-scope resources, which every fragment entry point may use.
	EntryPoint string

	Stage argtable.Stage
	Kind  argtable.Kind

	// Group is the WGSL bind group. Zero for vertex inputs.
	Group uint32

	// Slot is the @location of a vertex input or the @binding of a resource.
	Slot uint32

	// Name is the identifier of the argument in the shader.
	Name string
}

func (d Declaration) String() string {
	where := d.EntryPoint
	if where == "" {
		where = "module"
	}
	if d.Stage == argtable.StageVertex {
		return fmt.Sprintf("%s: %s %s @location(%d) %s", where, d.Stage, d.Kind, d.Slot, d.Name)
	}
	return fmt.Sprintf("%s: %s %s @group(%d) @binding(%d) %s", where, d.Stage, d.Kind, d.Group, d.Slot, d.Name)
}

// Reflection is the set of declarations found in a WGSL module.
type Reflection struct {
	// EntryPoints lists the entry point names in module order.
	EntryPoints []string

	// Declarations are ordered by stage, kind, then slot.
	Declarations []Declaration
}

// Reflect parses and lowers source with naga and collects its argument
// declarations. The module is not validated; shader.MSL and shader.SPIRV
// do that when compiling.
//
// Vertex inputs are the @location arguments of vertex entry points,
// including @location members of struct arguments; the vertex buffer slot
// of an input equals its location. Resources are module-scope variables
// with @group/@binding and are attributed to the fragment stage.
func Reflect(source string) (*Reflection, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("bindcheck: parse: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("bindcheck: lower: %w", err)
	}
	return reflectModule(module)
}

func reflectModule(module *ir.Module) (*Reflection, error) {
	r := &Reflection{}

	for _, ep := range module.EntryPoints {
		r.EntryPoints = append(r.EntryPoints, ep.Name)
		if ep.Stage != ir.StageVertex {
			continue
		}
		if int(ep.Function) >= len(module.Functions) {
			return nil, fmt.Errorf("%w: entry point %s references function %d",
				ErrInvalidModule, ep.Name, ep.Function)
		}
		fn := &module.Functions[ep.Function]
		for _, arg := range fn.Arguments {
			decls, err := vertexInputs(module, ep.Name, arg)
			if err != nil {
				return nil, err
			}
			r.Declarations = append(r.Declarations, decls...)
		}
	}

	for _, gv := range module.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		if int(gv.Type) >= len(module.Types) {
			return nil, fmt.Errorf("%w: global %s has type %d", ErrInvalidModule, gv.Name, gv.Type)
		}
		d := Declaration{
			Stage: argtable.StageFragment,
			Kind:  argtable.KindBuffer,
			Group: gv.Binding.Group,
			Slot:  gv.Binding.Binding,
			Name:  gv.Name,
		}
		switch module.Types[gv.Type].Inner.(type) {
		case ir.ImageType:
			d.Kind = argtable.KindTexture
		case ir.SamplerType:
			d.Kind = argtable.KindSampler
		}
		r.Declarations = append(r.Declarations, d)
	}

	slices.SortStableFunc(r.Declarations, func(a, b Declaration) int {
		return cmp.Or(
			cmp.Compare(a.Stage, b.Stage),
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.Group, b.Group),
			cmp.Compare(a.Slot, b.Slot),
			cmp.Compare(a.EntryPoint, b.EntryPoint),
		)
	})

	return r, nil
}

// vertexInputs returns the @location inputs carried by one vertex entry
// point argument.
func vertexInputs(module *ir.Module, entry string, arg ir.FunctionArgument) ([]Declaration, error) {
	input := func(loc uint32, name string) Declaration {
		return Declaration{
			EntryPoint: entry,
			Stage:      argtable.StageVertex,
			Kind:       argtable.KindBuffer,
			Slot:       loc,
			Name:       name,
		}
	}

	if arg.Binding != nil {
		if loc, ok := (*arg.Binding).(ir.LocationBinding); ok {
			return []Declaration{input(loc.Location, arg.Name)}, nil
		}
		// builtin
		return nil, nil
	}

	if int(arg.Type) >= len(module.Types) {
		return nil, fmt.Errorf("%w: argument %s of %s has type %d", ErrInvalidModule, arg.Name, entry, arg.Type)
	}
	st, ok := module.Types[arg.Type].Inner.(ir.StructType)
	if !ok {
		return nil, nil
	}

	var decls []Declaration
	for _, m := range st.Members {
		if m.Binding == nil {
			continue
		}
		if loc, ok := (*m.Binding).(ir.LocationBinding); ok {
			decls = append(decls, input(loc.Location, m.Name))
		}
	}
	return decls, nil
}
