package argtable

import (
	"cmp"
	"slices"
)

// VertexBufferIndex is a vertex stage buffer slot.
type VertexBufferIndex uint32

// FragmentTextureIndex is a fragment stage texture slot.
type FragmentTextureIndex uint32

// FragmentSamplerIndex is a fragment stage sampler slot.
type FragmentSamplerIndex uint32

// Vertex shader argument table: buffer indices.
const (
	// VertexBufferPosition holds clip-space positions (vec4<f32> per vertex).
	VertexBufferPosition VertexBufferIndex = 0

	// VertexBufferTextureCoordinate holds texture coordinates (vec2<f32> per vertex).
	VertexBufferTextureCoordinate VertexBufferIndex = 1
)

// Fragment shader argument table: texture indices.
const (
	// FragmentTexture is the sampled source image.
	FragmentTexture FragmentTextureIndex = 0
)

// Fragment shader argument table: sampler indices.
const (
	// FragmentSampler filters reads from FragmentTexture.
	FragmentSampler FragmentSamplerIndex = 0
)

// WGSL bind groups of the fragment resource namespaces. Each resource kind
// gets its own group so @binding(N) can equal the slot number.
const (
	TextureGroup uint32 = 0
	SamplerGroup uint32 = 1
)

// Stage is a shader stage owning a slot namespace.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Kind is the resource kind of a slot namespace.
type Kind uint8

const (
	KindBuffer Kind = iota
	KindTexture
	KindSampler
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBuffer:
		return "buffer"
	case KindTexture:
		return "texture"
	case KindSampler:
		return "sampler"
	default:
		return "unknown"
	}
}

// Binding describes one entry of the table.
type Binding struct {
	// Name is the symbolic name of the slot.
	Name string

	Stage Stage
	Kind  Kind

	// Value is the slot number within the (Stage, Kind) namespace.
	Value uint32

	// ShaderName is the identifier generated shaders use for the argument.
	ShaderName string
}

// table is the descriptive view of the constants above, in declaration order.
var table = [...]Binding{
	{Name: "Position", Stage: StageVertex, Kind: KindBuffer, Value: uint32(VertexBufferPosition), ShaderName: "position"},
	{Name: "TextureCoordinate", Stage: StageVertex, Kind: KindBuffer, Value: uint32(VertexBufferTextureCoordinate), ShaderName: "texcoord"},
	{Name: "Texture", Stage: StageFragment, Kind: KindTexture, Value: uint32(FragmentTexture), ShaderName: "source_texture"},
	{Name: "Sampler", Stage: StageFragment, Kind: KindSampler, Value: uint32(FragmentSampler), ShaderName: "source_sampler"},
}

// Bindings returns every entry of the table in declaration order.
// The returned slice is a copy.
func Bindings() []Binding {
	out := make([]Binding, len(table))
	copy(out, table[:])
	return out
}

// Lookup returns the entry with the given symbolic name.
func Lookup(name string) (Binding, bool) {
	for _, b := range table {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// Namespace returns the entries of one (stage, kind) namespace ordered by value.
func Namespace(stage Stage, kind Kind) []Binding {
	var out []Binding
	for _, b := range table {
		if b.Stage == stage && b.Kind == kind {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b Binding) int {
		return cmp.Compare(a.Value, b.Value)
	})
	return out
}

// Group returns the WGSL bind group holding fragment resources of kind.
func Group(kind Kind) (uint32, error) {
	switch kind {
	case KindTexture:
		return TextureGroup, nil
	case KindSampler:
		return SamplerGroup, nil
	default:
		return 0, ErrNoGroup
	}
}
