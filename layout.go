package argtable

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"
)

// Per-vertex strides of the vertex buffers.
//
//	VertexBufferPosition          vec4<f32> = 16 bytes
//	VertexBufferTextureCoordinate vec2<f32> =  8 bytes
const (
	PositionStride          = 16
	TextureCoordinateStride = 8
)

// VertexBufferLayouts returns the vertex buffer layouts of the vertex
// stage, indexed by VertexBufferIndex. Every buffer carries a single
// attribute whose shader location equals the buffer slot.
func VertexBufferLayouts() []gputypes.VertexBufferLayout {
	layouts := make([]gputypes.VertexBufferLayout, len(Namespace(StageVertex, KindBuffer)))

	layouts[VertexBufferPosition] = gputypes.VertexBufferLayout{
		ArrayStride: PositionStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: uint32(VertexBufferPosition)},
		},
	}
	layouts[VertexBufferTextureCoordinate] = gputypes.VertexBufferLayout{
		ArrayStride: TextureCoordinateStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: uint32(VertexBufferTextureCoordinate)},
		},
	}

	return layouts
}

// TextureLayoutEntries returns the bind group layout entries of the
// TextureGroup bind group: one sampled 2D float texture per texture slot.
func TextureLayoutEntries() []gputypes.BindGroupLayoutEntry {
	entries := make([]gputypes.BindGroupLayoutEntry, 0, 1)
	for _, b := range Namespace(StageFragment, KindTexture) {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    b.Value,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		})
	}
	return entries
}

// SamplerLayoutEntries returns the bind group layout entries of the
// SamplerGroup bind group.
func SamplerLayoutEntries() []gputypes.BindGroupLayoutEntry {
	entries := make([]gputypes.BindGroupLayoutEntry, 0, 1)
	for _, b := range Namespace(StageFragment, KindSampler) {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    b.Value,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		})
	}
	return entries
}

// MSLResources maps the WGSL (group, binding) pairs of the fragment
// resources to Metal argument table slots for naga's MSL backend.
// The Metal slot equals the table value.
func MSLResources() msl.EntryPointResources {
	res := msl.EntryPointResources{
		Resources: make(map[ir.ResourceBinding]msl.BindTarget),
	}
	for _, b := range table {
		if b.Stage != StageFragment {
			continue
		}
		group, err := Group(b.Kind)
		if err != nil {
			continue
		}
		slot := uint8(b.Value)
		target := msl.BindTarget{}
		switch b.Kind {
		case KindTexture:
			target.Texture = &slot
		case KindSampler:
			target.Sampler = &msl.BindSamplerTarget{Slot: slot}
		}
		res.Resources[ir.ResourceBinding{Group: group, Binding: b.Value}] = target
	}
	return res
}
