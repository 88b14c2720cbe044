// Package host binds resources to the argtable slots on a wgpu HAL device.
//
// It is the host half of the binding contract: every vertex buffer slot
// and bind group index used here comes from the argtable constants, never
// from literals. The shader half is the WGSL generated by package shader.
package host

import (
	"errors"
	"fmt"

	"github.com/gogpu/argtable"
	"github.com/gogpu/argtable/shader"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Host errors.
var (
	// ErrNilDevice is returned when NewPrograms is called without a device.
	ErrNilDevice = errors.New("host: device is nil")

	// ErrNilQueue is returned when uploading without a queue.
	ErrNilQueue = errors.New("host: queue is nil")

	// ErrNilQuad is returned when Record is called without vertex buffers.
	ErrNilQuad = errors.New("host: quad buffers are nil")

	// ErrNilBindGroup is returned when Record is called without bind groups.
	ErrNilBindGroup = errors.New("host: bind group is nil")

	// ErrUnknownProgram is returned for a Program outside Through/TurnOver.
	ErrUnknownProgram = errors.New("host: unknown program")

	// ErrDestroyed is returned when using Programs after Destroy.
	ErrDestroyed = errors.New("host: programs destroyed")
)

// Program selects one of the render programs built from the shader module.
type Program uint8

const (
	// Through samples the source texture as-is.
	Through Program = iota

	// TurnOver samples the source texture mirrored vertically.
	TurnOver

	programCount
)

// String returns the program name.
func (p Program) String() string {
	switch p {
	case Through:
		return "through"
	case TurnOver:
		return "turnover"
	default:
		return "unknown"
	}
}

// fragmentEntry returns the fragment entry point of p.
func (p Program) fragmentEntry() string {
	if p == TurnOver {
		return shader.EntryFragmentTurnOver
	}
	return shader.EntryFragmentThrough
}

// Programs owns the GPU objects of the render programs: shader module,
// bind group layouts for the fragment texture and sampler groups, pipeline
// layout, a linear clamp sampler and one render pipeline per Program.
//
// Programs is not safe for concurrent use.
type Programs struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	shader        hal.ShaderModule
	textureLayout hal.BindGroupLayout
	samplerLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	sampler       hal.Sampler
	pipelines     [programCount]hal.RenderPipeline
}

// NewPrograms compiles the generated shader and creates the render
// programs for color targets of the given format. On failure every object
// created so far is released.
func NewPrograms(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) (*Programs, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	p := &Programs{device: device, queue: queue, format: format}
	if err := p.create(); err != nil {
		p.Destroy()
		return nil, err
	}
	argtable.Logger().Info("host: render programs created", "format", format)
	return p, nil
}

func (p *Programs) create() error {
	source, err := shader.WGSL()
	if err != nil {
		return fmt.Errorf("host: generate shader: %w", err)
	}

	mod, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "argtable_quad_shader",
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return fmt.Errorf("host: compile shader: %w", err)
	}
	p.shader = mod

	p.textureLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "argtable_texture_layout",
		Entries: argtable.TextureLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("host: create texture layout: %w", err)
	}

	p.samplerLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "argtable_sampler_layout",
		Entries: argtable.SamplerLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("host: create sampler layout: %w", err)
	}

	p.pipeLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "argtable_pipe_layout",
		BindGroupLayouts: groupLayouts(p.textureLayout, p.samplerLayout),
	})
	if err != nil {
		return fmt.Errorf("host: create pipeline layout: %w", err)
	}

	p.sampler, err = p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "argtable_linear_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("host: create sampler: %w", err)
	}

	for prog := Through; prog < programCount; prog++ {
		pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
			Label:  "argtable_" + prog.String(),
			Layout: p.pipeLayout,
			Vertex: hal.VertexState{
				Module:     p.shader,
				EntryPoint: shader.EntryVertexThrough,
				Buffers:    argtable.VertexBufferLayouts(),
			},
			Fragment: &hal.FragmentState{
				Module:     p.shader,
				EntryPoint: prog.fragmentEntry(),
				Targets: []gputypes.ColorTargetState{
					{
						Format:    p.format,
						WriteMask: gputypes.ColorWriteMaskAll,
					},
				},
			},
			Primitive: gputypes.PrimitiveState{
				Topology: gputypes.PrimitiveTopologyTriangleStrip,
				CullMode: gputypes.CullModeNone,
			},
			Multisample: gputypes.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
		})
		if err != nil {
			return fmt.Errorf("host: create %s pipeline: %w", prog, err)
		}
		p.pipelines[prog] = pipeline
	}

	return nil
}

// groupLayouts returns the pipeline layout slots, indexed by bind group number.
func groupLayouts(texture, sampler hal.BindGroupLayout) []hal.BindGroupLayout {
	layouts := make([]hal.BindGroupLayout, max(argtable.TextureGroup, argtable.SamplerGroup)+1)
	layouts[argtable.TextureGroup] = texture
	layouts[argtable.SamplerGroup] = sampler
	return layouts
}

// TextureLayout returns the layout of bind group argtable.TextureGroup.
// Callers create the texture bind group against it.
func (p *Programs) TextureLayout() hal.BindGroupLayout { return p.textureLayout }

// SamplerLayout returns the layout of bind group argtable.SamplerGroup.
func (p *Programs) SamplerLayout() hal.BindGroupLayout { return p.samplerLayout }

// Sampler returns the linear clamp sampler for the sampler bind group.
func (p *Programs) Sampler() hal.Sampler { return p.sampler }

// Pipeline returns the render pipeline of prog.
func (p *Programs) Pipeline(prog Program) (hal.RenderPipeline, error) {
	if prog >= programCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProgram, prog)
	}
	if p.pipelines[prog] == nil {
		return nil, ErrDestroyed
	}
	return p.pipelines[prog], nil
}

// Quad holds the vertex buffers of the full-screen quad.
type Quad struct {
	Positions hal.Buffer
	TexCoords hal.Buffer
}

// UploadQuad creates the quad vertex buffers and uploads QuadPositions
// and QuadTexCoords. Release them with DestroyQuad.
func (p *Programs) UploadQuad() (*Quad, error) {
	if p.device == nil {
		return nil, ErrNilDevice
	}
	if p.queue == nil {
		return nil, ErrNilQueue
	}
	if p.shader == nil {
		return nil, ErrDestroyed
	}
	pos, err := p.upload("argtable_quad_positions", float32Bytes(QuadPositions[:]))
	if err != nil {
		return nil, err
	}
	tex, err := p.upload("argtable_quad_texcoords", float32Bytes(QuadTexCoords[:]))
	if err != nil {
		p.device.DestroyBuffer(pos)
		return nil, err
	}
	return &Quad{Positions: pos, TexCoords: tex}, nil
}

func (p *Programs) upload(label string, data []byte) (hal.Buffer, error) {
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("host: create %s: %w", label, err)
	}
	p.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// DestroyQuad releases the buffers of q. Safe to call with nil.
func (p *Programs) DestroyQuad(q *Quad) {
	if q == nil || p.device == nil {
		return
	}
	if q.Positions != nil {
		p.device.DestroyBuffer(q.Positions)
		q.Positions = nil
	}
	if q.TexCoords != nil {
		p.device.DestroyBuffer(q.TexCoords)
		q.TexCoords = nil
	}
}

// Record records one full-screen draw of prog into rp. The quad buffers
// are bound at VertexBufferPosition and VertexBufferTextureCoordinate,
// the texture and sampler bind groups at TextureGroup and SamplerGroup.
func (p *Programs) Record(rp hal.RenderPassEncoder, prog Program, q *Quad, texture, sampler hal.BindGroup) error {
	pipeline, err := p.Pipeline(prog)
	if err != nil {
		return err
	}
	if q == nil || q.Positions == nil || q.TexCoords == nil {
		return ErrNilQuad
	}
	if texture == nil || sampler == nil {
		return ErrNilBindGroup
	}

	rp.SetPipeline(pipeline)
	rp.SetVertexBuffer(uint32(argtable.VertexBufferPosition), q.Positions, 0)
	rp.SetVertexBuffer(uint32(argtable.VertexBufferTextureCoordinate), q.TexCoords, 0)
	rp.SetBindGroup(argtable.TextureGroup, texture, nil)
	rp.SetBindGroup(argtable.SamplerGroup, sampler, nil)
	rp.Draw(QuadVertexCount, 1, 0, 0)
	return nil
}

// Destroy releases all GPU objects. Safe to call multiple times.
func (p *Programs) Destroy() {
	if p.device == nil {
		return
	}
	for i, pl := range p.pipelines {
		if pl != nil {
			p.device.DestroyRenderPipeline(pl)
			p.pipelines[i] = nil
		}
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.samplerLayout != nil {
		p.device.DestroyBindGroupLayout(p.samplerLayout)
		p.samplerLayout = nil
	}
	if p.textureLayout != nil {
		p.device.DestroyBindGroupLayout(p.textureLayout)
		p.textureLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
