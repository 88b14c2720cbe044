// Package argtable defines the binding-index contract shared by host
// rendering code and the shader programs it drives.
//
// GPU argument tables are positional: the host says "bind this buffer to
// slot N" and the shader reads "the argument at slot N". Nothing at that
// boundary checks names, so a host and a shader that disagree on a slot
// silently read the wrong data. argtable keeps every slot number in one
// place:
//
//   - vertex stage buffers: [VertexBufferPosition], [VertexBufferTextureCoordinate]
//   - fragment stage textures: [FragmentTexture]
//   - fragment stage samplers: [FragmentSampler]
//
// Each namespace has its own Go type, so a texture index cannot be passed
// where a vertex buffer index is expected without an explicit conversion.
//
// The same table drives every artifact that needs the numbers:
//
//   - shader generates WGSL and a C/Metal header from it
//   - bindcheck reflects a WGSL module with naga and verifies it against it
//   - host binds resources through it on a wgpu HAL device
//   - [VertexBufferLayouts], [TextureLayoutEntries], [SamplerLayoutEntries]
//     and [MSLResources] describe it to gputypes and naga
//
// Logging is silent by default; see [SetLogger].
package argtable
