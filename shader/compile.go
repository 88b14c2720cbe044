package shader

import (
	"fmt"

	"github.com/gogpu/argtable"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"
)

// Option configures shader compilation.
type Option func(*compileOptions)

// compileOptions holds the compilation settings.
type compileOptions struct {
	mslVersion   msl.Version
	spirvVersion spirv.Version
	debug        bool
	validate     bool
}

// defaultCompileOptions returns MSL 2.1, SPIR-V 1.3, validation on.
func defaultCompileOptions() compileOptions {
	return compileOptions{
		mslVersion:   msl.Version2_1,
		spirvVersion: spirv.Version1_3,
		validate:     true,
	}
}

// WithMSLVersion sets the target Metal Shading Language version.
func WithMSLVersion(v msl.Version) Option {
	return func(o *compileOptions) {
		o.mslVersion = v
	}
}

// WithSPIRVVersion sets the target SPIR-V version.
func WithSPIRVVersion(v spirv.Version) Option {
	return func(o *compileOptions) {
		o.spirvVersion = v
	}
}

// WithDebug emits debug names into SPIR-V output.
func WithDebug(debug bool) Option {
	return func(o *compileOptions) {
		o.debug = debug
	}
}

// WithValidation toggles naga IR validation before code generation.
func WithValidation(validate bool) Option {
	return func(o *compileOptions) {
		o.validate = validate
	}
}

func applyOptions(opts []Option) compileOptions {
	o := defaultCompileOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// SPIRV compiles the generated WGSL module to SPIR-V words.
func SPIRV(opts ...Option) ([]uint32, error) {
	o := applyOptions(opts)

	source, err := WGSL()
	if err != nil {
		return nil, err
	}

	spirvBytes, err := naga.CompileWithOptions(source, naga.CompileOptions{
		SPIRVVersion: o.spirvVersion,
		Debug:        o.debug,
		Validate:     o.validate,
	})
	if err != nil {
		return nil, fmt.Errorf("shader: compile spir-v: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	argtable.Logger().Debug("shader: compiled spir-v", "words", len(words))
	return words, nil
}

// MSL compiles the generated WGSL module to Metal Shading Language. The
// texture and sampler arguments land on the Metal slots of the table.
func MSL(opts ...Option) (string, error) {
	o := applyOptions(opts)

	source, err := WGSL()
	if err != nil {
		return "", err
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return "", fmt.Errorf("shader: parse wgsl: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return "", fmt.Errorf("shader: lower wgsl: %w", err)
	}
	if o.validate {
		verrs, err := naga.Validate(module)
		if err != nil {
			return "", fmt.Errorf("shader: validate: %w", err)
		}
		if len(verrs) > 0 {
			return "", fmt.Errorf("shader: validation failed: %w", &verrs[0])
		}
	}

	mslOpts := msl.DefaultOptions()
	mslOpts.LangVersion = o.mslVersion
	mslOpts.PerEntryPointMap = make(map[string]msl.EntryPointResources, len(module.EntryPoints))
	for _, ep := range module.EntryPoints {
		mslOpts.PerEntryPointMap[ep.Name] = argtable.MSLResources()
	}

	code, _, err := msl.Compile(module, mslOpts)
	if err != nil {
		return "", fmt.Errorf("shader: compile msl: %w", err)
	}

	argtable.Logger().Debug("shader: compiled msl", "bytes", len(code), "version", o.mslVersion.String())
	return code, nil
}
