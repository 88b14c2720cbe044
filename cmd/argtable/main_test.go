package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/argtable/bindcheck"
	"github.com/gogpu/argtable/shader"
)

const swappedSource = `
@vertex
fn vertexThrough(@location(1) position: vec4<f32>, @location(0) texcoord: vec2<f32>) -> @builtin(position) vec4<f32> {
    return position;
}
`

func TestEmitText(t *testing.T) {
	tests := []struct {
		kind string
		want []string
	}{
		{"table", []string{"NAME", "Position", "TextureCoordinate", "Texture", "Sampler", "source_texture"}},
		{"header", []string{shader.HeaderGuard, "kVertexBuffer_Position", "kFragmentTexture_Texture"}},
		{"wgsl", []string{shader.EntryVertexThrough, shader.EntryFragmentTurnOver, "@location(0) position"}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(context.Background(), []string{"-emit", tt.kind}, &stdout, &stderr); err != nil {
				t.Fatalf("run() error = %v", err)
			}
			for _, s := range tt.want {
				if !strings.Contains(stdout.String(), s) {
					t.Errorf("output missing %q:\n%s", s, stdout.String())
				}
			}
		})
	}
}

func TestEmitSPIRVToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.spv")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-emit", "spirv", "-o", path}, &stdout, &stderr)
	if err != nil {
		t.Skipf("SPIR-V backend unavailable: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 4 || len(data)%4 != 0 {
		t.Fatalf("SPIR-V length = %d, want non-empty multiple of 4", len(data))
	}
	if magic := binary.LittleEndian.Uint32(data); magic != 0x07230203 {
		t.Errorf("magic = %#x, want 0x07230203", magic)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty when -o is set, got %d bytes", stdout.Len())
	}
}

// failingCloser accepts writes and fails on Close.
type failingCloser struct {
	bytes.Buffer
}

var errClose = errors.New("close failed")

func (*failingCloser) Close() error { return errClose }

func TestEmitReportsCloseError(t *testing.T) {
	orig := createFile
	defer func() { createFile = orig }()
	fc := &failingCloser{}
	createFile = func(string) (io.WriteCloser, error) { return fc, nil }

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-emit", "table", "-o", "table.txt"}, &stdout, &stderr)
	if !errors.Is(err, errClose) {
		t.Errorf("run() error = %v, want close error", err)
	}
	if !strings.Contains(fc.String(), "Position") {
		t.Errorf("table not written before close: %q", fc.String())
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()

	generated, err := shader.WGSL()
	if err != nil {
		t.Fatal(err)
	}
	good := filepath.Join(dir, "good.wgsl")
	bad := filepath.Join(dir, "bad.wgsl")
	if err := os.WriteFile(good, []byte(generated), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte(swappedSource), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"-check", good}, &stdout, &stderr); err != nil {
		t.Errorf("check generated shader: error = %v", err)
	}
	if !strings.Contains(stdout.String(), "ok") {
		t.Errorf("stdout = %q, want ok", stdout.String())
	}

	stdout.Reset()
	err = run(context.Background(), []string{"-check", bad, "-v"}, &stdout, &stderr)
	if !errors.Is(err, bindcheck.ErrNameMismatch) {
		t.Errorf("check swapped shader: error = %v, want ErrNameMismatch", err)
	}
	if !strings.Contains(stdout.String(), "position") {
		t.Errorf("stdout should list the mismatch, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "binding mismatch") {
		t.Errorf("verbose stderr should log the mismatch, got %q", stderr.String())
	}
}

func TestCheckParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wgsl")
	if err := os.WriteFile(path, []byte("fn broken( {"), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-check", path}, &stdout, &stderr)
	if err == nil {
		t.Fatal("run() error = nil, want parse error")
	}
	if strings.Contains(err.Error(), "binding mismatches") {
		t.Errorf("parse error reported as mismatches: %v", err)
	}
	if !strings.HasPrefix(err.Error(), "bindcheck: ") {
		t.Errorf("error = %v, want the bindcheck error unwrapped", err)
	}
}

func TestChain(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")

	src := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	src.SetNRGBA(0, 0, color.NRGBA{A: 255})
	f, err := os.Create(in)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tests := []struct {
		name          string
		size          []string
		width, height int
	}{
		{"both", []string{"-width", "4", "-height", "3"}, 4, 3},
		{"width only", []string{"-width", "16"}, 16, 6},
		{"height only", []string{"-height", "12"}, 8, 12},
		{"keep", nil, 8, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			args := append([]string{"-in", in, "-out", out, "-sigma", "1"}, tt.size...)
			if err := run(context.Background(), args, &stdout, &stderr); err != nil {
				t.Fatalf("run() error = %v", err)
			}

			r, err := os.Open(out)
			if err != nil {
				t.Fatal(err)
			}
			defer r.Close()
			cfg, err := png.DecodeConfig(r)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Width != tt.width || cfg.Height != tt.height {
				t.Errorf("output size = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.width, tt.height)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no mode", nil},
		{"unknown emit", []string{"-emit", "hlsl"}},
		{"missing check file", []string{"-check", filepath.Join(t.TempDir(), "none.wgsl")}},
		{"missing input", []string{"-in", filepath.Join(t.TempDir(), "none.png")}},
		{"bad flag", []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(context.Background(), tt.args, &stdout, &stderr); err == nil {
				t.Error("run() error = nil, want error")
			}
		})
	}
}
