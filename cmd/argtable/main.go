// Command argtable emits shader artifacts generated from the binding table,
// checks WGSL sources against it, and runs the CPU reference filter chain.
//
// Usage:
//
//	argtable -emit wgsl|msl|spirv|header|table [-o file]
//	argtable -check shader.wgsl
//	argtable -in in.png -out out.png [-threshold 0.2] [-sigma 10] [-width 0] [-height 0]
package main

import (
	"context"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/disintegration/imaging"

	"github.com/gogpu/argtable"
	"github.com/gogpu/argtable/bindcheck"
	"github.com/gogpu/argtable/internal/chain"
	"github.com/gogpu/argtable/shader"
)

var errUsage = errors.New("one of -emit, -check or -in is required")

// createFile opens the -o destination.
var createFile = func(name string) (io.WriteCloser, error) { return os.Create(name) }

type options struct {
	emit    string
	output  string
	check   string
	in      string
	out     string
	thresh  float64
	sigma   float64
	width   int
	height  int
	verbose bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("argtable: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("argtable", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.emit, "emit", "", "artifact to emit: wgsl, msl, spirv, header or table")
	fs.StringVar(&o.output, "o", "", "output file for -emit (default stdout)")
	fs.StringVar(&o.check, "check", "", "WGSL file to check against the binding table")
	fs.StringVar(&o.in, "in", "", "input PNG for the reference chain")
	fs.StringVar(&o.out, "out", "out.png", "output PNG for the reference chain")
	fs.Float64Var(&o.thresh, "threshold", chain.DefaultThreshold, "binary threshold cutoff")
	fs.Float64Var(&o.sigma, "sigma", chain.DefaultSigma, "blur sigma in pixels")
	fs.IntVar(&o.width, "width", 0, "output width (0 keeps the input width)")
	fs.IntVar(&o.height, "height", 0, "output height (0 keeps the input height)")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if o.verbose {
		argtable.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer argtable.SetLogger(nil)
	}

	switch {
	case o.emit != "":
		return emit(o.emit, o.output, stdout)
	case o.check != "":
		return checkFile(o.check, stdout)
	case o.in != "":
		return runChain(ctx, o)
	default:
		return errUsage
	}
}

func emit(kind, output string, stdout io.Writer) (err error) {
	w := stdout
	if output != "" {
		f, ferr := createFile(output)
		if ferr != nil {
			return ferr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}
	return writeArtifact(kind, w)
}

func writeArtifact(kind string, w io.Writer) error {
	switch kind {
	case "wgsl":
		src, err := shader.WGSL()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, src)
		return err
	case "msl":
		src, err := shader.MSL()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, src)
		return err
	case "spirv":
		words, err := shader.SPIRV()
		if err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, words)
	case "header":
		src, err := shader.Header()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, src)
		return err
	case "table":
		return writeTable(w)
	default:
		return fmt.Errorf("unknown -emit value %q", kind)
	}
}

func writeTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTAGE\tKIND\tVALUE\tSHADER NAME")
	for _, b := range argtable.Bindings() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", b.Name, b.Stage, b.Kind, b.Value, b.ShaderName)
	}
	return tw.Flush()
}

func checkFile(path string, stdout io.Writer) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	err = bindcheck.CheckSource(string(src))
	mismatches := bindcheck.Mismatches(err)
	for _, m := range mismatches {
		argtable.Logger().Warn("binding mismatch", "file", path, "declaration", m.Declaration.String(), "err", m.Err)
		fmt.Fprintln(stdout, m)
	}
	if err != nil {
		if len(mismatches) == 0 {
			return err
		}
		return fmt.Errorf("%s: %d binding mismatches: %w", path, len(mismatches), err)
	}
	fmt.Fprintf(stdout, "%s: ok\n", path)
	return nil
}

func runChain(ctx context.Context, o options) error {
	src, err := imaging.Open(o.in)
	if err != nil {
		return fmt.Errorf("decode %s: %w", o.in, err)
	}

	img, err := chain.Run(ctx, src,
		chain.WithThreshold(float32(o.thresh)),
		chain.WithSigma(o.sigma),
		chain.WithSize(o.width, o.height),
	)
	if err != nil {
		return err
	}

	if err := imaging.Save(img, o.out); err != nil {
		return err
	}
	log.Printf("saved %s (%dx%d)", o.out, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}
