// Package main provides the grayscott-cli command line interface for
// reaction-diffusion image encryption.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"
	"time"

	grayscott "github.com/graycipher/gray-scott-go"
	"github.com/graycipher/gray-scott-go/engine"
)

const appName = "grayscott-cli"

// cliOptions holds the parsed command line options shared by the commands.
type cliOptions struct {
	Key        string
	InputFile  string
	OutputFile string
	Grayscale  bool
	Timing     bool

	// Simulation overrides; nil means derive from the key.
	TimeStep  *float64
	PadWidth  *int
	FeedRate  *float64
	KillRate  *float64
	DiffU     *float64
	TotalTime *float64
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "help", "--help", "-h":
		printUsage()
	case "version", "--version", "-v":
		fmt.Printf("%s version %s\n", appName, grayscott.Version)
	case "encrypt":
		runEncrypt(os.Args[2:])
	case "decrypt":
		runDecrypt(os.Args[2:])
	case "params":
		runParams(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - Gray-Scott reaction-diffusion image cipher

USAGE:
    %s <COMMAND> [OPTIONS]

COMMANDS:
    encrypt     Encrypt a PNG image into a ciphertext container
    decrypt     Decrypt a ciphertext container back into a PNG image
    params      Show the simulation parameters derived from a key
    version     Show version information
    help        Show this help message

OPTIONS:
    --key <string>       Secret key (at least %d characters, required)
    --input <file>       Input file (PNG for encrypt, container for decrypt)
    --output <file>      Output file
    --gray               Treat the input image as grayscale
    --timing             Print pass timings
    --dt <float>         Override the simulation time step
    --pad <int>          Override the reflective padding width
    --feed <float>       Override the feed rate f
    --kill <float>       Override the kill rate k
    --diffu <float>      Override the activator diffusion rate ru
    --total-time <float> Override the simulated duration T

The same key and the same overrides used for encryption must be supplied
again for decryption; the padding width travels inside the container.

EXAMPLES:
    # Encrypt an image
    %s encrypt --key "my secret key" --input photo.png --output photo.gsc

    # Decrypt it back
    %s decrypt --key "my secret key" --input photo.gsc --output restored.png

    # Inspect the parameters a key derives
    %s params --key "my secret key"
`, appName, appName, grayscott.MinKeyLength, appName, appName, appName)
}

func parseOptions(args []string) (*cliOptions, error) {
	opts := &cliOptions{}

	next := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		return args[i+1], nil
	}

	for i := 0; i < len(args); i++ {
		flag := args[i]
		switch flag {
		case "--key":
			v, err := next(i, flag)
			if err != nil {
				return nil, err
			}
			opts.Key = v
			i++
		case "--input":
			v, err := next(i, flag)
			if err != nil {
				return nil, err
			}
			opts.InputFile = v
			i++
		case "--output":
			v, err := next(i, flag)
			if err != nil {
				return nil, err
			}
			opts.OutputFile = v
			i++
		case "--gray":
			opts.Grayscale = true
		case "--timing":
			opts.Timing = true
		case "--dt", "--feed", "--kill", "--diffu", "--total-time":
			v, err := next(i, flag)
			if err != nil {
				return nil, err
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid number %q", flag, v)
			}
			switch flag {
			case "--dt":
				opts.TimeStep = &f
			case "--feed":
				opts.FeedRate = &f
			case "--kill":
				opts.KillRate = &f
			case "--diffu":
				opts.DiffU = &f
			case "--total-time":
				opts.TotalTime = &f
			}
			i++
		case "--pad":
			v, err := next(i, flag)
			if err != nil {
				return nil, err
			}
			p, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("--pad: invalid integer %q", v)
			}
			opts.PadWidth = &p
			i++
		default:
			return nil, fmt.Errorf("unknown option: %s", flag)
		}
	}
	return opts, nil
}

func (o *cliOptions) config() grayscott.Config {
	return grayscott.Config{
		TimeStep:  o.TimeStep,
		PadWidth:  o.PadWidth,
		FeedRate:  o.FeedRate,
		KillRate:  o.KillRate,
		DiffU:     o.DiffU,
		TotalTime: o.TotalTime,
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func runEncrypt(args []string) {
	opts, err := parseOptions(args)
	if err != nil {
		fatal("%v", err)
	}
	if opts.Key == "" || opts.InputFile == "" || opts.OutputFile == "" {
		fatal("encrypt requires --key, --input and --output")
	}

	shape, pixels, err := loadPNG(opts.InputFile, opts.Grayscale)
	if err != nil {
		fatal("loading %s: %v", opts.InputFile, err)
	}

	e, err := engine.New(opts.Key, shape, opts.config())
	if err != nil {
		fatal("%v", err)
	}

	start := time.Now()
	ct, err := e.Encrypt(pixels)
	if err != nil {
		fatal("encryption failed: %v", err)
	}
	if opts.Timing {
		fmt.Printf("Forward pass: %v\n", time.Since(start))
	}

	if err := os.WriteFile(opts.OutputFile, engine.Serialize(ct), 0o600); err != nil {
		fatal("writing %s: %v", opts.OutputFile, err)
	}

	warnDiagnostics(e.Diagnostics())
	fmt.Printf("Encrypted %dx%d (%d channel) image to %s\n", shape.H, shape.W, shape.Channels, opts.OutputFile)
}

func runDecrypt(args []string) {
	opts, err := parseOptions(args)
	if err != nil {
		fatal("%v", err)
	}
	if opts.Key == "" || opts.InputFile == "" || opts.OutputFile == "" {
		fatal("decrypt requires --key, --input and --output")
	}

	data, err := os.ReadFile(opts.InputFile)
	if err != nil {
		fatal("reading %s: %v", opts.InputFile, err)
	}
	ct, err := engine.Deserialize(data)
	if err != nil {
		fatal("parsing %s: %v", opts.InputFile, err)
	}

	// The padding width travels with the ciphertext; any explicit --pad
	// must agree with it.
	if opts.PadWidth != nil && *opts.PadWidth != ct.Pad {
		fatal("--pad %d disagrees with the container's padding width %d", *opts.PadWidth, ct.Pad)
	}
	opts.PadWidth = &ct.Pad

	e, err := engine.New(opts.Key, ct.Shape, opts.config())
	if err != nil {
		fatal("%v", err)
	}

	start := time.Now()
	pixels, err := e.Decrypt(ct)
	if err != nil {
		fatal("decryption failed: %v", err)
	}
	if opts.Timing {
		fmt.Printf("Backward pass: %v\n", time.Since(start))
	}

	if err := savePNG(opts.OutputFile, ct.Shape, pixels); err != nil {
		fatal("writing %s: %v", opts.OutputFile, err)
	}
	warnDiagnostics(e.Diagnostics())
	fmt.Printf("Decrypted %s to %dx%d (%d channel) image %s\n",
		opts.InputFile, ct.Shape.H, ct.Shape.W, ct.Shape.Channels, opts.OutputFile)
}

// warnDiagnostics reports the lossy numeric events of a pass on stderr. Both
// kinds destroy state the inverse pass needs, so either one means the
// ciphertext (or the recovered image) may not be faithful.
func warnDiagnostics(d grayscott.Diagnostics) {
	if d.NonConvergedHalfSteps > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d of %d reaction half-steps did not converge (max update %.2e); round-trip fidelity may degrade\n",
			d.NonConvergedHalfSteps, d.HalfSteps, d.MaxFinalUpdate)
	}
	if d.ClampedCells > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d cell values were clamped to the admissible range; round-trip fidelity may degrade\n",
			d.ClampedCells)
	}
}

func runParams(args []string) {
	opts, err := parseOptions(args)
	if err != nil {
		fatal("%v", err)
	}
	if opts.Key == "" {
		fatal("params requires --key")
	}

	// A minimal valid shape; parameters do not depend on it.
	e, err := engine.New(opts.Key, grayscott.Shape{H: 16, W: 16, Channels: 1}, opts.config())
	if err != nil {
		fatal("%v", err)
	}

	p := e.Parameters()
	fmt.Printf("feed rate (f):      %.6f\n", p.FeedRate)
	fmt.Printf("kill rate (k):      %.6f\n", p.KillRate)
	fmt.Printf("diffusion u (ru):   %.6f\n", p.DiffU)
	fmt.Printf("diffusion v (rv):   %.6f\n", p.DiffV)
	fmt.Printf("total time (T):     %.2f\n", p.TotalTime)
	fmt.Printf("time step (dt):     %.4f\n", p.TimeStep)
	fmt.Printf("step count:         %d\n", p.StepCount)
	fmt.Printf("padding width:      %d\n", e.PadWidth())
}

// loadPNG reads a PNG file into a normalized planar pixel array.
func loadPNG(path string, forceGray bool) (grayscott.Shape, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return grayscott.Shape{}, nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return grayscott.Shape{}, nil, err
	}

	bounds := img.Bounds()
	h, w := bounds.Dy(), bounds.Dx()

	gray := forceGray || isGrayscale(img)
	channels := 3
	if gray {
		channels = 1
	}
	shape := grayscott.Shape{H: h, W: w, Channels: channels}

	pixels := make([]float64, shape.Len())
	plane := h * w
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if gray {
				// Rec. 601 luma on the 16-bit channel values.
				pixels[y*w+x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 65535
			} else {
				pixels[y*w+x] = float64(r) / 65535
				pixels[plane+y*w+x] = float64(g) / 65535
				pixels[2*plane+y*w+x] = float64(b) / 65535
			}
		}
	}
	return shape, pixels, nil
}

func isGrayscale(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}
	return false
}

// savePNG writes a normalized planar pixel array as an 8-bit PNG.
func savePNG(path string, shape grayscott.Shape, pixels []float64) error {
	h, w := shape.H, shape.W
	plane := h * w

	var img image.Image
	if shape.Grayscale() {
		out := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.SetGray(x, y, color.Gray{Y: toByte(pixels[y*w+x])})
			}
		}
		img = out
	} else {
		out := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.SetRGBA(x, y, color.RGBA{
					R: toByte(pixels[y*w+x]),
					G: toByte(pixels[plane+y*w+x]),
					B: toByte(pixels[2*plane+y*w+x]),
					A: 255,
				})
			}
		}
		img = out
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toByte(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}
