// Package build compiles the shell's client for the browser.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/3-lines-studio/mfeshell/internal/adapters/fs"
	"go.uber.org/zap"
)

const (
	WasmFile       = "shell.wasm"
	WasmExecFile   = "wasm_exec.js"
	DefaultPackage = "./cmd/wasm"
)

// wasm_exec.js moved from misc/wasm to lib/wasm in Go 1.24.
var wasmExecDirs = []string{
	filepath.Join("lib", "wasm"),
	filepath.Join("misc", "wasm"),
}

type Options struct {
	// Dir is the module directory the package is built from.
	Dir     string
	Package string
	GoBin   string
	Dist    *fs.OSFileSystem
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *zap.Logger
}

type Result struct {
	WasmPath     string
	WasmExecPath string
	Size         int64
	Duration     time.Duration
}

type WasmBuilder struct {
	dir    string
	pkg    string
	goBin  string
	dist   *fs.OSFileSystem
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

func NewWasmBuilder(opts Options) *WasmBuilder {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Package == "" {
		opts.Package = DefaultPackage
	}
	if opts.GoBin == "" {
		opts.GoBin = "go"
	}
	if opts.Dist == nil {
		opts.Dist = fs.NewOSFileSystem("dist")
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &WasmBuilder{
		dir:    opts.Dir,
		pkg:    opts.Package,
		goBin:  opts.GoBin,
		dist:   opts.Dist,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
		logger: opts.Logger,
	}
}

// Build compiles the client to <dist>/shell.wasm and copies the matching
// wasm_exec.js next to it.
func (b *WasmBuilder) Build(ctx context.Context) (Result, error) {
	start := time.Now()

	if err := b.dist.MkdirAll(".", 0755); err != nil {
		return Result{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	outDir, err := filepath.Abs(b.dist.Root())
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	wasmPath := filepath.Join(outDir, WasmFile)

	b.logger.Info("compiling client", zap.String("package", b.pkg), zap.String("out", wasmPath))

	cmd := exec.CommandContext(ctx, b.goBin, "build", "-trimpath", "-o", wasmPath, b.pkg)
	cmd.Dir = b.dir
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	cmd.Stdout = b.stdout
	cmd.Stderr = b.stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("go build failed: %w", err)
	}

	goroot, err := b.goRoot(ctx)
	if err != nil {
		return Result{}, err
	}
	src, err := FindWasmExec(goroot)
	if err != nil {
		return Result{}, err
	}
	if err := b.dist.CopyFile(src, WasmExecFile); err != nil {
		return Result{}, fmt.Errorf("failed to copy %s: %w", WasmExecFile, err)
	}

	info, err := os.Stat(wasmPath)
	if err != nil {
		return Result{}, fmt.Errorf("build produced no output: %w", err)
	}

	result := Result{
		WasmPath:     wasmPath,
		WasmExecPath: filepath.Join(outDir, WasmExecFile),
		Size:         info.Size(),
		Duration:     time.Since(start),
	}
	b.logger.Info("client built",
		zap.String("wasm", result.WasmPath),
		zap.Int64("bytes", result.Size),
		zap.Duration("took", result.Duration),
	)
	return result, nil
}

func (b *WasmBuilder) goRoot(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, b.goBin, "env", "GOROOT")
	cmd.Dir = b.dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("go env GOROOT failed: %s", strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("failed to run go env: %w", err)
	}

	goroot := strings.TrimSpace(string(out))
	if goroot == "" {
		return "", fmt.Errorf("go env GOROOT returned nothing")
	}
	return goroot, nil
}

// FindWasmExec locates wasm_exec.js inside a Go installation.
func FindWasmExec(goroot string) (string, error) {
	for _, dir := range wasmExecDirs {
		path := filepath.Join(goroot, dir, WasmExecFile)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s not found under %s", WasmExecFile, goroot)
}

// FindModuleRoot walks up from startDir to the nearest directory holding a
// go.mod, falling back to startDir.
func FindModuleRoot(startDir string) string {
	dir := startDir
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return startDir
}
