// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container finds a local container runtime (docker or podman) and
// runs one-shot conversion images that read a document on stdin and write
// the converted document to stdout.
package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// Runtime runs conversion containers.
type Runtime interface {
	// Name returns "docker" or "podman".
	Name() string

	// Available reports whether the binary is on PATH and answers "info".
	Available() bool

	// ImageExists returns nil when image is present locally.
	ImageExists(image string) error

	// Run starts image with stdin attached and copies its stdout to stdout.
	// The container is removed when it exits or ctx is done.
	Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error
}

// executor is the process seam replaced in tests.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// runtime implements Runtime for one binary. Docker and Podman differ only
// in the binary and the image check subcommand.
type runtime struct {
	bin           string
	imageCheckCmd []string
	exec          executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "info") == nil
}

func (r *runtime) ImageExists(image string) error {
	args := append(append([]string(nil), r.imageCheckCmd...), image)
	if err := r.exec.RunSilent(r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	args := []string{"run", "--rm", "-i", "--network", "none", image}
	if err := r.exec.RunPiped(ctx, r.bin, args, stdin, stdout, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("running %s container %s: %w: %s", r.bin, image, err, lastLine(msg))
		}
		return fmt.Errorf("running %s container %s: %w", r.bin, image, err)
	}
	return nil
}

// lastLine keeps error messages to the container's final diagnostic.
func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func newDockerRuntime(e executor) *runtime {
	return &runtime{bin: binDocker, imageCheckCmd: []string{"image", "inspect"}, exec: e}
}

func newPodmanRuntime(e executor) *runtime {
	return &runtime{bin: binPodman, imageCheckCmd: []string{"image", "exists"}, exec: e}
}

// DetectRuntime returns docker when it is usable and podman otherwise.
func DetectRuntime() (Runtime, error) {
	return detectRuntime(osExecutor{})
}

func detectRuntime(e executor) (Runtime, error) {
	for _, rt := range []*runtime{newDockerRuntime(e), newPodmanRuntime(e)} {
		if rt.Available() {
			return rt, nil
		}
	}
	return nil, fmt.Errorf("no container runtime available: neither %s nor %s found or operational", binDocker, binPodman)
}
