// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs commands either on the host or inside a Docker or
// Podman container with a working directory bind-mounted.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

const (
	binDocker = "docker"
	binPodman = "podman"

	// NameLocal identifies the host runtime.
	NameLocal = "local"

	// mountPoint is where the working directory appears inside a container.
	mountPoint = "/work"
)

// ErrNoRuntime is returned when no requested runtime is operational.
var ErrNoRuntime = errors.New("no container runtime available")

// Spec describes one command execution.
type Spec struct {
	// Image is the container image; ignored by the local runtime.
	Image string

	// Dir is the host working directory. Containers mount it read-write.
	Dir string

	// Command is the program and its arguments.
	Command []string
}

// Runtime executes commands in some environment.
type Runtime interface {
	// Name returns "local", "docker" or "podman".
	Name() string

	// Available reports whether the runtime can execute commands.
	Available(ctx context.Context) bool

	// ImageExists checks whether the named image exists locally. The local
	// runtime needs no image and always succeeds.
	ImageExists(ctx context.Context, image string) error

	// Run executes spec, sending combined output to out.
	Run(ctx context.Context, spec Spec, out io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(ctx context.Context, name string, args ...string) error
	RunIn(ctx context.Context, dir, name string, args []string, out io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (o *osExecutor) RunIn(ctx context.Context, dir, name string, args []string, out io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}

// runtime implements Runtime for a container binary. Docker and Podman
// differ only in binary name and the image check subcommand.
type runtime struct {
	bin           string
	imageCheckCmd []string
	exec          executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available(ctx context.Context) bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(ctx, r.bin, "info") == nil
}

func (r *runtime) ImageExists(ctx context.Context, image string) error {
	args := make([]string, 0, len(r.imageCheckCmd)+1)
	args = append(args, r.imageCheckCmd...)
	args = append(args, image)

	if err := r.exec.RunSilent(ctx, r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Run(ctx context.Context, spec Spec, out io.Writer) error {
	args := []string{"run", "--rm", "-v", spec.Dir + ":" + mountPoint, "-w", mountPoint, spec.Image}
	args = append(args, spec.Command...)
	if err := r.exec.RunIn(ctx, spec.Dir, r.bin, args, out); err != nil {
		return fmt.Errorf("running %s container %s: %w", r.bin, spec.Image, err)
	}
	return nil
}

// local runs commands directly on the host.
type local struct {
	exec executor
}

func (l *local) Name() string { return NameLocal }

func (l *local) Available(context.Context) bool { return true }

func (l *local) ImageExists(context.Context, string) error { return nil }

func (l *local) Run(ctx context.Context, spec Spec, out io.Writer) error {
	if len(spec.Command) == 0 {
		return errors.New("empty command")
	}
	if _, err := l.exec.LookPath(spec.Command[0]); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", spec.Command[0], err)
	}
	if err := l.exec.RunIn(ctx, spec.Dir, spec.Command[0], spec.Command[1:], out); err != nil {
		return fmt.Errorf("running %s: %w", spec.Command[0], err)
	}
	return nil
}

func newDockerRuntime(exec executor) *runtime {
	return &runtime{bin: binDocker, imageCheckCmd: []string{"image", "inspect"}, exec: exec}
}

func newPodmanRuntime(exec executor) *runtime {
	return &runtime{bin: binPodman, imageCheckCmd: []string{"image", "exists"}, exec: exec}
}

var defaultExec executor = &osExecutor{}

// Local returns the host runtime.
func Local() Runtime {
	return &local{exec: defaultExec}
}

// Select returns the runtime named by kind: "local", "docker", "podman", or
// "auto"/"" which tries docker, then podman, then the host.
func Select(ctx context.Context, kind string) (Runtime, error) {
	return selectRuntime(ctx, defaultExec, kind)
}

func selectRuntime(ctx context.Context, exec executor, kind string) (Runtime, error) {
	switch kind {
	case NameLocal:
		return &local{exec: exec}, nil
	case binDocker, binPodman:
		rt := newDockerRuntime(exec)
		if kind == binPodman {
			rt = newPodmanRuntime(exec)
		}
		if !rt.Available(ctx) {
			return nil, fmt.Errorf("%w: %s not found or not operational", ErrNoRuntime, kind)
		}
		return rt, nil
	case "", "auto":
		if rt, err := detectRuntime(ctx, exec); err == nil {
			return rt, nil
		}
		return &local{exec: exec}, nil
	}
	return nil, fmt.Errorf("unknown runtime %q", kind)
}

// DetectRuntime tries docker first, falls back to podman. Returns an error
// if neither runtime is available.
func DetectRuntime(ctx context.Context) (Runtime, error) {
	return detectRuntime(ctx, defaultExec)
}

func detectRuntime(ctx context.Context, exec executor) (Runtime, error) {
	docker := newDockerRuntime(exec)
	if docker.Available(ctx) {
		return docker, nil
	}

	podman := newPodmanRuntime(exec)
	if podman.Available(ctx) {
		return podman, nil
	}

	return nil, fmt.Errorf("%w: neither %s nor %s found or operational", ErrNoRuntime, binDocker, binPodman)
}
