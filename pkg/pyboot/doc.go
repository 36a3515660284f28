// Package pyboot provides a high-level library API for provisioning Python
// virtual environments from Go.
//
// This package is the primary integration point for external consumers such
// as build orchestrators. It wraps internal packages into a clean, stable
// public API.
//
// # Build Model
//
// A project has two environments:
//
//   - The bootstrap environment holds the installer toolchain (the package
//     manager plus bootstrap packages). It is shared across projects under a
//     cache directory, keyed by a fingerprint of the configuration, and
//     guarded against concurrent builders by a lease-based file lock.
//
//   - The project environment holds the project's own dependencies, created
//     by running the package manager from the bootstrap environment.
//
// Both steps are idempotent: a valid environment is reused, an invalid or
// incompatible one is rebuilt from scratch.
//
// # Recommended Usage Pattern
//
//	client, err := pyboot.Open(projectDir, pyboot.Options{})
//	if err != nil {
//	    return err
//	}
//	if err := client.Build(ctx); err != nil {
//	    return err
//	}
//	// <projectDir>/.venv is now ready.
package pyboot
