// Package secure provides memory-safe handling of sensitive data.
//
// This package wraps the memguard library to provide secure storage for
// dotenv values while they wait to be written to the remote store. It
// ensures that sensitive data is:
//
//   - Encrypted at rest in memory (XSalsa20Poly1305)
//   - Protected from swapping via mlock
//   - Securely wiped when no longer needed
//   - Protected from buffer overflow via guard pages
//
// # Usage
//
// Create a secure buffer from a sensitive value:
//
//	buf, err := secure.NewSecureBufferFromString("my-secret")
//	if err != nil {
//	    // Handle error - may indicate mlock unavailable
//	}
//	defer buf.Destroy() // Always destroy when done
//
//	// When you need the plaintext, keep its lifetime scoped:
//	err = buf.Reveal(func(value string) error {
//	    return store.Set(ctx, repo, name, value)
//	})
//
// # Platform Behavior
//
// Memory locking behavior varies by platform:
//
//   - Linux: Requires RLIMIT_MEMLOCK to be set appropriately
//   - macOS: Works out of the box
//   - Windows: Uses VirtualLock
//
// If mlock is unavailable or fails, memguard degrades to standard Go
// memory rather than failing.
//
// # Security Guarantees
//
// This package provides defense-in-depth against memory-based attacks:
//
//   - Core dumps will not contain plaintext secrets
//   - Secrets won't be swapped to disk
//   - Memory is overwritten with zeros on destruction
//   - Guard pages detect buffer overflows
//
// It does NOT protect against:
//
//   - Attackers with root access to the running process
//   - Hardware-level attacks (cold boot, DMA)
//   - Spectre/Meltdown side-channel attacks
//
// It also cannot hide values that are passed to a child process on its
// command line; that exposure window is inherent to driving the gh CLI.
package secure
