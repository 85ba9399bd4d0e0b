// Package grayscott implements a deterministic, key-reversible image cipher
// built on a simulated Gray-Scott reaction-diffusion process.
//
// Encryption runs the two-species PDE forward in time with a time-symmetric
// Strang-split integrator; decryption runs the identical simulation backward
// and recovers the original image. The secret key deterministically fixes the
// simulation parameters and the initial catalyst field, so the whole forward
// trajectory is a keyed, invertible mixing function.
//
// WARNING: this construction provides confidentiality-by-simulation only.
// It is NOT authenticated encryption: there is no integrity or
// tamper-detection guarantee, and no key-exchange scheme.
package grayscott

// Version of the gray-scott-go implementation.
const Version = "1.0.0"

// API summary:
//
// Cipher engine:
//   - engine.New(key, shape, cfg)     - Build an engine for a key and image shape
//   - (*engine.Engine).Encrypt(img)   - Forward pass; returns the ciphertext pair
//   - (*engine.Engine).Decrypt(ct)    - Backward pass; recovers the image
//   - (*engine.Engine).Diagnostics()  - Newton convergence diagnostics
//   - engine.Serialize/Deserialize    - Ciphertext container encoding
//
// Building blocks:
//   - core.NewKeyStream(key)          - Key-derived deterministic draw stream
//   - core.DeriveParameters(s, cfg)   - Simulation parameters from key + overrides
//   - catalyst.Synthesize(s, h, w)    - Key-dependent initial catalyst field
//   - pde.NewLaplacian(h, w)          - Banded zero-flux diffusion operator
//   - pde.NewStepper(...)             - Strang-split time stepper
