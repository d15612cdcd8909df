package shader

import (
	"fmt"

	"github.com/gogpu/naga"
)

// NagaBackend compiles WGSL shader source to SPIR-V with the pure-Go naga
// port. Stage and entry point come from the source itself; the arguments are
// accepted for interface symmetry and future validation.
type NagaBackend struct{}

func (NagaBackend) Compile(source string, stage Stage, entryPoint string, opts Options) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("naga: %w", err)
	}

	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("naga: SPIR-V output is %d bytes, not word aligned", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	return words, nil
}
