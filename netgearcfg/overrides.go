package netgearcfg

import "fmt"

// Metadata describes a device model whose firmware reports a magic value
// that doesn't actually match what it used to encrypt, along with which
// registered PRNG its config cipher runs on.
type Metadata struct {
	StatedMagic uint32
	RealMagic   uint32
	Algorithm   string
}

// Overrides are necessary because the magic value stated in the header is
// sometimes incorrect. This maps stated magic values to the known metadata
// for the device, including the real magic.
//
// Adapted from orbicfg's cfg/overrides.go, generalized to name PRNGs by
// registry name instead of the original's RngMusl/RngUclibc constants.
var overrides = map[uint32]*Metadata{
	// RBR760 (https://github.com/Fysac/orbicfg/issues/6)
	0x01346231: {
		StatedMagic: 0x01346231,
		RealMagic:   0x01346232,
		Algorithm:   "musl",
	},
	// RAX10 (https://github.com/Fysac/orbicfg/issues/8)
	0x20200425: {
		StatedMagic: 0x20200425,
		RealMagic:   0x20200426,
		// Technically the RAX10 uses glibc directly, but the version in
		// use appears to behave identically to uClibc's TYPE_3 generator,
		// so we reuse that algorithm here too.
		Algorithm: "glibc",
	},
}

// Overrides returns the stated-magic-to-metadata table.
func Overrides() map[uint32]*Metadata {
	for k, v := range overrides {
		if k != v.StatedMagic {
			panic(fmt.Errorf("key %v is not equal to StatedMagic %v", k, v.StatedMagic))
		}
	}
	return overrides
}
