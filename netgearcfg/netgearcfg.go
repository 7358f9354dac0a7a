// Package netgearcfg implements the Netgear/Orbi router config cipher: a
// 12-byte header (magic seed, length, checksum) followed by the config
// XOR-keystreamed with a weak PRNG seeded from that magic value.
//
// Adapted from orbicfg's cfg.go. The original hard-wired the keystream to
// uClibc rand(); this version drives it from any algorithm registered in
// package prng, which is what lets the recovery engine's seed-search and
// state-inference turn an encrypted config back into its magic number —
// the original motivating use case for a PRNG seed recovery tool.
package netgearcfg

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dpetro/untwister/prng"
)

const (
	// When a config is exported from the web interface, it looks like a
	// tar archive; the real config data starts at this offset.
	tarMarker            = "photos.tar"
	configOffsetAfterTar = 655360

	// A header of this size immediately precedes the encrypted data.
	headerSize = 12

	// Data is encrypted in blocks of this size.
	chunkSize = 4

	// The starting and ending value when calculating and verifying a
	// checksum, respectively.
	initialCrc uint32 = 0xffffffff
)

const ErrorInvalidChecksum = "invalid checksum"

// Header precedes the encrypted config.
type Header struct {
	// Magic is the seed given to the configured PRNG's Seed() to generate
	// the XOR keystream, e.g. 0x20131224.
	Magic uint32

	// Len is the length of the encrypted data following the header.
	Len uint32

	// Crc is not an actual CRC, just an additive checksum; datalib calls
	// the field "crc" so we keep the name for consistency.
	Crc uint32
}

func (h *Header) Bytes() []byte {
	raw := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(raw[:4], h.Magic)
	binary.LittleEndian.PutUint32(raw[4:8], h.Len)
	binary.LittleEndian.PutUint32(raw[8:headerSize], h.Crc)
	return raw
}

// Decrypt parses the header and XOR-decrypts the config using algorithm
// seeded with the header's magic value.
func Decrypt(encryptedConfig []byte, algorithm string, ignoreChecksum bool) (*Header, []byte, error) {
	if bytes.HasPrefix(encryptedConfig, []byte(tarMarker)) {
		if len(encryptedConfig) <= configOffsetAfterTar {
			return nil, nil, fmt.Errorf("offset should be %v, but config is too small (%v)", configOffsetAfterTar, len(encryptedConfig))
		}
		encryptedConfig = encryptedConfig[configOffsetAfterTar:]
	}

	header, err := parseHeader(encryptedConfig)
	if err != nil {
		return nil, nil, err
	}

	gen, err := prng.New(algorithm)
	if err != nil {
		return nil, nil, err
	}
	gen.Seed(header.Magic)

	rawConfig := make([]byte, header.Len)
	for i := uint32(0); i < header.Len; i += chunkSize {
		word := binary.LittleEndian.Uint32(encryptedConfig[headerSize+i : headerSize+i+chunkSize])
		result := word ^ gen.Random()
		binary.LittleEndian.PutUint32(rawConfig[i:], result)
	}

	if !ignoreChecksum && !verifyChecksum(header, rawConfig) {
		return nil, nil, errors.New(ErrorInvalidChecksum)
	}
	return header, rawConfig, nil
}

// Encrypt produces a config blob using algorithm seeded with magic.
func Encrypt(rawConfig []byte, algorithm string, magic uint32) ([]byte, error) {
	if len(rawConfig) == 0 {
		return nil, errors.New("config is empty")
	}
	if len(rawConfig)%chunkSize != 0 {
		return nil, errors.New("config length is not divisible by chunk size")
	}

	gen, err := prng.New(algorithm)
	if err != nil {
		return nil, err
	}
	gen.Seed(magic)

	header := Header{
		Magic: magic,
		Len:   uint32(len(rawConfig)),
		Crc:   calcChecksum(rawConfig),
	}

	ct := make([]byte, header.Len)
	for i := uint32(0); i < header.Len; i += chunkSize {
		word := binary.LittleEndian.Uint32(rawConfig[i : i+chunkSize])
		binary.LittleEndian.PutUint32(ct[i:], word^gen.Random())
	}
	return append(header.Bytes(), ct...), nil
}

// ToJSON renders a null-separated key=value config as indented JSON,
// preserving entry order.
func ToJSON(rawConfig []byte) ([]byte, error) {
	jsonConfig := orderedmap.New[string, string]()

	entries := bytes.Split(rawConfig, []byte{0})
	for _, entry := range entries {
		if len(entry) == 0 {
			// The last two bytes of the plaintext are always 0, so
			// there's nothing to split there.
			continue
		}
		mapping := bytes.Split(entry, []byte{'='})
		if len(mapping) != 2 {
			return nil, fmt.Errorf("missing or improper '=' separator in config: %v", entry)
		}
		key, value := string(mapping[0]), string(mapping[1])
		if _, present := jsonConfig.Get(key); present {
			return nil, fmt.Errorf("config has duplicate key: %v", key)
		}
		jsonConfig.Set(key, value)
	}

	b, err := jsonConfig.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err = json.Indent(&buf, b, "", "\t"); err != nil {
		return nil, err
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// FromJSON is the inverse of ToJSON.
func FromJSON(jsonConfig []byte) ([]byte, error) {
	jsonConfigMap := orderedmap.New[string, string]()
	if err := jsonConfigMap.UnmarshalJSON(jsonConfig); err != nil {
		return nil, err
	}

	var rawConfig []byte
	for pair := jsonConfigMap.Oldest(); pair != nil; pair = pair.Next() {
		rawConfig = append(rawConfig, []byte(fmt.Sprintf("%s=%s", pair.Key, pair.Value))...)
		rawConfig = append(rawConfig, 0)
	}

	paddingLen := chunkSize - (len(rawConfig) % chunkSize)
	return append(rawConfig, bytes.Repeat([]byte{0}, paddingLen)...), nil
}

func parseHeader(encryptedConfig []byte) (*Header, error) {
	if len(encryptedConfig) < headerSize {
		return nil, fmt.Errorf("config is smaller than header size (%v < %v)", len(encryptedConfig), headerSize)
	}
	header := &Header{
		Magic: binary.LittleEndian.Uint32(encryptedConfig[:4]),
		Len:   binary.LittleEndian.Uint32(encryptedConfig[4:8]),
		Crc:   binary.LittleEndian.Uint32(encryptedConfig[8:headerSize]),
	}
	if int(header.Len) != len(encryptedConfig[headerSize:]) {
		return nil, fmt.Errorf("header length (%v) != length of config data (%v)", header.Len, len(encryptedConfig[headerSize:]))
	}
	if header.Len%chunkSize != 0 {
		return nil, fmt.Errorf("header length %v is not divisible by chunk size", header.Len)
	}
	return header, nil
}

func verifyChecksum(header *Header, rawConfig []byte) bool {
	crc := header.Crc
	for i := 0; i < len(rawConfig); i += chunkSize {
		crc += binary.LittleEndian.Uint32(rawConfig[i : i+4])
	}
	return crc == initialCrc
}

func calcChecksum(rawConfig []byte) uint32 {
	crc := initialCrc
	for i := 0; i < len(rawConfig); i += chunkSize {
		crc -= binary.LittleEndian.Uint32(rawConfig[i : i+4])
	}
	return crc
}
