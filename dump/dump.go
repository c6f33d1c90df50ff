// Package dump persists registry snapshots in a self-describing binary
// format.
//
// Layout:
//
//	[Magic "DCOR"] [Version: 1 byte] [Compression: 1 byte]
//	[CodecNameLen: 1 byte] [CodecName]
//	[UncompressedSize: 4 bytes] [CompressedSize: 4 bytes] [Payload]
//
// The payload is the codec-encoded entry map, optionally block-compressed
// with LZ4 or ZSTD. A CompressedSize of zero means the payload is stored
// raw. Files record their codec by name, so Read selects it without caller
// configuration.
//
// Identity-keyed stores are not dumpable: object identity is process-local
// by definition. Only name-keyed registry exports round-trip.
package dump

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/decor/codec"
)

var magic = [4]byte{'D', 'C', 'O', 'R'}

const version uint8 = 1

var (
	// ErrBadMagic is returned when the input does not start with the dump
	// magic bytes.
	ErrBadMagic = errors.New("bad magic")

	// ErrUnknownVersion is returned for dump versions this build cannot
	// read.
	ErrUnknownVersion = errors.New("unknown dump version")

	// ErrUnknownCodec is returned when the codec named in the header is
	// not registered.
	ErrUnknownCodec = errors.New("unknown codec")

	// ErrUnknownCompression is returned for compression bytes this build
	// cannot handle.
	ErrUnknownCompression = errors.New("unknown compression")
)

type options struct {
	codec       codec.Codec
	compression Compression
}

// Option configures Write behavior.
type Option func(*options)

// WithCodec configures the codec used to encode entries.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the payload compression. The default is
// CompressionZSTD; incompressible payloads degrade to raw storage
// automatically.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:       codec.Default,
		compression: CompressionZSTD,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// Write encodes entries and writes a snapshot to w.
func Write[V any](w io.Writer, entries map[string]V, optFns ...Option) error {
	o := applyOptions(optFns)

	if o.compression > CompressionZSTD {
		return fmt.Errorf("%w: %d", ErrUnknownCompression, o.compression)
	}

	name := o.codec.Name()
	if len(name) > math.MaxUint8 {
		return fmt.Errorf("codec name too long: %q", name)
	}

	payload, err := o.codec.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}

	block, err := compressBlock(payload, o.compression)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(magic[:]); err != nil {
		return err
	}
	if err := bw.WriteByte(version); err != nil {
		return err
	}
	if err := bw.WriteByte(byte(o.compression)); err != nil {
		return err
	}
	if err := bw.WriteByte(byte(len(name))); err != nil {
		return err
	}
	if _, err := bw.WriteString(name); err != nil {
		return err
	}
	if _, err := bw.Write(block); err != nil {
		return err
	}
	return bw.Flush()
}

// Read parses a snapshot from r. The type parameter must match the value
// type the snapshot was written with.
func Read[V any](r io.Reader) (map[string]V, error) {
	br := bufio.NewReader(r)

	var m [4]byte
	if _, err := io.ReadFull(br, m[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if m != magic {
		return nil, ErrBadMagic
	}

	ver, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if ver != version {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, ver)
	}

	compByte, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("read compression: %w", err)
	}
	compression := Compression(compByte)
	if compression > CompressionZSTD {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, compByte)
	}

	nameLen, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("read codec name length: %w", err)
	}
	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(br, nameBytes); err != nil {
		return nil, fmt.Errorf("read codec name: %w", err)
	}
	c, ok := codec.ByName(string(nameBytes))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, string(nameBytes))
	}

	payload, err := readBlock(br, compression)
	if err != nil {
		return nil, err
	}

	var entries map[string]V
	if err := c.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	return entries, nil
}
