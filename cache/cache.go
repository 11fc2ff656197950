// Package cache implements the on-disk bottom-tree cache §6 delegates
// to an external collaborator: loading a previously built bottom tree
// from disk instead of recomputing it, keyed by (prf_key, parameter,
// bottom_tree_index). Any integrity failure — bad magic, wrong
// version, or a record that doesn't match the requested key — is
// treated as a cache miss and silently recomputed by the caller; it is
// never surfaced as an error (§7's integrity-error policy).
package cache

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/field"
	"github.com/aerius-labs/xmss-koalabear/merkle"
	"github.com/aerius-labs/xmss-koalabear/params"
)

// CacheMagic is "BTC1" read as a little-endian u32.
const CacheMagic uint32 = 0x42544331

// CacheVersion is the only version this package writes or accepts.
const CacheVersion uint8 = 1

const defaultCacheDir = "tmp/bottom_tree_cache"

const (
	envDisable = "HASH_ZIG_DISABLE_BT_CACHE"
	envDir     = "HASH_ZIG_BT_CACHE_DIR"
)

// Disabled reports whether HASH_ZIG_DISABLE_BT_CACHE is set (any
// value, including empty, counts as present).
func Disabled() bool {
	_, present := os.LookupEnv(envDisable)
	return present
}

// Dir returns HASH_ZIG_BT_CACHE_DIR if set, else the default.
func Dir() string {
	if d, ok := os.LookupEnv(envDir); ok && d != "" {
		return d
	}
	return defaultCacheDir
}

func path(dir string, logLifetime, bottomIndex int) string {
	return filepath.Join(dir, fmt.Sprintf("bt_%d_%d.cache", logLifetime, bottomIndex))
}

// Load reads bottom-tree bottomIndex from disk and validates it
// against the requested (prfKey, parameter, logLifetime, bottomIndex)
// key. It returns (nil, false) — never an error — on any miss: file
// absent, bad magic/version, or a key mismatch.
func Load(prfKey []byte, parameter []field.Element, bottomIndex int, lp *params.LifetimeParams) (*merkle.HashSubTree, bool) {
	if Disabled() {
		return nil, false
	}
	raw, err := os.ReadFile(path(Dir(), lp.LogLifetime, bottomIndex))
	if err != nil {
		return nil, false
	}
	tree, ok := decode(raw, prfKey, parameter, bottomIndex, lp)
	return tree, ok
}

// Store writes tree to disk under its (logLifetime, bottomIndex) key.
// A write failure is a resource error and propagates verbatim (§7).
func Store(tree *merkle.HashSubTree, prfKey []byte, parameter []field.Element, bottomIndex int, lp *params.LifetimeParams) error {
	if Disabled() {
		return nil
	}
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cache: create cache dir: %w", err)
	}
	buf := encode(tree, prfKey, parameter, bottomIndex, lp)
	tmp := path(dir, lp.LogLifetime, bottomIndex) + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return fmt.Errorf("cache: write temp file: %w", err)
	}
	return os.Rename(tmp, path(dir, lp.LogLifetime, bottomIndex))
}

func encode(tree *merkle.HashSubTree, prfKey []byte, parameter []field.Element, bottomIndex int, lp *params.LifetimeParams) []byte {
	buf := make([]byte, 0, 256)
	buf = appendU32(buf, CacheMagic)
	buf = append(buf, CacheVersion)
	buf = append(buf, byte(lp.LogLifetime))
	buf = appendU16(buf, 0) // reserved
	buf = appendU32(buf, uint32(bottomIndex))
	buf = append(buf, prfKey[:32]...)
	for _, e := range parameter {
		buf = append(buf, field.ToBytes(e)...)
	}
	root := tree.Root()
	buf = writeDomainElement(buf, root, lp.HashFE)
	buf = appendU32(buf, uint32(len(tree.Layers)))
	for _, layer := range tree.Layers {
		buf = appendU64(buf, layer.StartIndex)
		buf = appendU32(buf, uint32(len(layer.Nodes)))
		for _, n := range layer.Nodes {
			buf = writeDomainElement(buf, n, lp.HashFE)
		}
	}
	return buf
}

// writeDomainElement and readDomainElement mirror the field/domain
// element wire format package serialize defines (§6); duplicated here,
// rather than imported, because serialize depends on xmss and xmss
// depends on this package to serve bottom trees from disk.
func writeDomainElement(buf []byte, d domain.Element, hashFE int) []byte {
	for _, e := range d.Truncate(hashFE) {
		buf = append(buf, field.ToBytes(e)...)
	}
	return buf
}

func readFieldElement(b []byte) (field.Element, []byte, error) {
	if len(b) < 4 {
		return field.Element{}, nil, fmt.Errorf("cache: short read for field element")
	}
	return field.FromBytes(b[:4]), b[4:], nil
}

func readDomainElement(b []byte, hashFE int) (domain.Element, []byte, error) {
	fe := make([]field.Element, hashFE)
	rest := b
	var err error
	for i := range fe {
		fe[i], rest, err = readFieldElement(rest)
		if err != nil {
			return domain.Element{}, nil, err
		}
	}
	return domain.FromSlice(fe), rest, nil
}

func decode(buf, prfKey []byte, parameter []field.Element, bottomIndex int, lp *params.LifetimeParams) (*merkle.HashSubTree, bool) {
	if len(buf) < 4+1+1+2+4+32 {
		return nil, false
	}
	magic := binary.LittleEndian.Uint32(buf[0:4])
	if magic != CacheMagic {
		return nil, false
	}
	version := buf[4]
	if version != CacheVersion {
		return nil, false
	}
	logLifetime := int(buf[5])
	if logLifetime != lp.LogLifetime {
		return nil, false
	}
	// buf[6:8] reserved, ignored.
	storedIndex := binary.LittleEndian.Uint32(buf[8:12])
	if int(storedIndex) != bottomIndex {
		return nil, false
	}
	storedKey := buf[12:44]
	if len(storedKey) != 32 || string(storedKey) != string(prfKey[:32]) {
		return nil, false
	}

	rest := buf[44:]
	for _, want := range parameter {
		got, tail, err := readFieldElement(rest)
		if err != nil || !field.Equal(got, want) {
			return nil, false
		}
		rest = tail
	}

	root, rest, err := readDomainElement(rest, lp.HashFE)
	if err != nil {
		return nil, false
	}

	numLayers, rest, err := readU32(rest)
	if err != nil {
		return nil, false
	}
	layers := make([]merkle.Layer, numLayers)
	for i := range layers {
		startIndex, tail, err := readU64(rest)
		if err != nil {
			return nil, false
		}
		rest = tail
		nodeCount, tail, err := readU32(rest)
		if err != nil {
			return nil, false
		}
		rest = tail
		nodes := make([]domain.Element, nodeCount)
		for j := range nodes {
			var d domain.Element
			d, rest, err = readDomainElement(rest, lp.HashFE)
			if err != nil {
				return nil, false
			}
			nodes[j] = d
		}
		layers[i] = merkle.Layer{StartIndex: startIndex, Nodes: nodes}
	}

	tree := &merkle.HashSubTree{Layers: layers}
	if !domain.Equal(tree.Root(), root) {
		return nil, false
	}
	return tree, true
}

func appendU16(buf []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(buf, b[:]...)
}

func appendU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendU64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

func readU32(b []byte) (uint32, []byte, error) {
	if len(b) < 4 {
		return 0, nil, fmt.Errorf("cache: short read for u32")
	}
	return binary.LittleEndian.Uint32(b[:4]), b[4:], nil
}

func readU64(b []byte) (uint64, []byte, error) {
	if len(b) < 8 {
		return 0, nil, fmt.Errorf("cache: short read for u64")
	}
	return binary.LittleEndian.Uint64(b[:8]), b[8:], nil
}
