package chem

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint is a fixed-width bit vector encoding structural features.
type Fingerprint struct {
	Bits []uint64
	Size int
}

// NewFingerprint allocates an all-zero fingerprint of the given bit width.
func NewFingerprint(size int) *Fingerprint {
	return &Fingerprint{Bits: make([]uint64, (size+63)/64), Size: size}
}

// SetBit sets bit i (modulo the width, so hashed features fold in place).
func (fp *Fingerprint) SetBit(i uint64) {
	i %= uint64(fp.Size)
	fp.Bits[i/64] |= 1 << (i % 64)
}

// Bit reports whether bit i is set.
func (fp *Fingerprint) Bit(i int) bool {
	return fp.Bits[i/64]&(1<<(uint(i)%64)) != 0
}

// OnBits returns the population count.
func (fp *Fingerprint) OnBits() int {
	n := 0
	for _, w := range fp.Bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// BitString renders the fingerprint as a '0'/'1' string, bit 0 first.
func (fp *Fingerprint) BitString() string {
	var sb strings.Builder
	sb.Grow(fp.Size)
	for i := 0; i < fp.Size; i++ {
		if fp.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Tanimoto returns |A∩B| / |A∪B| for two fingerprints of equal width.
// Two empty fingerprints score 0.
func Tanimoto(a, b *Fingerprint) (float64, error) {
	if a.Size != b.Size {
		return 0, fmt.Errorf("fingerprint sizes differ: %d vs %d", a.Size, b.Size)
	}
	inter, union := 0, 0
	for i := range a.Bits {
		inter += bits.OnesCount64(a.Bits[i] & b.Bits[i])
		union += bits.OnesCount64(a.Bits[i] | b.Bits[i])
	}
	if union == 0 {
		return 0, nil
	}
	return float64(inter) / float64(union), nil
}

// hashFeature folds a sequence of integers into a single 64-bit feature hash.
func hashFeature(vals ...int) uint64 {
	var d xxhash.Digest
	d.Reset()
	var buf [8]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// atomInvariant is the per-atom seed for circular and pair fingerprints.
func atomInvariant(m *Mol, i int) int {
	a := &m.Atoms[i]
	arom := 0
	if a.Aromatic {
		arom = 1
	}
	return a.AtomicNum*100000 + arom*10000 + m.Degree(i)*1000 + m.TotalHCount(i)*10 + (a.Charge+4)&7
}

// MorganFingerprint computes a circular (ECFP-style) fingerprint: each
// atom's environment hash is iteratively extended over the given radius,
// setting one bit per atom per radius level.
func MorganFingerprint(m *Mol, radius, nBits int) *Fingerprint {
	fp := NewFingerprint(nBits)
	n := m.NumAtoms()
	env := make([]uint64, n)
	for i := 0; i < n; i++ {
		env[i] = hashFeature(atomInvariant(m, i))
		fp.SetBit(env[i])
	}
	for r := 0; r < radius; r++ {
		next := make([]uint64, n)
		for i := 0; i < n; i++ {
			parts := make([]uint64, 0, m.Degree(i))
			for _, bi := range m.Adjacency()[i] {
				b := &m.Bonds[bi]
				parts = append(parts, hashFeature(bondTypeKey(b), int(env[b.Other(i)]%(1<<62))))
			}
			sort.Slice(parts, func(a, b int) bool { return parts[a] < parts[b] })
			vals := []int{int(env[i] % (1 << 62))}
			for _, p := range parts {
				vals = append(vals, int(p%(1<<62)))
			}
			next[i] = hashFeature(vals...)
			fp.SetBit(next[i])
		}
		env = next
	}
	return fp
}

// maxPathBonds bounds the path length of the topological fingerprint.
const maxPathBonds = 7

// PathFingerprint computes a linear-path (Daylight-style) fingerprint over
// all simple paths of 1..7 bonds.  Each path hashes identically in both
// directions.
func PathFingerprint(m *Mol, nBits int) *Fingerprint {
	fp := NewFingerprint(nBits)
	n := m.NumAtoms()
	visited := make([]bool, n)
	path := make([]int, 0, maxPathBonds+1)     // atom indices
	bondsOn := make([]int, 0, maxPathBonds)    // bond type keys along the path
	var walk func(u int)
	walk = func(u int) {
		visited[u] = true
		path = append(path, u)
		if len(path) > 1 {
			fp.SetBit(pathHash(m, path, bondsOn))
		}
		if len(bondsOn) < maxPathBonds {
			for _, bi := range m.Adjacency()[u] {
				v := m.Bonds[bi].Other(u)
				if visited[v] {
					continue
				}
				bondsOn = append(bondsOn, bondTypeKey(&m.Bonds[bi]))
				walk(v)
				bondsOn = bondsOn[:len(bondsOn)-1]
			}
		}
		path = path[:len(path)-1]
		visited[u] = false
	}
	for i := 0; i < n; i++ {
		walk(i)
	}
	return fp
}

// pathHash hashes a path canonically: the lexicographically smaller of the
// forward and reverse atom/bond sequences is used.
func pathHash(m *Mol, atoms []int, bondKeys []int) uint64 {
	fwd := make([]int, 0, len(atoms)*2)
	for i, ai := range atoms {
		fwd = append(fwd, atomInvariant(m, ai))
		if i < len(bondKeys) {
			fwd = append(fwd, bondKeys[i])
		}
	}
	rev := make([]int, len(fwd))
	for i := range fwd {
		rev[i] = fwd[len(fwd)-1-i]
	}
	if lessIntSlice(rev, fwd) {
		return hashFeature(rev...)
	}
	return hashFeature(fwd...)
}

// AtomPairFingerprint hashes every heavy-atom pair together with its
// topological distance (capped at 30 bonds).
func AtomPairFingerprint(m *Mol, nBits int) *Fingerprint {
	fp := NewFingerprint(nBits)
	dist := m.TopologicalDistances()
	n := m.NumAtoms()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := dist[i][j]
			if d < 0 || d > 30 {
				continue
			}
			a, b := atomInvariant(m, i), atomInvariant(m, j)
			if b < a {
				a, b = b, a
			}
			fp.SetBit(hashFeature(a, d, b))
		}
	}
	return fp
}

// TorsionFingerprint hashes every linear four-atom path (topological
// torsion).
func TorsionFingerprint(m *Mol, nBits int) *Fingerprint {
	fp := NewFingerprint(nBits)
	for _, b := range m.Bonds {
		// b is the central bond j-k; extend to i-j-k-l.
		for _, i := range m.Neighbors(b.From) {
			if i == b.To {
				continue
			}
			for _, l := range m.Neighbors(b.To) {
				if l == b.From || l == i {
					continue
				}
				seq := []int{
					atomInvariant(m, i), atomInvariant(m, b.From),
					atomInvariant(m, b.To), atomInvariant(m, l),
				}
				rev := []int{seq[3], seq[2], seq[1], seq[0]}
				if lessIntSlice(rev, seq) {
					seq = rev
				}
				fp.SetBit(hashFeature(seq...))
			}
		}
	}
	return fp
}

// maccsKeyCount is the fixed width of the structural-keys fingerprint.
const maccsKeyCount = 166

// maccsPatterns maps key indices (1-based, MACCS numbering style) to query
// patterns evaluated by the substructure matcher.  This is a practical
// subset of the 166 public keys; unlisted keys stay zero.
var maccsPatterns = map[int]string{
	22:  "C1CC1",          // 3-membered carbocycle
	24:  "O~N",            // N-O
	41:  "C#N",            // nitrile
	78:  "C=N",            // imine
	84:  "[NH2]",          // primary amine
	88:  "S",              // sulfur
	96:  "C1CCCC1",        // 5-membered carbocycle
	98:  "C1CCCCC1",       // 6-membered carbocycle
	103: "Cl",             // chlorine
	107: "F",              // fluorine
	121: "N1CCCCC1",       // piperidine-like ring
	137: "O=C",            // carbonyl
	139: "[OH]",           // hydroxyl
	142: "[N+]",           // charged nitrogen
	154: "C=O",            // carbonyl (duplicate orientation)
	157: "CO",             // C-O single
	160: "[CH3]",          // methyl
	161: "N",              // nitrogen
	162: "c",              // aromatic atom
	163: "C1=CC=CC=C1",    // benzene (kekulized form)
	164: "O",              // oxygen
	165: "C1=CC=CC=C1O",   // phenol-like substitution
}

// compiledMACCS holds the parsed key patterns, compiled once at startup.
var compiledMACCS = func() map[int]*QueryMol {
	out := make(map[int]*QueryMol, len(maccsPatterns))
	for key, pat := range maccsPatterns {
		q, err := ParsePattern(pat)
		if err != nil {
			continue
		}
		out[key] = q
	}
	return out
}()

// MACCSFingerprint evaluates the structural-keys fingerprint.  Width is
// fixed at 166 bits regardless of the engine's hashed-fingerprint width.
func MACCSFingerprint(m *Mol) *Fingerprint {
	fp := NewFingerprint(maccsKeyCount)
	for key, q := range compiledMACCS {
		if HasSubstructMatch(m, q) {
			fp.SetBit(uint64(key - 1))
		}
	}
	// Keys not expressible as connectivity patterns.
	for i := range m.Atoms {
		if m.Atoms[i].Charge > 0 {
			fp.SetBit(48) // key 49: cation
		}
		if m.Atoms[i].Charge != 0 {
			fp.SetBit(41) // key 42: any formal charge
		}
	}
	if m.RingCount() > 0 {
		fp.SetBit(110) // key 111: ring present
	}
	if m.AromaticRingCount() > 0 {
		fp.SetBit(124) // key 125: aromatic ring
	}
	if m.NumAtoms() >= 10 {
		fp.SetBit(144) // key 145: size marker
	}
	return fp
}
