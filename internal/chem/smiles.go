package chem

import (
	"fmt"
	"strings"
)

// parseMode distinguishes molecule parsing (strict valence and aromaticity
// checks) from query parsing (wildcards and any-bonds allowed, no
// sanitization).
type parseMode int

const (
	modeMolecule parseMode = iota
	modeQuery
)

// ParseSmiles parses a SMILES string into a sanitized molecular graph.
// Sanitization rejects over-valent atoms and aromatic atoms outside rings,
// mirroring the behavior callers rely on to detect malformed input.
func ParseSmiles(s string) (*Mol, error) {
	m, err := parse(s, modeMolecule)
	if err != nil {
		return nil, err
	}
	if err := sanitize(m); err != nil {
		return nil, err
	}
	return m, nil
}

// anyBondOrder marks a query bond written as "~": it matches every bond.
const anyBondOrder BondOrder = -1

type ringBondRef struct {
	atom  int
	order BondOrder
	arom  bool
	dir   BondDir
	any   bool
}

type smilesParser struct {
	src  string
	pos  int
	mode parseMode
	mol  *Mol

	prev        int // index of the previous atom, -1 before the first
	stack       []int
	ringBonds   map[int]ringBondRef
	pendingBond struct {
		set   bool
		order BondOrder
		arom  bool
		dir   BondDir
		any   bool
	}
}

func parse(s string, mode parseMode) (*Mol, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty SMILES")
	}
	p := &smilesParser{src: s, mode: mode, mol: NewMol(), prev: -1, ringBonds: map[int]ringBondRef{}}
	if err := p.run(); err != nil {
		return nil, err
	}
	if len(p.ringBonds) > 0 {
		return nil, fmt.Errorf("unclosed ring bond in %q", s)
	}
	if len(p.stack) > 0 {
		return nil, fmt.Errorf("unclosed branch in %q", s)
	}
	return p.mol, nil
}

func (p *smilesParser) run() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			if p.prev == -1 {
				return fmt.Errorf("branch before any atom at position %d", p.pos)
			}
			p.stack = append(p.stack, p.prev)
			p.pos++
		case c == ')':
			if len(p.stack) == 0 {
				return fmt.Errorf("unmatched ')' at position %d", p.pos)
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case c == '.':
			if p.pendingBond.set {
				return fmt.Errorf("bond symbol before '.' at position %d", p.pos)
			}
			p.prev = -1
			p.pos++
		case c == '-' || c == '=' || c == '#' || c == ':' || c == '/' || c == '\\' || c == '~':
			if err := p.readBond(c); err != nil {
				return err
			}
		case c >= '0' && c <= '9':
			if err := p.closeRing(int(c - '0')); err != nil {
				return err
			}
			p.pos++
		case c == '%':
			if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
				return fmt.Errorf("malformed ring bond number at position %d", p.pos)
			}
			n := int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
			if err := p.closeRing(n); err != nil {
				return err
			}
			p.pos += 3
		case c == '[':
			atom, consumed, err := parseBracketAtom(p.src[p.pos:], p.mode)
			if err != nil {
				return err
			}
			p.pos += consumed
			p.attach(atom)
		default:
			atom, consumed, err := parseOrganicAtom(p.src[p.pos:], p.mode)
			if err != nil {
				return fmt.Errorf("%v at position %d", err, p.pos)
			}
			p.pos += consumed
			p.attach(atom)
		}
	}
	if p.pendingBond.set {
		return fmt.Errorf("dangling bond symbol at end of input")
	}
	return nil
}

func (p *smilesParser) readBond(c byte) error {
	if p.pendingBond.set {
		return fmt.Errorf("doubled bond symbol at position %d", p.pos)
	}
	p.pendingBond.set = true
	p.pendingBond.order = BondSingle
	switch c {
	case '=':
		p.pendingBond.order = BondDouble
	case '#':
		p.pendingBond.order = BondTriple
	case ':':
		p.pendingBond.arom = true
	case '/':
		p.pendingBond.dir = DirUp
	case '\\':
		p.pendingBond.dir = DirDown
	case '~':
		if p.mode != modeQuery {
			return fmt.Errorf("'~' bond is only valid in query patterns")
		}
		p.pendingBond.any = true
	}
	p.pos++
	return nil
}

func (p *smilesParser) takePendingBond() (BondOrder, bool, BondDir, bool) {
	if !p.pendingBond.set {
		return BondSingle, false, DirNone, false
	}
	order, arom, dir, any := p.pendingBond.order, p.pendingBond.arom, p.pendingBond.dir, p.pendingBond.any
	p.pendingBond = struct {
		set   bool
		order BondOrder
		arom  bool
		dir   BondDir
		any   bool
	}{}
	return order, arom, dir, any
}

func (p *smilesParser) attach(a Atom) {
	idx := p.mol.AddAtom(a)
	if p.prev != -1 {
		order, arom, dir, any := p.takePendingBond()
		if !arom && order == BondSingle && dir == DirNone && !any {
			// An unadorned bond between two aromatic atoms is aromatic.
			if p.mol.Atoms[p.prev].Aromatic && a.Aromatic {
				arom = true
			}
		}
		if any {
			order = anyBondOrder
		}
		p.mol.AddBond(Bond{From: p.prev, To: idx, Order: order, Aromatic: arom, Dir: dir})
	} else {
		p.takePendingBond()
	}
	p.prev = idx
}

func (p *smilesParser) closeRing(n int) error {
	if p.prev == -1 {
		return fmt.Errorf("ring bond digit before any atom")
	}
	order, arom, dir, any := p.takePendingBond()
	open, exists := p.ringBonds[n]
	if !exists {
		p.ringBonds[n] = ringBondRef{atom: p.prev, order: order, arom: arom, dir: dir, any: any}
		return nil
	}
	delete(p.ringBonds, n)
	if open.atom == p.prev {
		return fmt.Errorf("ring bond %d closes on its own atom", n)
	}
	// Either occurrence may carry the bond symbol; they must agree when both do.
	if open.order != BondSingle || open.arom || open.any {
		order, arom, any = open.order, open.arom, open.any
	}
	if dir == DirNone {
		dir = open.dir
	}
	if !arom && order == BondSingle && !any &&
		p.mol.Atoms[open.atom].Aromatic && p.mol.Atoms[p.prev].Aromatic {
		arom = true
	}
	if any {
		order = anyBondOrder
	}
	p.mol.AddBond(Bond{From: open.atom, To: p.prev, Order: order, Aromatic: arom, Dir: dir})
	return nil
}

// parseOrganicAtom reads a bare (non-bracket) atom: the organic subset, its
// aromatic lowercase forms, or the "*" wildcard.
func parseOrganicAtom(s string, mode parseMode) (Atom, int, error) {
	if s[0] == '*' {
		return Atom{AtomicNum: 0, Symbol: "*"}, 1, nil
	}
	// Two-letter symbols first.
	if len(s) >= 2 {
		two := s[:2]
		if two == "Cl" || two == "Br" {
			return Atom{AtomicNum: atomicNumbers[two], Symbol: two}, 2, nil
		}
	}
	c := s[:1]
	if organicSubset[c] {
		return Atom{AtomicNum: atomicNumbers[c], Symbol: c}, 1, nil
	}
	if upper, ok := aromaticSymbols[c]; ok {
		return Atom{AtomicNum: atomicNumbers[upper], Symbol: upper, Aromatic: true}, 1, nil
	}
	return Atom{}, 0, fmt.Errorf("unexpected character %q", c)
}

// parseBracketAtom reads a bracket expression starting at s[0] == '['.
// Supported fields, in order: isotope, symbol (any known element, aromatic
// lowercase, or "*"), chirality (@ / @@), hydrogen count, charge, atom map.
func parseBracketAtom(s string, mode parseMode) (Atom, int, error) {
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return Atom{}, 0, fmt.Errorf("unterminated bracket atom")
	}
	body := s[1:end]
	if body == "" {
		return Atom{}, 0, fmt.Errorf("empty bracket atom")
	}
	a := Atom{HasExplicitH: true}
	i := 0

	for i < len(body) && isDigit(body[i]) {
		a.Isotope = a.Isotope*10 + int(body[i]-'0')
		i++
	}

	switch {
	case i < len(body) && body[i] == '*':
		a.AtomicNum = 0
		a.Symbol = "*"
		i++
	case i+1 < len(body) && body[i] >= 'A' && body[i] <= 'Z' && body[i+1] >= 'a' && body[i+1] <= 'z' &&
		atomicNumbers[body[i:i+2]] != 0:
		a.Symbol = body[i : i+2]
		a.AtomicNum = atomicNumbers[a.Symbol]
		i += 2
	case i < len(body) && body[i] >= 'A' && body[i] <= 'Z':
		a.Symbol = body[i : i+1]
		num, ok := atomicNumbers[a.Symbol]
		if !ok {
			return Atom{}, 0, fmt.Errorf("unknown element %q", a.Symbol)
		}
		a.AtomicNum = num
		i++
	case i+1 < len(body) && (body[i:i+2] == "se" || body[i:i+2] == "as"):
		a.Symbol = aromaticSymbols[body[i:i+2]]
		a.AtomicNum = atomicNumbers[a.Symbol]
		a.Aromatic = true
		i += 2
	case i < len(body):
		sym, ok := aromaticSymbols[body[i:i+1]]
		if !ok {
			return Atom{}, 0, fmt.Errorf("unknown element %q in bracket", body[i:i+1])
		}
		a.Symbol = sym
		a.AtomicNum = atomicNumbers[sym]
		a.Aromatic = true
		i++
	default:
		return Atom{}, 0, fmt.Errorf("bracket atom missing element symbol")
	}

	if i < len(body) && body[i] == '@' {
		a.Chirality = ChiralCCW
		i++
		if i < len(body) && body[i] == '@' {
			a.Chirality = ChiralCW
			i++
		}
	}

	hSeen := false
	if i < len(body) && body[i] == 'H' {
		hSeen = true
		a.ExplicitH = 1
		i++
		for i < len(body) && isDigit(body[i]) {
			if a.ExplicitH == 1 {
				a.ExplicitH = 0
			}
			a.ExplicitH = a.ExplicitH*10 + int(body[i]-'0')
			i++
		}
	}

	for i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		i++
		if i < len(body) && isDigit(body[i]) {
			n := 0
			for i < len(body) && isDigit(body[i]) {
				n = n*10 + int(body[i]-'0')
				i++
			}
			a.Charge += sign * n
		} else {
			a.Charge += sign
		}
	}

	if i < len(body) && body[i] == ':' {
		i++
		if i >= len(body) || !isDigit(body[i]) {
			return Atom{}, 0, fmt.Errorf("malformed atom map in bracket")
		}
		for i < len(body) && isDigit(body[i]) {
			a.MapNum = a.MapNum*10 + int(body[i]-'0')
			i++
		}
	}

	if i != len(body) {
		return Atom{}, 0, fmt.Errorf("unexpected %q in bracket atom", body[i:])
	}
	// In a molecule, a bracket atom pins its hydrogen count ([C] is a bare
	// carbon).  In a query, hydrogens only constrain when written, so [C:1]
	// matches a carbon with any hydrogen count.
	if mode == modeQuery && !hSeen {
		a.HasExplicitH = false
		a.ExplicitH = 0
	}
	return a, end + 1, nil
}

// sanitize enforces the structural rules that distinguish a chemically
// meaningful graph from a merely well-formed string: no over-valent
// organic-subset atoms and no acyclic aromatic atoms.
func sanitize(m *Mol) error {
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.HasExplicitH {
			continue
		}
		valences, ok := defaultValences[a.AtomicNum]
		if !ok {
			continue
		}
		max := valences[len(valences)-1] + chargeValenceShift(a.AtomicNum, a.Charge)
		if m.bondOrderSum(i) > max {
			return fmt.Errorf("valence of %s atom %d exceeds %d", a.Symbol, i, max)
		}
	}
	for i := range m.Atoms {
		if m.Atoms[i].Aromatic && !m.InRing(i) {
			return fmt.Errorf("aromatic atom %d is not in a ring", i)
		}
	}
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
