package chem

import (
	"fmt"
	"sort"
	"strings"
)

// Reaction is a parsed reaction transform: reactant templates matched as
// substructure queries and product templates applied constructively.  Atom
// map numbers tie reactant atoms to their product counterparts.
type Reaction struct {
	Reactants []*QueryMol
	Products  []*Mol
}

// ParseReaction parses "reactants>>products" notation.  Each side may hold
// several dot-separated templates.  Agents (the middle field of three-part
// notation) are accepted and ignored.
func ParseReaction(s string) (*Reaction, error) {
	s = strings.TrimSpace(s)
	var left, right string
	if idx := strings.Index(s, ">>"); idx >= 0 {
		left, right = s[:idx], s[idx+2:]
	} else {
		parts := strings.Split(s, ">")
		if len(parts) != 3 {
			return nil, fmt.Errorf("reaction must contain '>>' separator")
		}
		left, right = parts[0], parts[2]
	}
	if left == "" || right == "" {
		return nil, fmt.Errorf("reaction is missing a reactant or product side")
	}

	rxn := &Reaction{}
	for _, part := range strings.Split(left, ".") {
		q, err := ParsePattern(part)
		if err != nil {
			return nil, fmt.Errorf("reactant template %q: %w", part, err)
		}
		rxn.Reactants = append(rxn.Reactants, q)
	}
	for _, part := range strings.Split(right, ".") {
		p, err := parse(part, modeQuery)
		if err != nil {
			return nil, fmt.Errorf("product template %q: %w", part, err)
		}
		rxn.Products = append(rxn.Products, p)
	}
	return rxn, nil
}

// NumReactantTemplates returns the arity of the reaction.
func (r *Reaction) NumReactantTemplates() int { return len(r.Reactants) }

// productMapNums collects the atom map numbers present on the product side.
func (r *Reaction) productMapNums() map[int]bool {
	out := map[int]bool{}
	for _, p := range r.Products {
		for i := range p.Atoms {
			if p.Atoms[i].MapNum > 0 {
				out[p.Atoms[i].MapNum] = true
			}
		}
	}
	return out
}

// Run applies the reaction to one set of reactant molecules, returning every
// product set (one per combination of template matches).  Each product set
// lists the canonical SMILES of the resulting fragments, sorted.  A reactant
// count differing from the template arity yields no product sets.
func (r *Reaction) Run(reactants []*Mol) [][]string {
	if len(reactants) != len(r.Reactants) {
		return nil
	}

	// Match each template independently.
	matchesPer := make([][][]int, len(r.Reactants))
	for i, tmpl := range r.Reactants {
		matchesPer[i] = SubstructMatches(reactants[i], tmpl)
		if len(matchesPer[i]) == 0 {
			return nil
		}
	}

	var out [][]string
	combo := make([]int, len(matchesPer))
	for {
		picked := make([][]int, len(combo))
		for i, c := range combo {
			picked[i] = matchesPer[i][c]
		}
		if products, ok := r.applyOnce(reactants, picked); ok {
			out = append(out, products)
		}
		// Advance the combination counter.
		i := len(combo) - 1
		for ; i >= 0; i-- {
			combo[i]++
			if combo[i] < len(matchesPer[i]) {
				break
			}
			combo[i] = 0
		}
		if i < 0 {
			break
		}
	}
	return out
}

// applyOnce builds the product graph for one combination of matches.
func (r *Reaction) applyOnce(reactants []*Mol, matches [][]int) ([]string, bool) {
	// Combined working graph over all reactants, with per-reactant offsets.
	work := NewMol()
	offsets := make([]int, len(reactants))
	for i, mol := range reactants {
		offsets[i] = work.NumAtoms()
		for _, a := range mol.Atoms {
			work.AddAtom(a)
		}
		for _, b := range mol.Bonds {
			work.AddBond(Bond{
				From: b.From + offsets[i], To: b.To + offsets[i],
				Order: b.Order, Aromatic: b.Aromatic, Dir: b.Dir,
			})
		}
	}

	prodMaps := r.productMapNums()

	// workAtomByMapNum locates the matched target atom for each mapped
	// template atom; doomed collects matched atoms that do not survive.
	workAtomByMapNum := map[int]int{}
	doomed := map[int]bool{}
	for i, tmpl := range r.Reactants {
		tm := tmpl.Mol()
		for qi := range tm.Atoms {
			workIdx := matches[i][qi] + offsets[i]
			mapNum := tm.Atoms[qi].MapNum
			if mapNum > 0 && prodMaps[mapNum] {
				workAtomByMapNum[mapNum] = workIdx
			} else {
				// Matched but not carried to the product side: deleted.
				doomed[workIdx] = true
			}
		}
		// Break every template bond between two mapped survivors; the
		// product side re-adds the bonds it keeps.
		for _, qb := range tm.Bonds {
			wf := matches[i][qb.From] + offsets[i]
			wt := matches[i][qb.To] + offsets[i]
			if doomed[wf] || doomed[wt] {
				continue
			}
			if wbi := work.BondBetween(wf, wt); wbi != -1 {
				work.RemoveBond(wbi)
			}
		}
	}

	// Apply product-side atom edits and additions.
	for _, pt := range r.Products {
		newAtomIdx := make([]int, len(pt.Atoms))
		for pi := range pt.Atoms {
			pa := pt.Atoms[pi]
			if pa.MapNum > 0 {
				if wi, ok := workAtomByMapNum[pa.MapNum]; ok {
					newAtomIdx[pi] = wi
					// The template overrides charge and pinned H counts;
					// element and aromaticity follow the template when it
					// is specific (non-wildcard).
					wa := &work.Atoms[wi]
					wa.Charge = pa.Charge
					if pa.HasExplicitH {
						wa.HasExplicitH = true
						wa.ExplicitH = pa.ExplicitH
					}
					if pa.AtomicNum != 0 && pa.AtomicNum != wa.AtomicNum {
						wa.AtomicNum = pa.AtomicNum
						wa.Symbol = pa.Symbol
						wa.Aromatic = pa.Aromatic
					}
					continue
				}
			}
			// Unmapped or unmatched product atom: created fresh.
			created := pa
			created.MapNum = 0
			newAtomIdx[pi] = work.AddAtom(created)
		}
		for _, pb := range pt.Bonds {
			wf, wt := newAtomIdx[pb.From], newAtomIdx[pb.To]
			order := pb.Order
			if order == anyBondOrder {
				order = BondSingle
			}
			if wbi := work.BondBetween(wf, wt); wbi != -1 {
				work.RemoveBond(wbi)
			}
			work.AddBond(Bond{From: wf, To: wt, Order: order, Aromatic: pb.Aromatic})
		}
	}

	// Drop doomed atoms (and their bonds) by extracting the survivors.
	var survivors []int
	for i := 0; i < work.NumAtoms(); i++ {
		if !doomed[i] {
			survivors = append(survivors, i)
		}
	}
	if len(survivors) == 0 {
		return nil, false
	}
	final := work.ExtractComponent(survivors)
	for i := range final.Atoms {
		final.Atoms[i].MapNum = 0
	}
	if err := sanitize(final); err != nil {
		return nil, false
	}

	var products []string
	for _, comp := range final.Components() {
		products = append(products, WriteCanonical(final.ExtractComponent(comp)))
	}
	sort.Strings(products)
	return products, true
}
