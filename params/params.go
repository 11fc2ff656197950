// Package params holds the per-lifetime constant records for the
// generalized XMSS scheme. A single runtime record is passed by
// reference everywhere instead of branching on an enum or dispatching
// through a hash-family interface (the scheme only ever targets one
// hash family: Poseidon2 over KoalaBear).
package params

import "fmt"

// LifetimeParams names every constant that changes across the three
// defined lifetime profiles (L8, L18, L32).
type LifetimeParams struct {
	Name string

	LogLifetime int // log2 of the number of epochs
	Dim         int // number of hash chains / hypercube dimension
	Base        int // chain length (w)
	FinalLayer  int // max admissible per-message digit sum
	TargetSum   int // required chunk sum

	ParamLen int // public parameter length, in field elements
	TweakFE  int // tweak decomposition length, in field elements
	MsgFE    int // message length, in field elements
	RandFE   int // signing randomness length, in field elements
	HashFE   int // domain element length, in field elements
	Capacity int // sponge capacity, in field elements
}

// Rate is the Poseidon2-24 sponge rate implied by Capacity (rate+capacity=24).
func (p *LifetimeParams) Rate() int { return 24 - p.Capacity }

// Lifetime returns 2^LogLifetime, the number of epochs this profile spans.
func (p *LifetimeParams) Lifetime() uint64 { return uint64(1) << uint(p.LogLifetime) }

// BottomTreeLeaves returns L = 2^(LogLifetime/2), the number of leaves
// held by a single bottom tree.
func (p *LifetimeParams) BottomTreeLeaves() int {
	return 1 << uint(p.LogLifetime/2)
}

// Validate checks the Data Model invariants from the specification.
func (p *LifetimeParams) Validate() error {
	if p.Dim*(p.Base-1) < p.TargetSum {
		return fmt.Errorf("params %s: dim*(base-1)=%d < target_sum=%d", p.Name, p.Dim*(p.Base-1), p.TargetSum)
	}
	if p.Capacity+p.Rate() != 24 {
		return fmt.Errorf("params %s: capacity+rate != 24", p.Name)
	}
	if p.Rate() != 15 {
		return fmt.Errorf("params %s: rate must be 15, got %d", p.Name, p.Rate())
	}
	if p.LogLifetime%2 != 0 {
		return fmt.Errorf("params %s: log_lifetime must be even for the bottom/top split, got %d", p.Name, p.LogLifetime)
	}
	if p.HashFE > 8 {
		return fmt.Errorf("params %s: hash_fe=%d exceeds the 8-wide domain storage", p.Name, p.HashFE)
	}
	return nil
}

// L8 is the short-lived (2^8 epoch) profile.
var L8 = &LifetimeParams{
	Name: "L8", LogLifetime: 8, Dim: 64, Base: 8, FinalLayer: 77, TargetSum: 375,
	ParamLen: 5, TweakFE: 2, MsgFE: 9, RandFE: 7, HashFE: 8, Capacity: 9,
}

// L18 is the medium-lifetime (2^18 epoch) profile.
var L18 = &LifetimeParams{
	Name: "L18", LogLifetime: 18, Dim: 64, Base: 8, FinalLayer: 77, TargetSum: 375,
	ParamLen: 5, TweakFE: 2, MsgFE: 9, RandFE: 6, HashFE: 7, Capacity: 9,
}

// L32 is the long-lived (2^32 epoch) profile.
var L32 = &LifetimeParams{
	Name: "L32", LogLifetime: 32, Dim: 64, Base: 8, FinalLayer: 77, TargetSum: 375,
	ParamLen: 5, TweakFE: 2, MsgFE: 9, RandFE: 7, HashFE: 8, Capacity: 9,
}

// All lists every defined profile, for iteration in tests and tooling.
var All = []*LifetimeParams{L8, L18, L32}

// ByName looks up a profile by its short name ("L8", "L18", "L32").
func ByName(name string) (*LifetimeParams, bool) {
	for _, p := range All {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}
