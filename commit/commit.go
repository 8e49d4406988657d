// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package commit provides Pedersen vector commitments on the Banderwagon
// curve, used as an alternative node function for the memory commitment
// tree.
package commit

import (
	"github.com/crate-crypto/go-ipa/banderwagon"
	"github.com/crate-crypto/go-ipa/ipa"
)

// VectorSize is the size of the vector the commitment is made to.
const VectorSize = 256

// Commitment is a commitment to a vector of VectorSize values: a point on
// the Banderwagon curve under the Pedersen commitment scheme.
type Commitment struct {
	point banderwagon.Element
}

// Identity returns the commitment to a vector of zero values, the point at
// infinity on the Banderwagon curve.
func Identity() Commitment {
	return Commitment{point: banderwagon.Identity}
}

// Commit creates a new commitment to a vector of values.
func Commit(values [VectorSize]Value) Commitment {
	elements := make([]banderwagon.Fr, VectorSize)
	for i, value := range values {
		elements[i] = value.scalar
	}
	return Commitment{point: ipaConfig.Commit(elements)}
}

// IsValid checks that the commitment is a point on the curve. Not all
// instances of Commitment are valid; instances obtained from untrusted
// sources should be checked.
func (p Commitment) IsValid() bool {
	return p.point.IsOnCurve()
}

// Equal checks if two commitments are equal, by point equality on the
// Banderwagon curve.
func (p Commitment) Equal(other Commitment) bool {
	return p.point.Equal(&other.point)
}

// Add accumulates another commitment into this one, using the additive
// homomorphism of the Pedersen commitment:
//
//	Commit(A+B) = Commit(A) + Commit(B)
func (p *Commitment) Add(other Commitment) {
	p.point.Add(&p.point, &other.point)
}

// ToValue converts the commitment to a scalar field value that can be used
// recursively in other commitments.
func (p Commitment) ToValue() Value {
	var res banderwagon.Fr
	p.point.MapToScalarField(&res)
	return Value{scalar: res}
}

// Compress returns the compressed 32-byte representation of the commitment,
// usable as a unique digest of the committed vector.
func (p Commitment) Compress() [32]byte {
	return p.point.Bytes()
}

// The configuration for the Inner Product Argument (IPA) library used to
// create commitments. It contains the generator points and curve parameters
// of the Banderwagon curve.
var ipaConfig = func() *ipa.IPAConfig {
	conf, _ := ipa.NewIPASettings()
	return conf
}()
