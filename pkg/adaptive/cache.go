package adaptive

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/chazu/trusspath/pkg/geom"
)

// Fingerprint condenses a full Inputs value. Equality is exact: it is
// computed over the raw bit patterns of every float, so any numeric or
// geometric difference, however small, yields a different fingerprint.
type Fingerprint uint64

// FingerprintOf computes the fingerprint of the normalized inputs.
func FingerprintOf(in Inputs) Fingerprint {
	in = in.Normalized()

	h := fnv.New64a()
	buf := make([]byte, 8)

	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		h.Write(buf)
	}
	writeProfile := func(p geom.Profile) {
		binary.LittleEndian.PutUint64(buf, uint64(len(p.Points)))
		h.Write(buf)
		for _, pt := range p.Points {
			writeFloat(pt.X)
			writeFloat(pt.Y)
		}
	}

	writeFloat(in.ToolDiameter)
	writeFloat(in.Tolerance)
	writeProfile(in.Feature)
	writeProfile(in.Stock)
	writeFloat(in.StepOver)
	writeFloat(in.HelixDiameter)
	binary.LittleEndian.PutUint64(buf, uint64(in.Operation))
	h.Write(buf)
	if in.ForceInsideOut {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	writeFloat(in.KeepToolDown)
	writeFloat(in.StockToLeave)

	return Fingerprint(h.Sum64())
}

// Cache holds at most one clearing result per feature, keyed by the
// fingerprint of the inputs that produced it. A feature owns its cache
// exclusively; the zero value is ready to use.
type Cache struct {
	fingerprint Fingerprint
	regions     []Region
	valid       bool
}

// Valid reports whether the cache currently holds a result.
func (c *Cache) Valid() bool {
	return c.valid
}

// Invalidate discards the stored result.
func (c *Cache) Invalidate() {
	c.regions = nil
	c.valid = false
}

// Result returns the clearing result for the given inputs. If the
// fingerprint matches the stored entry the stored result is returned
// without invoking the engine. Otherwise the engine is invoked, and only
// a successful run replaces the stored entry; a failed or cancelled run
// leaves the previous entry untouched so a later recompute can retry
// without losing the last good result.
func (c *Cache) Result(ctx context.Context, eng Engine, in Inputs, progress Progress) ([]Region, error) {
	fp := FingerprintOf(in)
	if c.valid && fp == c.fingerprint {
		return c.regions, nil
	}

	in = in.Normalized()
	stock := [][]geom.Vec2{in.Stock.Closed()}
	feature := [][]geom.Vec2{in.Feature.Closed()}

	regions, err := eng.Execute(ctx, stock, feature, in, progress)
	if err != nil {
		return nil, fmt.Errorf("adaptive clearing: %w", err)
	}

	c.fingerprint = fp
	c.regions = regions
	c.valid = true
	return regions, nil
}
