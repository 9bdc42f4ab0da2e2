// Package galaxy procedurally synthesizes 3-D galaxy point clouds.
//
// A Params value describes the shape (spiral, sphere or disk), the number of
// points, the radial and color shaping exponents, the color gradient and the
// PRNG seed. Generate maps it to a Cloud of index-aligned positions and
// colors. Generation is a pure function of its parameters: the same Params
// always produce the same Cloud.
//
// # Basic Usage
//
//	p := galaxy.DefaultParams()
//	p.Mode = galaxy.Disk
//	p.Seed = 7
//	cloud, err := galaxy.Generate(p)
//	if err != nil {
//	    return err
//	}
//	positions, colors := cloud.Buffers()
//
// # Determinism
//
// Every generation call constructs its own Mulberry32 stream from Params.Seed,
// so the PRNG state never leaks between calls. GenerateParallel draws the
// whole stream up front and hands each worker its slice of draws, producing
// output identical to Generate.
package galaxy
