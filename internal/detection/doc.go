// Package detection finds a two-part vision target in a single image.
//
// A target is made of two reflective strips tilted towards each other, seen
// by the camera as two tall, slightly rotated blobs of one color. Detection
// runs as a fixed pipeline:
//
//  1. Thresholding: convert each pixel to HSV and keep those inside a
//     configured range, giving a 0/255 mask (ThresholdHSV, PrepareMask).
//  2. Shape extraction: trace contours in the mask, drop those whose area is
//     outside a band derived from the frame size, and fit a normalized
//     oriented box to each survivor (Extractor).
//  3. Pairing: score every ordered pair of boxes and keep the lowest
//     (PairScorer).
//
// # Oriented Boxes
//
// An OrientedBox is always "tall": Size.Height >= Size.Width. Angle is the
// tilt of the long axis from vertical in degrees. In image coordinates
// (Y down) a positive angle means the top of the box leans right.
//
// # Pair Scoring
//
// Scores are sums of squared penalties, so lower is better and 0 is a
// perfect match. Pairs are ordered: the first box is taken as the left strip
// and the second as the right strip, so Score(a, b) and Score(b, a) differ.
//
// The scoring constants (target tilt 14.5°, tilt scale 15, width ratio 0.2)
// and the area divisors (2500, 100) were tuned by hand against sample
// frames. They are configuration, not derived values.
//
// # Aim Reference
//
// The aim term compares the pair's mean X against half the frame height,
// not half the width. That is how the detector was tuned and is kept as the
// default; set PairConfig.AimAxis to AimAxisWidth to compare against the
// horizontal centre instead.
package detection
