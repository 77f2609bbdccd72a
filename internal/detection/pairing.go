package detection

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// PairCandidate is an ordered pair of box indices and its score.
type PairCandidate struct {
	Left  int     `json:"left"`  // Index of the box taken as the left strip
	Right int     `json:"right"` // Index of the box taken as the right strip
	Score float64 `json:"score"` // Lower is better; 0 is ideal
}

// AimReference returns the value the aim term centres the pair on.
//
// With AimAxisHeight (the tuned default) this is height/2 even though it is
// compared against X coordinates. AimAxisWidth uses width/2.
func AimReference(width, height int, axis string) float64 {
	if axis == AimAxisWidth {
		return float64(width) / 2
	}
	return float64(height) / 2
}

// PairScorer scores ordered pairs of boxes against the target model.
// midPoint must be positive.
type PairScorer struct {
	cfg      PairConfig
	midPoint float64
}

// NewPairScorer creates a scorer for a frame whose aim reference is midPoint.
func NewPairScorer(cfg PairConfig, midPoint float64) *PairScorer {
	return &PairScorer{cfg: cfg, midPoint: midPoint}
}

// Score rates left and right as the two strips of one target.
//
// The score sums these penalties, with v the vector between the centres:
//   - sine² of v: centres should be level
//   - 1 - cosine of v: right should lie to the right of left
//   - (WidthRatio - mean width / |v|)²: strip width relative to spacing
//   - ((mean X - midPoint) / midPoint)²: pair centred on the aim reference
//   - ((TargetTilt - left.Angle) / TiltScale)²: left leans right
//   - ((TargetTilt + right.Angle) / TiltScale)²: right leans left
//
// Coincident centres give a score of 0.
func (s *PairScorer) Score(left, right OrientedBox) float64 {
	v := r2.Sub(r2.Vec(right.Center), r2.Vec(left.Center))
	length := r2.Norm(v)
	if length == 0 {
		return 0
	}

	score := 0.0

	sine := v.Y / length
	score += sine * sine

	cosine := v.X / length
	score += 1 - cosine

	ratio := s.cfg.WidthRatio - (left.Size.Width+right.Size.Width)/2/length
	score += ratio * ratio

	aim := ((left.Center.X+right.Center.X)/2 - s.midPoint) / s.midPoint
	score += aim * aim

	tiltL := (s.cfg.TargetTilt - left.Angle) / s.cfg.TiltScale
	score += tiltL * tiltL

	tiltR := (s.cfg.TargetTilt + right.Angle) / s.cfg.TiltScale
	score += tiltR * tiltR

	return score
}

// Best returns the ordered pair with the lowest score.
//
// Parameters:
//   - boxes: Candidate strips. Every ordered pair (i, j) with i != j is
//     scored, so each unordered pair is tried both ways round.
//
// Returns:
//   - best: Indices into boxes for the left and right strip, with the score.
//   - ok: False when there are fewer than two boxes; best is then zero.
//
// On ties the pair met first (by left index, then right index) wins.
func (s *PairScorer) Best(boxes []OrientedBox) (best PairCandidate, ok bool) {
	for i := range boxes {
		for j := range boxes {
			if i == j {
				continue
			}
			score := s.Score(boxes[i], boxes[j])
			if !ok || score < best.Score {
				best = PairCandidate{Left: i, Right: j, Score: score}
				ok = true
			}
		}
	}
	return best, ok
}

// Rank scores every ordered pair, N×(N-1) in all, sorted by ascending score.
// Equal scores keep iteration order, so Rank(boxes)[0] matches Best.
func (s *PairScorer) Rank(boxes []OrientedBox) []PairCandidate {
	n := len(boxes)
	if n < 2 {
		return []PairCandidate{}
	}

	pairs := make([]PairCandidate, 0, n*(n-1))
	for i := range boxes {
		for j := range boxes {
			if i == j {
				continue
			}
			pairs = append(pairs, PairCandidate{Left: i, Right: j, Score: s.Score(boxes[i], boxes[j])})
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		return pairs[a].Score < pairs[b].Score
	})
	return pairs
}
