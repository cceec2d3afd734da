package analysis

import (
	"fmt"

	"github.com/matzehuels/antnest/pkg/nest"
)

// Class is a coarse difficulty rating.
type Class string

const (
	ClassVerySimple  Class = "Very simple"
	ClassSimple      Class = "Simple"
	ClassModerate    Class = "Moderate"
	ClassComplex     Class = "Complex"
	ClassVeryComplex Class = "Very complex"
)

// Complexity rates how hard a nest is to clear.
type Complexity struct {
	Score   float64  `json:"score" yaml:"score"`
	Class   Class    `json:"class" yaml:"class"`
	Density float64  `json:"density" yaml:"density"` // ants per unit of room capacity
	Reasons []string `json:"reasons" yaml:"reasons"`
}

// Assess scores n from 0 to 90 using its analysis a and the number of steps
// a run took:
//
//	min(40, 10*density) + min(30, 5*bottleneck tunnels) + min(20, 2*rooms)
//
// minus min(15, 3*(paths-1)) when there is more than one path. A direct
// source-sink tunnel is always rated very simple.
func Assess(n *nest.Nest, a Analysis, steps int) Complexity {
	density := float64(n.Agents()) / float64(max(1, n.TotalCapacity()))
	bottlenecks := len(a.BottleneckEdges)

	score := min(40, density*10) +
		min(30, float64(bottlenecks*5)) +
		min(20, float64(len(n.Rooms())*2))
	if a.ParallelPaths > 1 {
		score = max(0, score-min(15, float64((a.ParallelPaths-1)*3)))
	}
	c := Complexity{Score: score, Density: density}

	if a.HasDirectPath {
		c.Class = ClassVerySimple
		c.Reasons = append(c.Reasons, fmt.Sprintf("direct %s-%s tunnel", n.Source(), n.Sink()))
		if steps == 1 {
			c.Reasons = append(c.Reasons, "1 step")
		}
		return c
	}
	c.Class = classify(score)

	switch {
	case bottlenecks == 0:
		c.Reasons = append(c.Reasons, "no bottleneck")
	default:
		c.Reasons = append(c.Reasons, plural(bottlenecks, "bottleneck"))
	}
	switch {
	case a.ParallelPaths > 5:
		c.Reasons = append(c.Reasons, fmt.Sprintf("%d parallel paths", a.ParallelPaths))
	case a.ParallelPaths > 1:
		c.Reasons = append(c.Reasons, fmt.Sprintf("%d paths", a.ParallelPaths))
	}
	switch {
	case density > 3:
		c.Reasons = append(c.Reasons, fmt.Sprintf("high ant/capacity ratio (%.1f)", density))
	case density < 1.5:
		c.Reasons = append(c.Reasons, fmt.Sprintf("ample capacity (%.1f)", density))
	}
	if steps <= 2 || steps > 30 {
		c.Reasons = append(c.Reasons, plural(steps, "step"))
	}
	return c
}

func classify(score float64) Class {
	switch {
	case score <= 15:
		return ClassVerySimple
	case score <= 30:
		return ClassSimple
	case score <= 50:
		return ClassModerate
	case score <= 70:
		return ClassComplex
	default:
		return ClassVeryComplex
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
