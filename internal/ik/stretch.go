package ik

import (
	"math"

	"github.com/roach88/simpleik/internal/vecmath"
)

// stretchScale returns the factor applied to both rest lengths.
// Targets inside reach never stretch; beyond reach the factor blends from 1
// to distance/reach by strength.
func stretchScale(distance, reach, strength float64) float64 {
	if distance <= reach {
		return 1
	}
	return vecmath.Lerp(1, distance/reach, strength)
}

// softenEdge eases the effective target distance as it approaches full
// reach, so the chain never snaps straight. The soft zone is the last dsoft
// units of the chain length.
func softenEdge(hard, chainLength, dsoft float64) float64 {
	if dsoft <= 0 {
		return hard
	}
	da := chainLength - dsoft
	if hard > da && da > 0 {
		return da + dsoft*(1-math.Exp((da-hard)/dsoft))
	}
	return hard
}
