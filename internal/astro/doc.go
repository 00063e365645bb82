// Package astro maps ephemeris observations into display space.
//
// It holds the observation model shared by the fetch, state and scene
// layers, the RA/Dec/distance projection used to place bodies in the 3-D
// scene, and the static per-body display attributes.
package astro
