// Package performance tracks a session's recent problem attempts and derives
// the rolling metrics the difficulty engine consumes.
package performance
