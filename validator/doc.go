// Package validator checks an atlas for authoring completeness: every
// enabled tile should have at least one rule on each side, and the
// rule weights on a given side should sum to 100. It also offers a
// reachability diagnostic that flags tiles a solve starting from a
// given variant could never place.
package validator
