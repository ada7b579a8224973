// Package phylo prepares treetime's tree-side inputs and reads back its
// regression output: scaling Newick branch lengths from substitutions to
// substitutions per site, and picking the oldest internal node out of
// the root-to-tip CSV.
//
// The rerooting mathematics itself belongs to treetime and matUtils;
// nothing here touches tree topology.
package phylo
