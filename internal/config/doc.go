// Package config loads the three configuration surfaces of a
// viral_usher_trees checkout:
//
//   - the per-tree config.toml written by viral_usher, of which only the
//     refseq_acc key matters to this tool (TOML, BurntSushi/toml);
//   - the optional workspace config.yaml naming the trees root and an
//     allowlist of viruses (YAML, yaml.v3);
//   - the optional per-tree taxonium_config.json forwarded to
//     usher_to_taxonium, which users tend to annotate with comments, so
//     it is parsed as JSONC (tidwall/jsonc).
package config
