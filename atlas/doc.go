// Package atlas is the authored model of a tile set: base tiles, their
// symmetric variants, and the directed adjacency rules between them.
//
// Atlas owns its base tiles, variants and rules exclusively; mutation
// always goes through a CRUD method so that cascades (removing a base
// tile drops its variants and every rule touching them) and the
// precomputed lookup indices stay consistent. Atlas is safe for
// concurrent use: muMeta guards base_tiles/settings/version, muRules
// guards variants/rules/indices.
package atlas
