// Package types holds the small set of types shared by every assockit
// layer: typed errors with stable categories, registry value kinds and the
// edit operations produced by the .reg codec.
//
// Design goals:
//   - Callers branch on error categories, never on message text.
//   - Store-native failures stay reachable through errors.Is/As after being
//     wrapped by higher layers.
//
// This package has no dependencies beyond the standard library.
package types
