// Package regtext reads and writes regedit's .reg text format against a
// store.Store.
//
// Parse turns .reg text into types.EditOp values with key paths relative to
// the classes root, Apply replays them on a store and Export walks store
// subtrees back into .reg text. Together they give the CLI an offline
// snapshot backend and let users review what a registration writes.
package regtext
