// Package models defines the core domain types for splitbill.
//
// # Current Models
//
//   - LineItem: one priced, quantified entry extracted from a bill image
//   - ShareMatrix: per-item, per-participant fractional ownership grid
//   - SplitMode: even vs proportional division of the bill
//
// Participants are identified by display name strings; there are no user
// accounts. Nothing in this package is persisted: a bill's items and
// participants live inside the signed workflow token exchanged with the
// browser and are discarded once the result page has been rendered.
//
// # Design Principles
//
//  1. **Value semantics**: items and participant lists are carried by
//     value and never mutated after extraction
//  2. **Permissive shares**: share rows are not normalized; the grid
//     reflects exactly what the user typed
//  3. **Name-keyed totals**: duplicate participant names silently merge
//     into a single totals row rather than erroring
package models
