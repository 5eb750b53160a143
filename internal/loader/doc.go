// Package loader turns parsed files into symbol modules and links them
// through their imports.
//
// A module is built in one pass over its top-level statements:
//
//   - declarations (struct, enum, type, static) get fresh symbol IDs;
//   - export additionally publishes the name;
//   - imports bind symbols of other modules under the same IDs;
//   - impl blocks and generic uses are attached to local symbols last,
//     so they may precede the declaration they refer to.
//
// The chain of modules currently being built travels in the context; an
// import of a path already on the chain is a cycle.
package loader
