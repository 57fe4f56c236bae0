// Package ir provides the value model shared by every hook package.
//
// ir imports nothing internal. It holds:
//   - sealed dynamic values (IRString, IRInt, IRBool, IRArray, IRObject)
//     used at the boundaries where arguments arrive untyped (CLI JSON,
//     scenario YAML)
//   - canonical JSON and content-addressed IDs for persisted records
//   - the Run and Call record types
//   - the error taxonomy (Error and its codes)
//
// Numbers are always int64. Floats are rejected so that canonical
// serialization, hashing and arithmetic stay deterministic.
package ir
