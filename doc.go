// Package decor provides identity-keyed metadata stores and decoration
// helpers for Go.
//
// The core primitive is a store that associates an arbitrary value with an
// owning object, keyed by reference identity rather than structural equality.
// Keys are held weakly: an association never keeps its key object alive, and
// it is discarded automatically once the key becomes unreachable.
//
// # Quick Start
//
// Typed store (keys are *K):
//
//	store := decor.NewStore[Controller, string]()
//	_ = store.Set(users, "/users")
//	path, ok := store.Get(users) // "/users", true
//	_, ok = store.Get(orders)    // "", false — explicit absence
//
// Dynamic store (any pointer key, rejected kinds fail):
//
//	m := decor.NewMap[string]()
//	_ = m.Set(instance, "required")
//	err := m.Set(42, "nope") // errors.Is(err, decor.ErrInvalidKeyKind)
//
// # Identity Semantics
//
// Two structurally identical but distinct objects hold independent
// associations:
//
//	a, b := &Flag{Name: "x"}, &Flag{Name: "x"}
//	_ = store.Set(a, "required")
//	_ = store.Set(b, "optional")
//	// store.Get(a) == "required", store.Get(b) == "optional"
//
// Lookup of an absent key yields (zero, false), never a default value that
// could be confused with a stored one.
//
// # Reclamation
//
// The store holds weak references to its keys and removes entries shortly
// after their keys are collected. Repeatedly annotating short-lived objects
// therefore does not grow memory without bound, and no explicit cleanup
// call is required. Delete is offered for symmetry.
//
// # Key Features
//
//   - Reference-identity keys (never deep equality)
//   - Weak key semantics via weak.Pointer and runtime.AddCleanup
//   - Explicit absent results, last write wins
//   - Safe for concurrent use (RWMutex-guarded)
//   - Optional structured logging and metrics hooks
//   - Companion packages: registry (type/field annotations), wrap (function
//     decoration), accessor (get/set pairs), param (parameter marks),
//     dump (registry snapshots)
package decor
