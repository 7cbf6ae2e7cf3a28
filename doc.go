// Package typemap provides thread-safe heterogeneous containers: store
// values of arbitrary concrete types in one collection and recover them with
// their exact type checked at access time.
//
// The module offers several containers, each with its own addressing scheme
// and locking policy:
//
//   - Map[K]: general-purpose storage under application-chosen keys, with
//     multiple types coexisting under distinct keys (this package)
//   - ValueMap[K, V]: the homogeneous variant; one static value type and
//     fully type-safe methods (this package)
//   - typestore.Store: the type itself is the key; one value per concrete
//     type, a natural service locator
//   - storevalue.Store: type-keyed like typestore but unlocked and cloneable,
//     for single-owner state with snapshot semantics
//   - traitmap.Map[K]: keyed storage whose entries are additionally reachable
//     through a declared capability interface
//
// Every typed access validates the requested type against the identity
// recorded at insertion and fails with ErrTypeMismatch rather than ever
// reinterpreting a value unchecked. The locking containers guard all state
// with a single container-wide lock held for the whole of each operation,
// caller closures included; see the Map documentation for the re-entrancy
// hazard this implies.
package typemap
