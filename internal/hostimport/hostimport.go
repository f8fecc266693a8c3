package hostimport

import "github.com/aidoku-host/aidoku-host/internal/engine"

// Namespaces returns every host-import namespace the guest ABI requires
// (spec §4.4, §6: a plugin module must import every function listed
// under the exact namespace and name), ready to hand to
// engine.Engine.Instantiate.
func Namespaces(st *State) []engine.Namespace {
	return []engine.Namespace{
		EnvNamespace(st),
		StdNamespace(st),
		AidokuNamespace(st),
		NetNamespace(st),
		JSONNamespace(st),
		DefaultsNamespace(st),
	}
}
