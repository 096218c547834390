package policyopa

import "github.com/open-policy-agent/opa/ast"

// Risk policies must be deterministic and offline. Removing these from the
// capabilities makes a bundle that uses them fail at compile time instead
// of at evaluation time.
var forbiddenBuiltins = map[string]struct{}{
	"http.send":            {},
	"io.jwt.decode_verify": {},
	"net.lookup_ip_addr":   {},
	"opa.runtime":          {},
	"rand.intn":            {},
	"time.now_ns":          {},
	"uuid.rfc4122":         {},
}

func filterBuiltins(builtins []*ast.Builtin) []*ast.Builtin {
	allowed := make([]*ast.Builtin, 0, len(builtins))
	for _, builtin := range builtins {
		if _, ok := forbiddenBuiltins[builtin.Name]; ok {
			continue
		}
		allowed = append(allowed, builtin)
	}
	return allowed
}
