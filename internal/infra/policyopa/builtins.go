package policyopa

import "github.com/open-policy-agent/opa/ast"

// allowedBuiltins is every builtin a permission policy may call.
var allowedBuiltins = map[string]struct{}{
	"assign":            {},
	"count":             {},
	"eq":                {},
	"equal":             {},
	"neq":               {},
	"gt":                {},
	"gte":               {},
	"lt":                {},
	"lte":               {},
	"internal.member_2": {},
	"internal.member_3": {},
	"lower":             {},
	"upper":             {},
	"startswith":        {},
	"endswith":          {},
	"split":             {},
	"trim":              {},
	"sprintf":           {},
	"object.get":        {},
}

func filterBuiltins(builtins []*ast.Builtin) []*ast.Builtin {
	allowed := make([]*ast.Builtin, 0, len(builtins))
	for _, builtin := range builtins {
		if _, ok := allowedBuiltins[builtin.Name]; !ok {
			continue
		}
		allowed = append(allowed, builtin)
	}
	return allowed
}
