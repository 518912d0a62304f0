package policyopa

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
)

const (
	defaultQuery = "data.casting.authz.result"

	codePermissionsMissing = "permissions_missing"
	codePermissionNotFound = "permission_not_found"
)

//go:embed policy/authz.rego
var embeddedPolicy embed.FS

// Engine is a rego-backed domain.PermissionEnforcer.
type Engine struct {
	query      rego.PreparedEvalQuery
	bundleHash string
}

var _ domain.PermissionEnforcer = (*Engine)(nil)

type policyResult struct {
	Allow bool
	Code  string
}

// NewEngine prepares the built-in permission policy.
func NewEngine(ctx context.Context) (*Engine, error) {
	src, err := embeddedPolicy.ReadFile("policy/authz.rego")
	if err != nil {
		return nil, err
	}
	hash, err := ComputeBundleHashFromFS(embeddedPolicy, "policy")
	if err != nil {
		return nil, err
	}
	return newEngine(ctx, hash, rego.Module("authz.rego", string(src)))
}

// NewEngineFromBundlePath prepares a policy bundle directory that defines
// data.casting.authz.result.
func NewEngineFromBundlePath(ctx context.Context, bundlePath string) (*Engine, error) {
	hash, err := ComputeBundleHashFromPath(bundlePath)
	if err != nil {
		return nil, err
	}
	return newEngine(ctx, hash, rego.Load([]string{bundlePath}, nil))
}

func newEngine(ctx context.Context, bundleHash string, source func(*rego.Rego)) (*Engine, error) {
	capabilities := ast.CapabilitiesForThisVersion()
	capabilities.Builtins = filterBuiltins(capabilities.Builtins)
	compiler := ast.NewCompiler().WithCapabilities(capabilities)

	r := rego.New(
		rego.Query(defaultQuery),
		rego.Compiler(compiler),
		rego.StrictBuiltinErrors(true),
		source,
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare policy: %w", err)
	}
	if err := assertNoForbiddenBuiltins(compiler); err != nil {
		return nil, err
	}
	return &Engine{query: prepared, bundleHash: bundleHash}, nil
}

func (e *Engine) BundleHash() string {
	return e.bundleHash
}

func (e *Engine) Require(ctx context.Context, token domain.Token, required domain.PermissionSet) error {
	if required.Empty() {
		return nil
	}
	result, err := e.evaluate(ctx, token, required)
	if err != nil {
		// An unevaluable policy denies.
		denied := domain.ErrPermissionDenied()
		denied.Err = err
		return denied
	}
	if result.Allow {
		return nil
	}
	if result.Code == codePermissionsMissing {
		return domain.ErrPermissionsMissing()
	}
	return domain.ErrPermissionDenied()
}

func (e *Engine) evaluate(ctx context.Context, token domain.Token, required domain.PermissionSet) (policyResult, error) {
	if e == nil {
		return policyResult{}, errors.New("policy engine is nil")
	}
	granted := token.Permissions
	if granted == nil {
		granted = []string{}
	}
	input := map[string]any{
		"subject":         token.Subject,
		"has_permissions": token.HasPermissions,
		"permissions":     toAny(granted),
		"required":        toAny(required),
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return policyResult{}, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return policyResult{}, errors.New("empty policy result")
	}
	return decodePolicyResult(results[0].Expressions[0].Value)
}

func decodePolicyResult(value any) (policyResult, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return policyResult{}, fmt.Errorf("policy result is %T, want object", value)
	}
	allow, ok := obj["allow"].(bool)
	if !ok {
		return policyResult{}, errors.New("policy result missing allow")
	}
	code, _ := obj["code"].(string)
	if !allow && code == "" {
		code = codePermissionNotFound
	}
	return policyResult{Allow: allow, Code: code}, nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func assertNoForbiddenBuiltins(compiler *ast.Compiler) error {
	if compiler == nil {
		return errors.New("policy compiler is nil")
	}
	forbidden := make(map[string]struct{})
	for _, module := range compiler.Modules {
		ast.WalkTerms(module, func(term *ast.Term) bool {
			call, ok := term.Value.(ast.Call)
			if !ok || len(call) == 0 || call[0] == nil {
				return false
			}
			name := call[0].Value.String()
			if _, ok := ast.BuiltinMap[name]; !ok {
				return false
			}
			if _, ok := allowedBuiltins[name]; ok {
				return false
			}
			forbidden[name] = struct{}{}
			return false
		})
	}
	if len(forbidden) == 0 {
		return nil
	}
	names := make([]string, 0, len(forbidden))
	for name := range forbidden {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Errorf("forbidden builtins: %s", strings.Join(names, ", "))
}
