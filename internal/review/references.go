package review

// references maps rule IDs to CWE and OWASP Top 10 (2021) identifiers.
// Built-in rules and the common gosec and bandit checks are covered.
var references = map[string][]string{
	"sql-injection":             {"CWE-89", "OWASP-A03:2021"},
	"sql-injection-concat":      {"CWE-89", "OWASP-A03:2021"},
	"sql-injection-fstring":     {"CWE-89", "OWASP-A03:2021"},
	"sql-injection-sprintf":     {"CWE-89", "OWASP-A03:2021"},
	"command-injection":         {"CWE-78", "OWASP-A03:2021"},
	"command-injection-go":      {"CWE-78", "OWASP-A03:2021"},
	"command-injection-python":  {"CWE-78", "OWASP-A03:2021"},
	"eval-usage":                {"CWE-95", "OWASP-A03:2021"},
	"xss-inner-html":            {"CWE-79", "OWASP-A03:2021"},
	"path-traversal":            {"CWE-22", "OWASP-A01:2021"},
	"open-redirect":             {"CWE-601", "OWASP-A01:2021"},
	"cors-wildcard":             {"CWE-942", "OWASP-A05:2021"},
	"hardcoded-secret":          {"CWE-798", "OWASP-A07:2021"},
	"aws-access-key":            {"CWE-798", "OWASP-A07:2021"},
	"github-token":              {"CWE-798", "OWASP-A07:2021"},
	"slack-token":               {"CWE-798", "OWASP-A07:2021"},
	"stripe-live-key":           {"CWE-798", "OWASP-A07:2021"},
	"private-key":               {"CWE-321", "OWASP-A02:2021"},
	"weak-hash":                 {"CWE-328", "OWASP-A02:2021"},
	"insecure-random":           {"CWE-338", "OWASP-A02:2021"},
	"insecure-http-url":         {"CWE-319", "OWASP-A02:2021"},
	"tls-verification-disabled": {"CWE-295", "OWASP-A07:2021"},
	"unsafe-deserialization":    {"CWE-502", "OWASP-A08:2021"},
	"yaml-unsafe-load":          {"CWE-502", "OWASP-A08:2021"},
	"hardcoded-ip":              {"CWE-547"},
	"empty-catch":               {"CWE-390"},
	"python-bare-except":        {"CWE-396"},
	"go-ignored-error":          {"CWE-391"},
	"tx-origin-auth":            {"CWE-477", "SWC-115"},
	"reentrancy":                {"CWE-841", "SWC-107"},
	"delegatecall":              {"CWE-829", "SWC-112"},
	"selfdestruct":              {"CWE-284", "SWC-106"},
	"unchecked-call":            {"CWE-252", "SWC-104"},
	"block-timestamp":           {"CWE-829", "SWC-116"},
	"floating-pragma":           {"CWE-664", "SWC-103"},

	"G101": {"CWE-798", "OWASP-A07:2021"},
	"G104": {"CWE-703"},
	"G201": {"CWE-89", "OWASP-A03:2021"},
	"G202": {"CWE-89", "OWASP-A03:2021"},
	"G204": {"CWE-78", "OWASP-A03:2021"},
	"G304": {"CWE-22", "OWASP-A01:2021"},
	"G401": {"CWE-328", "OWASP-A02:2021"},
	"G402": {"CWE-295", "OWASP-A02:2021"},
	"G404": {"CWE-338", "OWASP-A02:2021"},
	"B105": {"CWE-259", "OWASP-A07:2021"},
	"B106": {"CWE-259", "OWASP-A07:2021"},
	"B301": {"CWE-502", "OWASP-A08:2021"},
	"B303": {"CWE-327", "OWASP-A02:2021"},
	"B506": {"CWE-20", "OWASP-A08:2021"},
	"B602": {"CWE-78", "OWASP-A03:2021"},
	"B608": {"CWE-89", "OWASP-A03:2021"},
}

// References returns the CWE/OWASP identifiers for a rule ID, or nil.
func References(ruleID string) []string {
	refs, ok := references[ruleID]
	if !ok {
		return nil
	}
	return append([]string(nil), refs...)
}
