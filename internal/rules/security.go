package rules

import (
	"regexp"

	"github.com/dshills/vigil/internal/finding"
)

const bt = "`"

var (
	jsLike  = []string{"js", "jsx", "mjs", "cjs", "ts", "tsx", "mts", "cts", "vue", "svelte"}
	anyLang = []string{AllLanguages}
)

func langs(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var tlsFixRe = regexp.MustCompile(`\b(InsecureSkipVerify\s*:\s*)true\b|\b(rejectUnauthorized\s*:\s*)false\b|\b(verify\s*=\s*)False\b`)

// fixTLSVerification flips the disabling flag back to its safe value.
func fixTLSVerification(line string) (string, bool) {
	out := tlsFixRe.ReplaceAllStringFunc(line, func(m string) string {
		sub := tlsFixRe.FindStringSubmatch(m)
		switch {
		case sub[1] != "":
			return sub[1] + "false"
		case sub[2] != "":
			return sub[2] + "true"
		default:
			return sub[3] + "True"
		}
	})
	return out, out != line
}

var securityRules = []PatternRule{
	{
		ID:          "sql-injection",
		Title:       "SQL query built from template literal interpolation",
		Description: "A SQL statement is assembled with ${...} interpolation and passed straight to a query call. Untrusted values can change the meaning of the statement.",
		Suggestion:  "Use placeholders and pass values as query parameters.",
		Pattern:     regexp.MustCompile(`(?i)\b(?:query|execute|raw|prepare)\s*\(\s*` + bt + `[^` + bt + `]*\b(?:SELECT|INSERT|UPDATE|DELETE|DROP)\b[^` + bt + `]*\$\{`),
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceHigh,
		Languages:   jsLike,
	},
	{
		ID:          "sql-injection-fstring",
		Title:       "SQL query built from an f-string",
		Description: "A formatted string containing SQL is executed directly.",
		Suggestion:  "Pass parameters as the second argument to execute().",
		Pattern:     regexp.MustCompile(`(?i)\.(?:execute|executemany|raw)\s*\(\s*f["'][^"']*\b(?:SELECT|INSERT|UPDATE|DELETE)\b`),
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceHigh,
		Languages:   []string{"py"},
	},
	{
		ID:          "sql-injection-sprintf",
		Title:       "SQL query built with fmt.Sprintf",
		Description: "A SQL statement is formatted with %s or %v verbs before execution.",
		Suggestion:  "Use $1 or ? placeholders and pass arguments to Query/Exec.",
		Pattern:     regexp.MustCompile(`(?i)\bSprintf\(\s*"[^"]*\b(?:SELECT|INSERT|UPDATE|DELETE)\b[^"]*%[sv]`),
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   []string{"go"},
	},
	{
		ID:          "sql-injection-concat",
		Title:       "SQL query built by string concatenation",
		Description: "A SQL string literal is concatenated with a variable.",
		Suggestion:  "Use parameterized queries instead of concatenation.",
		Pattern:     regexp.MustCompile(`(?i)["'](?:SELECT\s.+\sFROM|INSERT\s+INTO|UPDATE\s+\w+\s+SET|DELETE\s+FROM)\b[^"']*["']\s*\+\s*[A-Za-z_$]`),
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   anyLang,
	},
	{
		ID:          "eval-usage",
		Title:       "Dynamic code evaluation",
		Description: "eval() or new Function() executes arbitrary code built at runtime.",
		Suggestion:  "Replace dynamic evaluation with explicit parsing or a lookup table.",
		Pattern:     regexp.MustCompile(`(?:^|[^\w.$])eval\s*\(|\bnew\s+Function\s*\(`),
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   langs(jsLike, []string{"py", "php", "rb"}),
	},
	{
		ID:          "command-injection",
		Title:       "Shell command built from interpolated input",
		Description: "A child process is started with a command string containing interpolated or concatenated values.",
		Suggestion:  "Use execFile/spawn with an argument array and no shell.",
		Pattern:     regexp.MustCompile(`(?:^|[^\w.])(?:exec|execSync|spawn|spawnSync)\s*\(\s*(?:` + bt + `[^` + bt + `]*\$\{|[^,)]*\+\s*[A-Za-z_$])`),
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   jsLike,
		Class:       ClassCommandInjection,
	},
	{
		ID:          "command-injection-python",
		Title:       "Shell command executed through the system shell",
		Description: "os.system, os.popen or subprocess with shell=True passes the command through /bin/sh.",
		Suggestion:  "Call subprocess.run with a list of arguments and shell=False.",
		Pattern:     regexp.MustCompile(`\bos\.(?:system|popen)\s*\(|\bsubprocess\.\w+\([^)]*shell\s*=\s*True`),
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   []string{"py"},
		Class:       ClassCommandInjection,
	},
	{
		ID:          "command-injection-go",
		Title:       "Command executed through a shell",
		Description: "exec.Command runs sh -c with a command string, which enables shell metacharacters.",
		Suggestion:  "Invoke the program directly with separate arguments.",
		Pattern:     regexp.MustCompile(`\bexec\.Command(?:Context)?\([^)]*"(?:sh|bash|/bin/sh|/bin/bash|cmd)"\s*,\s*"(?:-c|/c)"`),
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   []string{"go"},
		Class:       ClassCommandInjection,
	},
	{
		ID:          "hardcoded-secret",
		Title:       "Hardcoded credential",
		Description: "A password, token or API key is assigned a literal value in source.",
		Suggestion:  "Load the value from the environment or a secret manager.",
		Pattern:     regexp.MustCompile(`(?i)\b(?:password|passwd|pwd|secret|api[_-]?key|apikey|access[_-]?token|auth[_-]?token|client[_-]?secret|private[_-]?key)\w*["']?\s*[:=]=?\s*["'][^"'\s]{8,}["']`),
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   anyLang,
		Class:       ClassHardcodedSecret,
	},
	{
		ID:          "aws-access-key",
		Title:       "AWS access key ID",
		Description: "The line contains what looks like an AWS access key ID.",
		Suggestion:  "Revoke the key and load credentials from the environment.",
		Pattern:     regexp.MustCompile(`\b(?:AKIA|ASIA)[0-9A-Z]{16}\b`),
		Severity:    finding.SeverityCritical,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceHigh,
		Languages:   anyLang,
		Class:       ClassSecret,
	},
	{
		ID:          "private-key",
		Title:       "Private key material",
		Description: "A PEM private key block is embedded in the file.",
		Suggestion:  "Remove the key from the repository and rotate it.",
		Pattern:     regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY(?: BLOCK)?-----`),
		Severity:    finding.SeverityCritical,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceHigh,
		Languages:   anyLang,
		Class:       ClassSecret,
	},
	{
		ID:          "github-token",
		Title:       "GitHub token",
		Description: "The line contains what looks like a GitHub personal access or app token.",
		Suggestion:  "Revoke the token and inject it at runtime.",
		Pattern:     regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}\b`),
		Severity:    finding.SeverityCritical,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceHigh,
		Languages:   anyLang,
		Class:       ClassSecret,
	},
	{
		ID:          "slack-token",
		Title:       "Slack token",
		Description: "The line contains what looks like a Slack API token.",
		Suggestion:  "Revoke the token and inject it at runtime.",
		Pattern:     regexp.MustCompile(`\bxox[abprs]-[A-Za-z0-9-]{10,}`),
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceHigh,
		Languages:   anyLang,
		Class:       ClassSecret,
	},
	{
		ID:          "stripe-live-key",
		Title:       "Stripe live key",
		Description: "The line contains a live-mode Stripe secret or restricted key.",
		Suggestion:  "Roll the key in the Stripe dashboard and load it from the environment.",
		Pattern:     regexp.MustCompile(`\b[rs]k_live_[A-Za-z0-9]{20,}\b`),
		Severity:    finding.SeverityCritical,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceHigh,
		Languages:   anyLang,
		Class:       ClassSecret,
	},
	{
		ID:          "insecure-http-url",
		Title:       "Plain HTTP URL",
		Description: "A hardcoded http:// URL sends traffic unencrypted.",
		Suggestion:  "Use https://.",
		Pattern:     regexp.MustCompile(`(["'` + bt + `])http://([A-Za-z0-9])`),
		FixTemplate: "${1}https://${2}",
		Severity:    finding.SeverityLow,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   anyLang,
		Class:       ClassURL,
	},
	{
		ID:          "hardcoded-ip",
		Title:       "Hardcoded IP address",
		Description: "A literal IPv4 address ties the code to one environment.",
		Suggestion:  "Move the address into configuration.",
		Pattern:     regexp.MustCompile(`["'](?:\d{1,3}\.){3}\d{1,3}(?::\d{1,5})?["']`),
		Severity:    finding.SeverityLow,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceLow,
		Languages:   anyLang,
		Class:       ClassIP,
	},
	{
		ID:          "weak-hash",
		Title:       "Weak hash algorithm",
		Description: "MD5 and SHA-1 are broken for collision resistance.",
		Suggestion:  "Use SHA-256 or better; use a password KDF for passwords.",
		Pattern:     regexp.MustCompile(`\bcreateHash\(\s*["'](?:md5|sha1)["']|\bhashlib\.(?:md5|sha1)\(|"crypto/(?:md5|sha1)"|\b(?:md5|sha1)\.(?:New|Sum)\(`),
		Severity:    finding.SeverityMedium,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceHigh,
		Languages:   langs(jsLike, []string{"py", "go"}),
	},
	{
		ID:          "insecure-random",
		Title:       "Non-cryptographic random source",
		Description: "Math.random() is predictable and must not be used for tokens or secrets.",
		Suggestion:  "Use crypto.getRandomValues or crypto.randomUUID.",
		Pattern:     regexp.MustCompile(`\bMath\.random\s*\(`),
		Severity:    finding.SeverityLow,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceLow,
		Languages:   jsLike,
	},
	{
		ID:          "xss-inner-html",
		Title:       "Unescaped HTML sink",
		Description: "Assigning to innerHTML, using dangerouslySetInnerHTML or document.write renders raw markup.",
		Suggestion:  "Use textContent or sanitize the markup first.",
		Pattern:     regexp.MustCompile(`\.(?:innerHTML|outerHTML)\s*=[^=]|\bdangerouslySetInnerHTML\b|\bdocument\.write(?:ln)?\s*\(`),
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   langs(jsLike, []string{"html", "htm"}),
	},
	{
		ID:          "tls-verification-disabled",
		Title:       "TLS certificate verification disabled",
		Description: "Certificate checks are turned off, which allows man-in-the-middle attacks.",
		Suggestion:  "Keep verification on and trust the correct CA instead.",
		Pattern:     regexp.MustCompile(`\bInsecureSkipVerify\s*:\s*true\b|\brejectUnauthorized\s*:\s*false\b|\bverify\s*=\s*False\b|NODE_TLS_REJECT_UNAUTHORIZED["']?\s*[:=]\s*["']?0`),
		Fix:         fixTLSVerification,
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceHigh,
		Languages:   langs(jsLike, []string{"py", "go"}),
	},
	{
		ID:          "unsafe-deserialization",
		Title:       "Unsafe deserialization",
		Description: "pickle, marshal and unserialize can execute code embedded in the payload.",
		Suggestion:  "Deserialize untrusted input with a data-only format such as JSON.",
		Pattern:     regexp.MustCompile(`\bpickle\.loads?\s*\(|\bmarshal\.loads?\s*\(|\bunserialize\s*\(`),
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   []string{"py", "php"},
	},
	{
		ID:          "yaml-unsafe-load",
		Title:       "yaml.load without a safe loader",
		Description: "yaml.load can construct arbitrary Python objects.",
		Suggestion:  "Use yaml.safe_load.",
		Pattern:     regexp.MustCompile(`\byaml\.load\s*\(`),
		FixTemplate: "yaml.safe_load(",
		Severity:    finding.SeverityMedium,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   []string{"py"},
	},
	{
		ID:          "cors-wildcard",
		Title:       "Wildcard CORS origin",
		Description: "Allowing every origin exposes the API to any site a user visits.",
		Suggestion:  "List the allowed origins explicitly.",
		Pattern:     regexp.MustCompile(`(?i)access-control-allow-origin["']?\s*[,:]\s*["']\*["']|\borigin\s*:\s*["']\*["']`),
		Severity:    finding.SeverityMedium,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   langs(jsLike, []string{"py", "go"}),
	},
	{
		ID:          "path-traversal",
		Title:       "File access with request-controlled path",
		Description: "A filesystem call receives a path taken from the request.",
		Suggestion:  "Resolve the path against a base directory and reject escapes.",
		Pattern:     regexp.MustCompile(`\b(?:readFile|readFileSync|createReadStream|sendFile|unlink)\s*\([^)]*\breq\.(?:params|query|body)`),
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   jsLike,
	},
	{
		ID:          "open-redirect",
		Title:       "Redirect to request-controlled URL",
		Description: "The redirect target comes straight from the request.",
		Suggestion:  "Redirect only to relative paths or an allow-list of hosts.",
		Pattern:     regexp.MustCompile(`\bres\.redirect\s*\(\s*req\.(?:query|params|body)`),
		Severity:    finding.SeverityMedium,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   jsLike,
	},
}
