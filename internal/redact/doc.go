// Package redact masks secret values in report text.
//
// Findings for hardcoded credentials carry the offending line as their code
// snippet, so without masking a report would republish the secret. Detection
// uses regex heuristics covering API keys, JWTs, private key headers, AWS
// keys, bearer tokens, connection-string passwords and provider tokens
// (GitHub, Slack, Stripe, Anthropic, OpenAI). Where the pattern has an
// assignment shape only the value is replaced, so `password = "..."` still
// shows which variable held it.
//
// A Masker additionally hides all text for files matching its path patterns.
package redact
