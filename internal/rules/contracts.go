package rules

import (
	"regexp"

	"github.com/dshills/vigil/internal/finding"
)

var (
	solidity  = []string{"sol"}
	evmChains = []string{"evm"}
)

var contractRules = []PatternRule{
	{
		ID:          "tx-origin-auth",
		Title:       "tx.origin used for authorization",
		Description: "tx.origin is the original sender of the transaction, so an intermediate contract can act on the user's behalf.",
		Suggestion:  "Use msg.sender.",
		Pattern:     regexp.MustCompile(`\btx\.origin\b`),
		FixTemplate: "msg.sender",
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceHigh,
		Languages:   solidity,
		Chains:      evmChains,
	},
	{
		ID:          "delegatecall",
		Title:       "delegatecall",
		Description: "delegatecall runs foreign code against this contract's storage.",
		Suggestion:  "Only delegate to trusted, immutable targets.",
		Pattern:     regexp.MustCompile(`\.delegatecall\s*\(`),
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   solidity,
		Chains:      evmChains,
	},
	{
		ID:          "selfdestruct",
		Title:       "selfdestruct",
		Description: "selfdestruct can remove the contract and send its balance elsewhere.",
		Suggestion:  "Remove it or guard it behind strict access control.",
		Pattern:     regexp.MustCompile(`\b(?:selfdestruct|suicide)\s*\(`),
		Severity:    finding.SeverityHigh,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceHigh,
		Languages:   solidity,
		Chains:      evmChains,
	},
	{
		ID:          "reentrancy",
		Title:       "State written after external call",
		Description: "Storage is updated after sending value, so a re-entrant call sees stale state.",
		Suggestion:  "Apply checks-effects-interactions or a reentrancy guard.",
		Multiline:   regexp.MustCompile(`\.call\{value:[^}]*\}\([^;]*;[^}]*?\b\w+\s*\[[^\]]+\]\s*[-+]?=`),
		Severity:    finding.SeverityCritical,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceMedium,
		Languages:   solidity,
		Chains:      evmChains,
	},
	{
		ID:          "unchecked-call",
		Title:       "Unchecked low-level call",
		Description: "The boolean result of send or call is ignored.",
		Suggestion:  "Check the returned success flag.",
		Pattern:     regexp.MustCompile(`^\s*[\w.\[\]()]+\.(?:send|call)\s*(?:\{[^}]*\})?\s*\([^;]*\)\s*;`),
		Severity:    finding.SeverityMedium,
		Category:    finding.CategoryBug,
		Confidence:  finding.ConfidenceMedium,
		Languages:   solidity,
		Chains:      evmChains,
	},
	{
		ID:          "block-timestamp",
		Title:       "block.timestamp dependence",
		Description: "Validators can shift block.timestamp by several seconds.",
		Suggestion:  "Avoid using it for randomness or tight deadlines.",
		Pattern:     regexp.MustCompile(`\bblock\.timestamp\b`),
		Severity:    finding.SeverityLow,
		Category:    finding.CategorySecurity,
		Confidence:  finding.ConfidenceLow,
		Languages:   solidity,
		Chains:      evmChains,
	},
	{
		ID:          "floating-pragma",
		Title:       "Floating compiler pragma",
		Description: "A caret pragma lets the contract compile with untested compiler versions.",
		Suggestion:  "Pin the exact compiler version.",
		Pattern:     regexp.MustCompile(`(pragma\s+solidity\s+)\^`),
		FixTemplate: "${1}",
		Severity:    finding.SeverityLow,
		Category:    finding.CategoryBestPractice,
		Confidence:  finding.ConfidenceHigh,
		Languages:   solidity,
		Chains:      evmChains,
	},
}
