// Package curator contains the pure business logic for gating policy
// mutations: the violation blocklist, review transition guards, and
// strategic sampling.
package curator

import (
	"strings"

	"github.com/example/sage/internal/ports/primary"
)

// Violation type constants.
const (
	ViolationHarmfulBehavior    = "harmful_behavior"
	ViolationDataPrivacy        = "data_privacy"
	ViolationSecurityRisk       = "security_risk"
	ViolationQualityDegradation = "quality_degradation"
)

// violationPatterns is the fixed, case-insensitive substring blocklist.
// It is deliberately a simple, auditable table rather than a semantic
// classifier so the gate's behavior stays predictable and testable.
var violationPatterns = []struct {
	category string
	pattern  string
}{
	{ViolationHarmfulBehavior, "ignore all errors"},
	{ViolationHarmfulBehavior, "ignore errors"},
	{ViolationHarmfulBehavior, "suppress exceptions"},
	{ViolationHarmfulBehavior, "swallow exceptions"},
	{ViolationHarmfulBehavior, "never report failures"},
	{ViolationHarmfulBehavior, "hide failures"},

	{ViolationDataPrivacy, "log passwords"},
	{ViolationDataPrivacy, "log credentials"},
	{ViolationDataPrivacy, "expose credentials"},
	{ViolationDataPrivacy, "print api key"},
	{ViolationDataPrivacy, "share user data"},
	{ViolationDataPrivacy, "include secrets"},

	{ViolationSecurityRisk, "disable authentication"},
	{ViolationSecurityRisk, "disable auth"},
	{ViolationSecurityRisk, "skip validation"},
	{ViolationSecurityRisk, "bypass security"},
	{ViolationSecurityRisk, "disable tls"},
	{ViolationSecurityRisk, "allow all origins"},

	{ViolationQualityDegradation, "skip tests"},
	{ViolationQualityDegradation, "lower the quality"},
	{ViolationQualityDegradation, "lower quality threshold"},
	{ViolationQualityDegradation, "reduce test coverage"},
	{ViolationQualityDegradation, "disable linting"},
}

// DetectViolations scans candidate text against the blocklist and returns
// every match. Matching is case-insensitive substring containment.
func DetectViolations(text string) []primary.Violation {
	lowered := strings.ToLower(text)

	var found []primary.Violation
	for _, entry := range violationPatterns {
		if strings.Contains(lowered, entry.pattern) {
			found = append(found, primary.Violation{
				Type:    entry.category,
				Pattern: entry.pattern,
			})
		}
	}
	return found
}

// RequiresReview reports whether a proposed mutation must be blocked for
// human review. A violation can be introduced directly in the candidate text
// or smuggled in via the critique that produced it, so both are scanned.
func RequiresReview(candidateText, critique string) bool {
	if len(DetectViolations(candidateText)) > 0 {
		return true
	}
	return len(DetectViolations(critique)) > 0
}
