package services

import "strings"

// ErrorKind classifies a failed external call into the taxonomy the
// handlers translate to HTTP responses.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindConfiguration
	KindAuthentication
	KindConflict
	KindUpstream
	KindIO
	KindInternal
)

// HTTPStatus returns the response status for a kind.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return 400
	case KindAuthentication:
		return 401
	case KindConflict:
		return 409
	case KindUpstream:
		return 502
	default:
		return 500
	}
}

// ErrorType returns the taxonomy name carried in the error envelope.
func (k ErrorKind) ErrorType() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindConfiguration:
		return "ConfigurationError"
	case KindAuthentication:
		return "AuthenticationError"
	case KindConflict:
		return "ConflictError"
	case KindUpstream:
		return "UpstreamError"
	case KindIO:
		return "IOError"
	default:
		return "InternalError"
	}
}

type outputRule struct {
	substring string
	kind      ErrorKind
}

// Substring-to-kind mappings for surge CLI output, checked in priority
// order. The phrases were observed against surge 0.24.x; if the tool's
// message text changes only these tables need updating.
var deployOutputRules = []outputRule{
	{"domain is already taken", KindConflict},
	{"not authorized", KindAuthentication},
	{"enoent", KindIO},
}

var authOutputRules = []outputRule{
	{"domain is already taken", KindConflict},
	{"invalid", KindAuthentication},
	{"unauthorized", KindAuthentication},
	{"network", KindUpstream},
}

func classify(output string, rules []outputRule) ErrorKind {
	lowered := strings.ToLower(output)
	for _, rule := range rules {
		if strings.Contains(lowered, rule.substring) {
			return rule.kind
		}
	}
	if strings.TrimSpace(output) == "" {
		return KindNone
	}
	return KindInternal
}

// ClassifyDeployOutput maps a deploy command's error stream to a kind.
// Any non-empty unmatched output is a generic internal failure.
func ClassifyDeployOutput(output string) ErrorKind {
	return classify(output, deployOutputRules)
}

// ClassifyAuthOutput maps a login/token command's error stream to a kind.
func ClassifyAuthOutput(output string) ErrorKind {
	return classify(output, authOutputRules)
}
