package gitproxy

import (
	"net/http"
	"strings"
)

// Operation is the smart HTTP shape a request was classified as. It carries
// no payload, classification is a pure predicate over the request.
type Operation int

const (
	OpNotGit Operation = iota
	OpPreflightInfoRefs
	OpInfoRefs
	OpPreflightPull
	OpPull
	OpPreflightPush
	OpPush
)

func (op Operation) String() string {
	switch op {
	case OpPreflightInfoRefs:
		return "preflight-info-refs"
	case OpInfoRefs:
		return "info-refs"
	case OpPreflightPull:
		return "preflight-pull"
	case OpPull:
		return "pull"
	case OpPreflightPush:
		return "preflight-push"
	case OpPush:
		return "push"
	default:
		return "not-git"
	}
}

func (op Operation) IsPreflight() bool {
	switch op {
	case OpPreflightInfoRefs, OpPreflightPull, OpPreflightPush:
		return true
	default:
		return false
	}
}

const (
	uploadPackService  = "git-upload-pack"
	receivePackService = "git-receive-pack"

	uploadPackRequestType  = "application/x-git-upload-pack-request"
	receivePackRequestType = "application/x-git-receive-pack-request"
)

func isGitService(service string) bool {
	return service == uploadPackService || service == receivePackService
}

// Classify matches a request against the six canonical Git smart HTTP
// shapes: ref discovery for clone/fetch, pull and push negotiation, and
// their CORS preflights. Anything else is OpNotGit.
func Classify(r *http.Request) Operation {
	path := r.URL.Path

	if strings.HasSuffix(path, "/info/refs") && isGitService(r.URL.Query().Get("service")) {
		switch r.Method {
		case http.MethodOptions:
			return OpPreflightInfoRefs
		case http.MethodGet:
			return OpInfoRefs
		}
	}

	if strings.HasSuffix(path, uploadPackService) {
		if op, ok := classifyPackEndpoint(r, uploadPackRequestType, OpPreflightPull, OpPull); ok {
			return op
		}
	}
	if strings.HasSuffix(path, receivePackService) {
		if op, ok := classifyPackEndpoint(r, receivePackRequestType, OpPreflightPush, OpPush); ok {
			return op
		}
	}

	return OpNotGit
}

func classifyPackEndpoint(r *http.Request, requestType string, preflightOp, packOp Operation) (Operation, bool) {
	switch r.Method {
	case http.MethodOptions:
		// the browser announces the headers of the upcoming POST
		requested := strings.ToLower(r.Header.Get("Access-Control-Request-Headers"))
		if strings.Contains(requested, "content-type") {
			return preflightOp, true
		}
	case http.MethodPost:
		if r.Header.Get("Content-Type") == requestType {
			return packOp, true
		}
	}
	return OpNotGit, false
}

// LooksLikeGit is the relaxed fallback detector: service query parameter,
// well-known path fragments, or a git user-agent. It exists because real
// clients hit pack endpoints without the exact content-type or service
// parameter the strict table demands.
func LooksLikeGit(r *http.Request) bool {
	if isGitService(r.URL.Query().Get("service")) {
		return true
	}
	if strings.HasPrefix(r.Header.Get("User-Agent"), "git/") {
		return true
	}
	if r.Method == http.MethodPost {
		// A bare POST with neither a pack content-type nor a git agent is
		// indistinguishable from browser junk, so the path alone is not
		// enough to forward it.
		return false
	}
	return strings.Contains(r.URL.Path, "/info/refs") || strings.Contains(r.URL.Path, ".git/")
}

// IsGitRequest is the union of the strict classifier and the relaxed
// detector; either verdict lets the request through to forwarding.
func IsGitRequest(r *http.Request) bool {
	return Classify(r) != OpNotGit || LooksLikeGit(r)
}
