package gitproxy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newClassifierRequest(method, target string, headers map[string]string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func TestClassifyCanonicalShapes(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		headers map[string]string
		want    Operation
	}{
		{
			name:   "PreflightInfoRefsUploadPack",
			method: http.MethodOptions,
			target: "/github.com/user/repo.git/info/refs?service=git-upload-pack",
			want:   OpPreflightInfoRefs,
		},
		{
			name:   "PreflightInfoRefsReceivePack",
			method: http.MethodOptions,
			target: "/github.com/user/repo.git/info/refs?service=git-receive-pack",
			want:   OpPreflightInfoRefs,
		},
		{
			name:   "InfoRefs",
			method: http.MethodGet,
			target: "/github.com/user/repo.git/info/refs?service=git-upload-pack",
			want:   OpInfoRefs,
		},
		{
			name:    "PreflightPull",
			method:  http.MethodOptions,
			target:  "/github.com/user/repo.git/git-upload-pack",
			headers: map[string]string{"Access-Control-Request-Headers": "content-type"},
			want:    OpPreflightPull,
		},
		{
			name:    "PreflightPullMixedHeaderList",
			method:  http.MethodOptions,
			target:  "/github.com/user/repo.git/git-upload-pack",
			headers: map[string]string{"Access-Control-Request-Headers": "authorization, Content-Type"},
			want:    OpPreflightPull,
		},
		{
			name:    "Pull",
			method:  http.MethodPost,
			target:  "/github.com/user/repo.git/git-upload-pack",
			headers: map[string]string{"Content-Type": "application/x-git-upload-pack-request"},
			want:    OpPull,
		},
		{
			name:    "PreflightPush",
			method:  http.MethodOptions,
			target:  "/github.com/user/repo.git/git-receive-pack",
			headers: map[string]string{"Access-Control-Request-Headers": "content-type"},
			want:    OpPreflightPush,
		},
		{
			name:    "Push",
			method:  http.MethodPost,
			target:  "/github.com/user/repo.git/git-receive-pack",
			headers: map[string]string{"Content-Type": "application/x-git-receive-pack-request"},
			want:    OpPush,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newClassifierRequest(tt.method, tt.target, tt.headers)
			assert.Equal(t, tt.want, Classify(r))
		})
	}
}

// negating any single required condition must flip the strict verdict to NotGit
func TestClassifyNegatedConditions(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		headers map[string]string
	}{
		{
			name:   "InfoRefsWrongMethod",
			method: http.MethodPost,
			target: "/github.com/user/repo.git/info/refs?service=git-upload-pack",
		},
		{
			name:   "InfoRefsUnknownService",
			method: http.MethodGet,
			target: "/github.com/user/repo.git/info/refs?service=git-evil-pack",
		},
		{
			name:   "InfoRefsMissingService",
			method: http.MethodGet,
			target: "/github.com/user/repo.git/info/refs",
		},
		{
			name:   "InfoRefsWrongPathSuffix",
			method: http.MethodGet,
			target: "/github.com/user/repo.git/info/refs/extra?service=git-upload-pack",
		},
		{
			name:   "PreflightPullMissingRequestHeaders",
			method: http.MethodOptions,
			target: "/github.com/user/repo.git/git-upload-pack",
		},
		{
			name:    "PreflightPullIrrelevantRequestHeaders",
			method:  http.MethodOptions,
			target:  "/github.com/user/repo.git/git-upload-pack",
			headers: map[string]string{"Access-Control-Request-Headers": "authorization"},
		},
		{
			name:   "PullMissingContentType",
			method: http.MethodPost,
			target: "/github.com/user/repo.git/git-upload-pack",
		},
		{
			name:    "PullWrongContentType",
			method:  http.MethodPost,
			target:  "/github.com/user/repo.git/git-upload-pack",
			headers: map[string]string{"Content-Type": "application/json"},
		},
		{
			name:    "PushUploadPackContentTypeMismatch",
			method:  http.MethodPost,
			target:  "/github.com/user/repo.git/git-receive-pack",
			headers: map[string]string{"Content-Type": "application/x-git-upload-pack-request"},
		},
		{
			name:    "PullWrongPathSuffix",
			method:  http.MethodPost,
			target:  "/github.com/user/repo.git/git-upload-pack/extra",
			headers: map[string]string{"Content-Type": "application/x-git-upload-pack-request"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newClassifierRequest(tt.method, tt.target, tt.headers)
			assert.Equal(t, OpNotGit, Classify(r))
		})
	}
}

func TestLooksLikeGit(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		headers map[string]string
		want    bool
	}{
		{
			name:   "ServiceQueryParam",
			method: http.MethodGet,
			target: "/github.com/user/repo?service=git-receive-pack",
			want:   true,
		},
		{
			name:   "InfoRefsInPath",
			method: http.MethodGet,
			target: "/github.com/user/repo/info/refs",
			want:   true,
		},
		{
			name:   "DotGitInPath",
			method: http.MethodGet,
			target: "/github.com/user/repo.git/objects/info/packs",
			want:   true,
		},
		{
			name:    "GitUserAgent",
			method:  http.MethodGet,
			target:  "/github.com/user/repo",
			headers: map[string]string{"User-Agent": "git/2.39.0"},
			want:    true,
		},
		{
			name:    "GitUserAgentBarePost",
			method:  http.MethodPost,
			target:  "/github.com/user/repo.git/git-upload-pack",
			headers: map[string]string{"User-Agent": "git/2.39.0"},
			want:    true,
		},
		{
			name:   "BarePostPathOnlyNotEnough",
			method: http.MethodPost,
			target: "/github.com/x/y.git/git-receive-pack",
			want:   false,
		},
		{
			name:    "PlainBrowserGet",
			method:  http.MethodGet,
			target:  "/github.com/user/repo",
			headers: map[string]string{"User-Agent": "Mozilla/5.0"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newClassifierRequest(tt.method, tt.target, tt.headers)
			assert.Equal(t, tt.want, LooksLikeGit(r))
		})
	}
}

func TestIsGitRequestUnion(t *testing.T) {
	// strict-only: proper pull POST with a non-git user agent
	pull := newClassifierRequest(http.MethodPost, "/h.com/r.git/git-upload-pack", map[string]string{
		"Content-Type": "application/x-git-upload-pack-request",
		"User-Agent":   "Mozilla/5.0",
	})
	assert.True(t, IsGitRequest(pull))

	// relaxed-only: dumb-protocol style fetch from the git CLI
	dumb := newClassifierRequest(http.MethodGet, "/h.com/r.git/objects/abc", map[string]string{
		"User-Agent": "git/2.39.0",
	})
	assert.Equal(t, OpNotGit, Classify(dumb))
	assert.True(t, IsGitRequest(dumb))

	// neither
	browser := newClassifierRequest(http.MethodGet, "/h.com/whatever", map[string]string{
		"User-Agent": "Mozilla/5.0",
	})
	assert.False(t, IsGitRequest(browser))
}
