package constants

const (
	Name    = "fluxly-ccs"
	Version = "1.2.0"

	// Upstream Git hosts sniff the User-Agent to pick their smart HTTP
	// response dialect, so the forced value must keep the "git/" prefix.
	UpstreamUserAgent = "git/" + Name + "-" + Version
)
