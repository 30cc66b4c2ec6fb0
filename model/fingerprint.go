package model

import "github.com/avvalues/trade-hub/shared"

// Fingerprint is the coarse anonymous identity of a submitter.
type Fingerprint struct {
	IP        string
	UserAgent string
}

func NewFingerprint(ip, userAgent string) Fingerprint {
	return Fingerprint{
		IP:        shared.TruncateRunes(ip, shared.MaxIPLength),
		UserAgent: shared.TruncateRunes(userAgent, shared.MaxUserAgentLength),
	}
}

func (f Fingerprint) String() string {
	return f.IP + "|" + f.UserAgent
}
