package hava

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// accountIDField is the colon separated field of an ARN holding the account id.
const accountIDField = 4

var accountIDPattern = regexp.MustCompile(`\d{12,}`)

// ParseTrackedSources resolves sources to the AWS accounts they cover.
// Sources whose info does not carry a 12+ digit account id are dropped.
func ParseTrackedSources(sources []TrackedSource) []ReconciledAccount {
	return lo.FilterMap(sources, func(s TrackedSource, _ int) (ReconciledAccount, bool) {
		id, ok := AccountIDFromInfo(s.Info)
		if !ok {
			return ReconciledAccount{}, false
		}
		return ReconciledAccount{
			ID:           s.ID,
			AWSAccountID: id,
			Name:         s.Name,
			RoleARN:      s.Info,
		}, true
	})
}

// AccountIDFromInfo extracts the account id from a colon delimited locator
// such as arn:aws:iam::123456789012:role/x.
func AccountIDFromInfo(info string) (string, bool) {
	fields := strings.Split(info, ":")
	if len(fields) <= accountIDField {
		return "", false
	}
	id := fields[accountIDField]
	if !accountIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}
