// ABOUTME: Display helpers for stored IAM role ARNs
// ABOUTME: Parsing is informational only and never rejects a value

package awstrust

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
)

// RoleInfo is the displayable breakdown of a role ARN
type RoleInfo struct {
	Raw       string
	Parsed    bool
	Partition string
	AccountID string
	RoleName  string
}

// DescribeRoleARN splits an IAM role ARN into its account and role name.
// Values that do not parse are returned raw with Parsed false.
func DescribeRoleARN(value string) RoleInfo {
	info := RoleInfo{Raw: value}

	parsed, err := arn.Parse(strings.TrimSpace(value))
	if err != nil || parsed.Service != "iam" {
		return info
	}

	info.Parsed = true
	info.Partition = parsed.Partition
	info.AccountID = parsed.AccountID
	info.RoleName = parsed.Resource
	if i := strings.LastIndex(parsed.Resource, "/"); i >= 0 {
		info.RoleName = parsed.Resource[i+1:]
	}
	return info
}

// Label is a short account/role description for listings
func (r RoleInfo) Label() string {
	if !r.Parsed {
		return r.Raw
	}
	return r.AccountID + "/" + r.RoleName
}
